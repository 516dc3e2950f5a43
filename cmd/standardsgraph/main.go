// Standards knowledge graph server and query CLI
// Loads the CSV/NDJSON exports and answers typed graph queries
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/standardsgraph/internal/config"
	"github.com/nainya/standardsgraph/internal/logger"
	"github.com/nainya/standardsgraph/internal/metrics"
	"github.com/nainya/standardsgraph/internal/server"
	"github.com/nainya/standardsgraph/pkg/ingest"
	"github.com/nainya/standardsgraph/pkg/query"
)

const version = "1.0.0"

var (
	configPath string
	dataDir    string
	logLevel   string
	logPretty  bool
)

func main() {
	root := &cobra.Command{
		Use:     "standardsgraph",
		Short:   "Typed graph queries over learning-standards exports",
		Version: version,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&dataDir, "data", "", "Dataset directory (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logPretty, "pretty", false, "Pretty-print log output")

	root.AddCommand(serveCmd(), checkCmd(), queryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers CLI flags over the YAML config and defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logPretty {
		cfg.Log.Pretty = true
	}
	if cfg.Data.Dir == "" {
		return nil, fmt.Errorf("no dataset directory: set --data or data.dir in config")
	}
	return cfg, nil
}

// loadGraph builds the store, index, and query engine from the dataset.
func loadGraph(ctx context.Context, cfg *config.Config, log *logger.Logger) (*query.Engine, *ingest.Load, error) {
	loader := ingest.NewLoader(*log.GetZerolog())
	load, err := loader.LoadDir(ctx, cfg.Data.Dir)
	if err != nil {
		return nil, nil, err
	}

	engine := query.NewEngine(load.Store, load.Index)
	if cfg.Query.MaxNodes > 0 {
		engine = engine.WithMaxNodes(cfg.Query.MaxNodes)
	}
	return engine, load, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger.InitGlobalLogger(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
			log := logger.GetGlobalLogger()
			m := metrics.NewMetrics()

			log.LogServerStart(cfg.Server.Port, cfg.Data.Dir)

			loadStart := time.Now()
			engine, load, err := loadGraph(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			m.LoadDuration.Observe(time.Since(loadStart).Seconds())
			m.SkippedRelationships.Add(float64(load.Summary.SkippedRelationships))
			m.UpdateGraphStats(load.Summary.Frameworks, load.Summary.Items,
				load.Summary.Components, load.Summary.Relationships)

			api := server.NewServer(engine, log, m)
			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      api.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			obs := server.NewObservabilityServer(cfg.Server.ObservabilityPort, log)
			go func() {
				if err := obs.Start(); err != nil {
					log.Error("Observability server stopped").Err(err).Send()
				}
			}()

			// Graceful shutdown on SIGINT/SIGTERM
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.LogServerShutdown()

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(ctx); err != nil {
					log.Error("API server shutdown failed").Err(err).Send()
				}
				if err := obs.Shutdown(ctx); err != nil {
					log.Error("Observability shutdown failed").Err(err).Send()
				}
			}()

			log.LogServerReady(cfg.Server.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("API server failed: %w", err)
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the dataset and report integrity findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger.InitGlobalLogger(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
			log := logger.GetGlobalLogger()

			engine, load, err := loadGraph(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			findings := engine.Validate()
			report := struct {
				Summary  ingest.Summary `json:"summary"`
				Findings query.Warnings `json:"findings"`
			}{Summary: load.Summary, Findings: findings}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if len(findings) > 0 {
				log.Warn("Integrity findings present").Int("count", len(findings)).Send()
			}
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	var jurisdiction string

	cmd := &cobra.Command{
		Use:   "query <operation> <argument>",
		Short: "Run one named query against the dataset",
		Long: `Operations:
  children <itemID>        direct hasChild children
  parent <itemID>          hasChild parent
  descendants <frameworkID> full hasChild closure under a framework
  prerequisites <itemID>   standards building towards the item
  components <itemID>      learning components supporting the item
  related <itemID>         relatesTo standards
  grade <gradeTag>         components supporting items in the grade
  code <statementCode>     look up an item by statement code
  similar <itemID>         standards sharing supporting components`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger.InitGlobalLogger(logger.Config{Level: "warn", Pretty: cfg.Log.Pretty})
			log := logger.GetGlobalLogger()

			engine, _, err := loadGraph(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			op, arg := args[0], args[1]
			var (
				data     any
				warnings query.Warnings
			)

			switch op {
			case "children":
				data, warnings, err = engine.ChildrenOf(arg)
			case "parent":
				data, warnings, err = engine.ParentOf(arg)
			case "descendants":
				data, warnings, err = engine.AllDescendants(arg)
			case "prerequisites":
				data, warnings, err = engine.PrerequisitesOf(arg)
			case "components":
				data, warnings, err = engine.SupportingComponents(arg)
			case "related":
				data, warnings, err = engine.RelatedStandards(arg)
			case "grade":
				data, warnings, err = engine.ComponentsInGrade(arg, jurisdiction)
			case "code":
				data, err = engine.ItemByStatementCode(arg, jurisdiction)
			case "similar":
				data, warnings, err = engine.StandardsSharingComponents(arg, jurisdiction)
			default:
				return fmt.Errorf("unknown operation %q", op)
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(struct {
				Data     any            `json:"data"`
				Warnings query.Warnings `json:"warnings,omitempty"`
			}{Data: data, Warnings: warnings}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "Restrict results to a jurisdiction")
	return cmd
}
