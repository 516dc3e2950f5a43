// ABOUTME: Bulk import of the four export files into store and index
// ABOUTME: Parallel per-file decode, single-threaded build, then immutable

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

var (
	// ErrNoData indicates a data directory with none of the export files
	ErrNoData = errors.New("ingest: no export files found")
)

// Summary reports what a load produced.
type Summary struct {
	Frameworks    int `json:"frameworks"`
	Items         int `json:"items"`
	Components    int `json:"components"`
	Relationships int `json:"relationships"`

	// SkippedRelationships counts rows whose type or endpoint kinds were
	// outside the catalogue. They are logged and excluded from the index.
	SkippedRelationships int `json:"skippedRelationships"`
}

// Load is a fully built graph ready for querying.
type Load struct {
	Store   *entity.Store
	Index   *relation.Index
	Summary Summary
}

// Loader reads a dataset directory. Each export may be present as
// <Name>.csv (header row) or <Name>.ndjson; missing files yield empty
// collections.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a loader logging through the given logger.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadDir decodes the export files in parallel, then builds the entity
// store and relationship index in one pass each. Parallelism is confined to
// this construction phase; the returned Load is immutable and safe to share.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Load, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	var (
		frameworks    []frameworkRecord
		items         []itemRecord
		components    []componentRecord
		relationships []relationshipRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		frameworks, err = loadFile(ctx, dir, FileFrameworks, csvFrameworks)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = loadFile(ctx, dir, FileItems, csvItems)
		return err
	})
	g.Go(func() error {
		var err error
		components, err = loadFile(ctx, dir, FileComponents, csvComponents)
		return err
	})
	g.Go(func() error {
		var err error
		relationships, err = loadFile(ctx, dir, FileRelationships, csvRelationships)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(frameworks)+len(items)+len(components)+len(relationships) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, dir)
	}

	store := entity.NewStore()
	for _, rec := range frameworks {
		if err := store.Put(rec.toEntity()); err != nil {
			l.log.Warn().Err(err).Str("file", FileFrameworks).Msg("Skipping record")
		}
	}
	for _, rec := range items {
		if err := store.Put(rec.toEntity()); err != nil {
			l.log.Warn().Err(err).Str("file", FileItems).Msg("Skipping record")
		}
	}
	for _, rec := range components {
		if err := store.Put(rec.toEntity()); err != nil {
			l.log.Warn().Err(err).Str("file", FileComponents).Msg("Skipping record")
		}
	}

	edges := make([]*relation.Relationship, 0, len(relationships))
	skipped := 0
	for _, rec := range relationships {
		edge, err := rec.toEdge()
		if err != nil {
			skipped++
			l.log.Warn().Err(err).
				Str("identifier", rec.Identifier).
				Str("relationshipType", rec.RelationshipType).
				Msg("Skipping relationship")
			continue
		}
		edges = append(edges, edge)
	}
	index := relation.NewIndex(edges)

	summary := Summary{
		Frameworks:           store.Len(entity.KindStandardsFramework),
		Items:                store.Len(entity.KindStandardsFrameworkItem),
		Components:           store.Len(entity.KindLearningComponent),
		Relationships:        index.Len(),
		SkippedRelationships: skipped,
	}

	l.log.Info().
		Int("frameworks", summary.Frameworks).
		Int("items", summary.Items).
		Int("components", summary.Components).
		Int("relationships", summary.Relationships).
		Int("skipped", summary.SkippedRelationships).
		Msg("Dataset loaded")

	return &Load{Store: store, Index: index, Summary: summary}, nil
}

// loadFile resolves <dir>/<name>.csv or <dir>/<name>.ndjson and decodes it.
// Both missing is not an error; the collection is simply empty.
func loadFile[T any](ctx context.Context, dir, name string, fromCSV func(r io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(dir, name+".csv")
	if f, err := os.Open(csvPath); err == nil {
		defer f.Close()
		records, err := fromCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", csvPath, err)
		}
		return records, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", csvPath, err)
	}

	ndjsonPath := filepath.Join(dir, name+".ndjson")
	if f, err := os.Open(ndjsonPath); err == nil {
		defer f.Close()
		records, err := readNDJSON[T](f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ndjsonPath, err)
		}
		return records, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ndjsonPath, err)
	}

	return nil, nil
}
