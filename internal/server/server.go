// Package server exposes the query facade as a read-only HTTP JSON API
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nainya/standardsgraph/internal/logger"
	"github.com/nainya/standardsgraph/internal/metrics"
	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/query"
	"github.com/nainya/standardsgraph/pkg/relation"
	"github.com/nainya/standardsgraph/pkg/traverse"
)

// Server wires the query engine behind HTTP routes. The underlying graph is
// immutable, so every handler is safe for concurrent use.
type Server struct {
	engine    *query.Engine
	router    *gin.Engine
	log       *logger.Logger
	metrics   *metrics.Metrics
	startTime time.Time
}

// NewServer creates the HTTP server around a loaded query engine.
func NewServer(engine *query.Engine, log *logger.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:    engine,
		router:    gin.New(),
		log:       log,
		metrics:   m,
		startTime: time.Now(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.observe())

	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	{
		v1.GET("/stats", s.handleStats)
		v1.GET("/integrity", s.handleIntegrity)

		v1.GET("/frameworks", s.handleFrameworks)
		v1.GET("/frameworks/:id/descendants", s.handleAllDescendants)

		v1.GET("/items", s.handleItems)
		v1.GET("/items/:id", s.handleItem)
		v1.GET("/items/:id/children", s.handleChildren)
		v1.GET("/items/:id/parent", s.handleParent)
		v1.GET("/items/:id/prerequisites", s.handlePrerequisites)
		v1.GET("/items/:id/components", s.handleSupportingComponents)
		v1.GET("/items/:id/related", s.handleRelated)
		v1.GET("/items/:id/similar", s.handleSimilar)

		v1.GET("/components", s.handleComponentsInGrade)
	}

	return s
}

// Router returns the configured handler, for serving and for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// response is the envelope every data endpoint returns. Warnings carry
// data-integrity findings; they never replace results.
type response struct {
	Data     any            `json:"data"`
	Warnings query.Warnings `json:"warnings,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "standardsgraph",
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, response{Data: s.engine.Stats()})
}

func (s *Server) handleIntegrity(c *gin.Context) {
	warnings := s.engine.Validate()
	c.JSON(http.StatusOK, gin.H{
		"findings": warnings,
		"count":    len(warnings),
	})
}

func (s *Server) handleFrameworks(c *gin.Context) {
	subject := c.Query("subject")
	jurisdiction := c.Query("jurisdiction")

	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject query parameter is required"})
		return
	}

	if jurisdiction != "" {
		fw, err := s.engine.FrameworkFor(jurisdiction, subject)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response{Data: []*entity.Framework{fw}})
		return
	}

	c.JSON(http.StatusOK, response{Data: s.engine.FrameworksBySubject(subject)})
}

func (s *Server) handleAllDescendants(c *gin.Context) {
	items, warnings, err := s.engine.AllDescendants(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: items, Warnings: warnings})
}

func (s *Server) handleItems(c *gin.Context) {
	if code := c.Query("statementCode"); code != "" {
		item, err := s.engine.ItemByStatementCode(code, c.Query("jurisdiction"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response{Data: []*entity.Item{item}})
		return
	}

	filter := query.ItemFilter{
		Jurisdiction:            c.Query("jurisdiction"),
		AcademicSubject:         c.Query("subject"),
		NormalizedStatementType: c.Query("type"),
		GradeAny:                c.QueryArray("grade"),
	}
	c.JSON(http.StatusOK, response{Data: s.engine.Items(filter)})
}

func (s *Server) handleItem(c *gin.Context) {
	item, err := s.engine.ItemByID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: item})
}

func (s *Server) handleChildren(c *gin.Context) {
	items, warnings, err := s.engine.ChildrenOf(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: items, Warnings: warnings})
}

func (s *Server) handleParent(c *gin.Context) {
	parent, warnings, err := s.engine.ParentOf(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: parent, Warnings: warnings})
}

func (s *Server) handlePrerequisites(c *gin.Context) {
	items, warnings, err := s.engine.PrerequisitesOf(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: items, Warnings: warnings})
}

func (s *Server) handleSupportingComponents(c *gin.Context) {
	components, warnings, err := s.engine.SupportingComponents(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: components, Warnings: warnings})
}

func (s *Server) handleRelated(c *gin.Context) {
	items, warnings, err := s.engine.RelatedStandards(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: items, Warnings: warnings})
}

func (s *Server) handleSimilar(c *gin.Context) {
	shared, warnings, err := s.engine.StandardsSharingComponents(c.Param("id"), c.Query("jurisdiction"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: shared, Warnings: warnings})
}

func (s *Server) handleComponentsInGrade(c *gin.Context) {
	grade := c.Query("grade")
	if grade == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grade query parameter is required"})
		return
	}

	components, warnings, err := s.engine.ComponentsInGrade(grade, c.Query("jurisdiction"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Data: components, Warnings: warnings})
}

// writeError maps the library error kinds onto HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUnknownKind),
		errors.Is(err, relation.ErrUnknownType),
		errors.Is(err, query.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, traverse.ErrResourceExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
