// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the connect engine and paper collection over HTTP.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkweon/paperweb/internal/connect"
	"github.com/mkweon/paperweb/internal/recommend"
	"github.com/mkweon/paperweb/internal/store"
	"github.com/mkweon/paperweb/pkg/types"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	engine *connect.Engine
	papers *store.Store
	cache  *recommend.Cache
	cfg    types.ServerConfig
	log    *zap.Logger
}

// New returns a Server wired to the engine, paper store, and cache.
func New(engine *connect.Engine, papers *store.Store, cache *recommend.Cache, cfg types.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engine: engine, papers: papers, cache: cache, cfg: cfg, log: log}
}

// Router builds the gin router with logging, recovery, and CORS middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.log))
	router.Use(gin.Recovery())
	router.Use(s.cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/connect", s.handleConnect)

		api.GET("/papers", s.handleListPapers)
		api.POST("/papers", s.handleSavePaper)
		api.GET("/papers/:id", s.handleGetPaper)
		api.DELETE("/papers/:id", s.handleDeletePaper)
		api.GET("/papers/:id/connect", s.handleConnectSaved)

		api.GET("/cache/stats", s.handleCacheStats)
		api.POST("/cache/clear", s.handleCacheClear)
	}

	return router
}

// connectRequest is the POST /api/connect body. The reference fields mirror
// types.PaperReference; limit falls back to the configured default. The
// canvas dimensions are the renderer's actual viewport so the layout radius
// matches what will be drawn; when absent the configured canvas is used.
type connectRequest struct {
	Title         string  `json:"title"`
	Year          int     `json:"year"`
	CitationCount int     `json:"citation_count"`
	ArxivID       string  `json:"arxiv_id"`
	DOI           string  `json:"doi"`
	Limit         int     `json:"limit"`
	CanvasWidth   float64 `json:"canvas_width"`
	CanvasHeight  float64 `json:"canvas_height"`
}

func (s *Server) handleConnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ref := types.PaperReference{
		Title:         req.Title,
		Year:          req.Year,
		CitationCount: req.CitationCount,
		ArxivID:       req.ArxivID,
		DOI:           req.DOI,
	}
	if !ref.HasIdentifier() && ref.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference needs an arxiv_id, doi, or title"})
		return
	}

	graph, err := s.engine.ConnectOnCanvas(c.Request.Context(), ref, req.Limit, req.CanvasWidth, req.CanvasHeight)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (s *Server) handleConnectSaved(c *gin.Context) {
	paper, err := s.papers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	graph, err := s.engine.Connect(c.Request.Context(), paper.Reference(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (s *Server) handleListPapers(c *gin.Context) {
	papers, err := s.papers.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	c.JSON(http.StatusOK, gin.H{"papers": papers, "count": len(papers)})
}

func (s *Server) handleSavePaper(c *gin.Context) {
	var paper types.Paper
	if err := c.ShouldBindJSON(&paper); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := paper.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.papers.Save(c.Request.Context(), paper); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": paper.ID})
}

func (s *Server) handleGetPaper(c *gin.Context) {
	paper, err := s.papers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

func (s *Server) handleDeletePaper(c *gin.Context) {
	if err := s.papers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.cache.Len()})
}

func (s *Server) handleCacheClear(c *gin.Context) {
	removed := s.cache.Clear()
	s.log.Info("cache cleared", zap.Int("removed", removed))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// writeError maps the domain error taxonomy onto HTTP status codes. The
// rate-limit case gets its own status so a UI can say "try again later"
// instead of "not found".
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	s.log.Warn("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) cors() gin.HandlerFunc {
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per request with latency and status.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
