package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core"
	"github.com/agenthands/coursegraph/internal/core/extraction"
	"github.com/agenthands/coursegraph/internal/logger"
)

type Server struct {
	Engine *core.Engine
	cfg    config.ServerConfig
	log    *logger.Logger
}

func NewServer(engine *core.Engine, cfg config.ServerConfig, log *logger.Logger) *Server {
	return &Server{
		Engine: engine,
		cfg:    cfg,
		log:    log.With("component", "http"),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) == 0 || containsWildcard(s.cfg.CORSOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.Health)
	r.GET("/graph", s.Graph)
	r.GET("/roadmap", s.Roadmap)
	r.GET("/successors", s.Successors)
	r.POST("/ask", s.Ask)
	r.POST("/rebuild", s.Rebuild)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

func (s *Server) Health(c *gin.Context) {
	if !s.Engine.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "build_id": s.Engine.BuildID()})
}

func (s *Server) Graph(c *gin.Context) {
	c.JSON(http.StatusOK, s.Engine.GetGraph())
}

func (s *Server) Roadmap(c *gin.Context) {
	target := c.Query("target")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
		return
	}
	opts, ok := queryOptions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"target": target, "roadmap": s.Engine.GetRoadmap(target, opts...)})
}

func (s *Server) Successors(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject is required"})
		return
	}
	opts, ok := queryOptions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": subject, "successors": s.Engine.GetSuccessors(subject, opts...)})
}

// queryOptions reads min_confidence; on a bad value it writes the 400 itself.
func queryOptions(c *gin.Context) ([]core.QueryOption, bool) {
	raw := c.Query("min_confidence")
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be a number in [0,1]"})
		return nil, false
	}
	return []core.QueryOption{core.WithMinConfidence(v)}, true
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	answer, err := s.Engine.Ask(c.Request.Context(), req.Question)
	switch {
	case errors.Is(err, extraction.ErrNoTranslator):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question answering is not configured"})
		return
	case err != nil:
		s.log.Warn("failed to answer question", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to translate question"})
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (s *Server) Rebuild(c *gin.Context) {
	report, err := s.Engine.Build(c.Request.Context())
	if err != nil {
		s.log.Error("rebuild failed, keeping previous graph", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "build_id": s.Engine.BuildID()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"build_id": s.Engine.BuildID(), "report": report})
}
