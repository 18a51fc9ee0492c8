package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/romizzidiamly/vocabmaster/internal/ai"
	"github.com/romizzidiamly/vocabmaster/internal/auth"
	"github.com/romizzidiamly/vocabmaster/internal/config"
	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
)

// SessionHeader carries the opaque key of the caller's practice session
const SessionHeader = "X-Session-ID"

// Server is the HTTP front-end over the recall engine
type Server struct {
	cfg      config.HTTPConfig
	engine   *recall.Engine
	enricher ai.Enricher
	auth     *auth.Authenticator
	log      *logger.Logger

	router *gin.Engine
	http   *http.Server
}

// New builds the router. enricher may be nil when AI enrichment is disabled.
func New(cfg config.HTTPConfig, engine *recall.Engine, enricher ai.Enricher, authn *auth.Authenticator, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:      cfg,
		engine:   engine,
		enricher: enricher,
		auth:     authn,
		log:      log.With("component", "http"),
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", SessionHeader},
		ExposeHeaders:    []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if s.cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = s.cfg.MaxUploadBytes
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/auth/login", s.login)

		api.GET("/topics", s.listTopics)
		api.POST("/ai", s.enrich)

		admin := api.Group("", s.requireAdmin())
		admin.POST("/topics", s.createTopic)
		admin.DELETE("/topics/:id", s.deleteTopic)
		admin.POST("/topics/upload", s.uploadTopic)
		admin.POST("/extract", s.extract)

		session := api.Group("/session", s.withSession())
		session.GET("", s.sessionState)
		session.POST("/select", s.selectTopic)
		session.POST("/confirm", s.confirmPreview)
		session.POST("/exit", s.exitToList)
		session.POST("/discover", s.discover)
		session.POST("/items/:id/guess", s.guess)
		session.POST("/items/:id/regenerate", s.regenerate)
		session.POST("/reset", s.resetProgress)
	}

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.cfg.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
