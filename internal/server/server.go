// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mehuldv/satsangtv/internal/api"
	"github.com/mehuldv/satsangtv/internal/config"
	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/ingest"
	"github.com/mehuldv/satsangtv/internal/logger"
	"github.com/mehuldv/satsangtv/internal/middleware"
	"github.com/mehuldv/satsangtv/internal/rotation"
	"github.com/mehuldv/satsangtv/internal/youtube"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	rotationService *rotation.Service
	ingestService   *ingest.Service
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance. The metadata resolver is injected so
// tests can substitute a fake provider.
func New(cfg *config.Config, database *db.DB, resolver youtube.Resolver) *Server {
	repos := db.NewRepositories(database)
	rotationService := rotation.NewService(repos, resolver)
	ingestService := ingest.NewService(repos, resolver)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		rotationService: rotationService,
		ingestService:   ingestService,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupVideoRoutes(apiGroup, s.rotationService, s.ingestService, s.repos)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
