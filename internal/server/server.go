package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/api/middleware"
	"github.com/klipworks/klipflow/internal/clipboard"
	"github.com/klipworks/klipflow/internal/config"
	"github.com/klipworks/klipflow/internal/engine"
	"github.com/klipworks/klipflow/internal/generation"
	httpapi "github.com/klipworks/klipflow/internal/http"
	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/monitoring"
	"github.com/klipworks/klipflow/internal/service"
	"github.com/klipworks/klipflow/internal/session"
	"github.com/klipworks/klipflow/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	runner  *service.Runner
	store   *session.Store
	bridge  *clipboard.Client
	archive *generation.Archive
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger.Info("Initializing klipflow daemon",
		zap.String("port", cfg.Server.Port),
		zap.String("generations_dir", cfg.Generations.Dir),
	)

	metrics := monitoring.NewMetrics()

	// History store (optional)
	var store *session.Store
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s, err := session.Open(ctx, cfg.Database, logger)
		cancel()
		if err != nil {
			logger.Warn("Failed to open history store", zap.Error(err))
		} else {
			store = s
			logger.Info("Connected to history store")
		}
	}

	// Clipboard bridge (optional)
	var bridge *clipboard.Client
	if cfg.Clipboard.BridgeURL != "" {
		bridge = clipboard.NewClient(cfg.Clipboard, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := bridge.Health(ctx); err != nil {
			logger.Warn("Clipboard bridge unreachable",
				zap.String("url", cfg.Clipboard.BridgeURL), zap.Error(err))
		} else {
			logger.Info("Connected to clipboard bridge", zap.String("url", cfg.Clipboard.BridgeURL))
		}
		cancel()
	}

	// Blueprint archive
	tracker, err := generation.NewTracker(filepath.Join(cfg.Generations.Dir, "state"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open generation tracker: %w", err)
	}
	archive, err := generation.NewArchive(tracker, filepath.Join(cfg.Generations.Dir, "blueprints"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open blueprint archive: %w", err)
	}
	if cfg.Generations.Seed {
		seeded, err := archive.Seed(cfg.Generations.SeedDir)
		if err != nil {
			logger.Warn("Blueprint seeding failed", zap.Error(err))
		} else if seeded > 0 {
			logger.Info("Seeded blueprints", zap.Int("count", seeded))
		}
	}

	// Workflow runner
	caps := service.DefaultCapabilities(cfg.Engine.WorkRoot)
	if bridge != nil {
		caps = append(caps, clipboard.NewCopyCapability(bridge), clipboard.NewPasteCapability(bridge))
	}
	runner := service.NewRunner(logger, metrics,
		engine.WithLogger(logger),
		engine.WithMaxDepth(cfg.Engine.MaxDepth),
		engine.WithCapabilities(caps...),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins...))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.FromConfig(cfg.RateLimit)))
	}

	// Create handlers
	handlers := httpapi.NewHandlers(runner, store, archive, bridge, metrics, logger)
	wsHandler := ws.NewHandler(runner, archive, metrics, logger)

	// Register routes
	handlers.Register(router)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		runner:  runner,
		store:   store,
		bridge:  bridge,
		archive: archive,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Router exposes the configured routes for embedding and tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close history store", zap.Error(err))
			return fmt.Errorf("failed to close history store: %w", err)
		}
		s.logger.Info("Closed history store")
	}

	// Sync logger before exit
	s.logger.Sync()

	return nil
}
