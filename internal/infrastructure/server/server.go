package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/parthos/desktop/backend/internal/api/http"
	"github.com/parthos/desktop/backend/internal/api/middleware"
	"github.com/parthos/desktop/backend/internal/api/ws"
	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/infrastructure/config"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/infrastructure/tracing"
	"github.com/parthos/desktop/backend/internal/providers/gemini"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	desktop *desktop.Desktop
	hub     *ws.Hub
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger *logging.Logger
	remote ai.Collaborator
}

// WithLogger replaces the logger built from the logging config.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRemote replaces the generation client built from the AI config.
func WithRemote(remote ai.Collaborator) Option {
	return func(o *options) { o.remote = remote }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Initializing ParthOS desktop server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("ai_enabled", cfg.AI.Enabled()),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("deskd", logger.Logger)

	remote := o.remote
	if remote == nil {
		remote = newRemote(cfg.AI, logger, metrics, tracer)
	}

	hub := ws.NewHub(logger.Named("ws").Logger)
	desktopOpts := []desktop.Option{
		desktop.WithLogger(logger.Named("desktop").Logger),
		desktop.WithMetrics(metrics),
		desktop.WithEvents(hub.Publish),
		desktop.WithCloseDelay(cfg.Desktop.CloseDelay),
		desktop.WithPollInterval(cfg.AI.PollInterval),
	}
	if !cfg.Desktop.Jitter {
		desktopOpts = append(desktopOpts, desktop.WithoutJitter(types.Position{X: 100, Y: 75}))
	}
	d := desktop.New(nil, remote, desktopOpts...)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins...))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	router.Use(middleware.Gzip(middleware.DefaultGzipConfig()))

	var gateway []gin.HandlerFunc
	if cfg.RateLimit.Enabled && cfg.RateLimit.GatewayRPS > 0 {
		gateway = append(gateway, middleware.GlobalRateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.GatewayRPS,
			Burst:             cfg.RateLimit.GatewayBurst,
		}))
	}

	// Register routes
	httpapi.NewHandlers(d, metrics, logger.Named("http").Logger).Register(router, gateway...)
	ws.NewHandler(d, hub, metrics, logger.Named("ws").Logger).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		desktop: d,
		hub:     hub,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// newRemote connects the generation service. Without a key the desktop
// still runs and every generation reports the service as unavailable.
func newRemote(cfg config.AIConfig, logger *logging.Logger, metrics *monitoring.Metrics, tracer *tracing.Tracer) ai.Collaborator {
	client, err := gemini.New(cfg,
		gemini.WithLogger(logger.Named("gemini").Logger),
		gemini.WithMetrics(metrics),
		gemini.WithTracer(tracer),
	)
	if err != nil {
		logger.Warn("Generation service disabled", zap.Error(err))
		return ai.Unavailable{}
	}
	logger.Info("Generation service configured",
		zap.String("text_model", cfg.TextModel),
		zap.String("image_model", cfg.ImageModel),
		zap.String("video_model", cfg.VideoModel),
	)
	return client
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Desktop returns the served desktop session.
func (s *Server) Desktop() *desktop.Desktop {
	return s.desktop
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return s.Close()
}

// Close releases the desktop, the socket hub and the tracer.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.hub.Close()
	s.desktop.Close()
	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
