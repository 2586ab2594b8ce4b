package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/svclab/itemsvc/internal/cache"
	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/health"
	"github.com/svclab/itemsvc/internal/items"
	"github.com/svclab/itemsvc/internal/observability"
)

type Server struct {
	config *config.Config
	server *http.Server

	store      *items.Store
	cache      *cache.Cache
	aggregator *health.Aggregator

	// Observability
	logger    *observability.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	startTime time.Time
}

func New(cfg *config.Config, logger *observability.Logger) (*Server, error) {
	metrics := observability.NewMetrics()
	if err := metrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	tracer, err := observability.NewTracer(cfg.Observability.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	cacheClient, err := cache.New(cfg.Redis, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	aggregator := health.NewAggregator(health.AggregatorConfig{
		ProbeTimeout:    cfg.Health.ProbeTimeout,
		ReadinessMargin: cfg.Health.ReadinessMargin,
	})
	aggregator.Register(health.NewRedisProbe(cacheClient.Client()))

	return &Server{
		config:     cfg,
		store:      items.NewStore(),
		cache:      cacheClient,
		aggregator: aggregator,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		startTime:  time.Now(),
	}, nil
}

// Aggregator exposes the health aggregator so additional dependency
// probes can be registered before Start.
func (s *Server) Aggregator() *health.Aggregator {
	return s.aggregator
}

// buildHandler assembles the route table and the middleware chain.
func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET "+constants.PathLiveness, health.LivenessHandler(s.aggregator))
	mux.HandleFunc("GET "+constants.PathReadiness, health.ReadinessHandler(s.aggregator))
	mux.HandleFunc("GET "+constants.PathHealth, health.DetailedHandler(s.aggregator, s.config.App.Version, s.startTime))

	// Business endpoints
	items.NewHandler(s.store, s.cache, s.logger).Register(mux)

	// Documentation endpoint at the root only
	mux.HandleFunc("GET /{$}", s.serveDocumentation)

	return s.applyMiddleware(mux)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:        s.buildHandler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	s.logger.Info("Starting server",
		zap.String("host", s.config.Server.Host),
		zap.String("port", s.config.Server.Port),
		zap.Strings("probes", s.aggregator.ProbeNames()),
	)

	s.metrics.SetHealthStatus(true)

	// Metrics are served on their own listener so scrapes never compete
	// with request traffic.
	metricsPath := s.config.Observability.Metrics.Path
	if metricsPath == "" {
		metricsPath = constants.PathMetrics
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle(metricsPath, s.metrics.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.config.Server.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("Starting metrics server",
		zap.String("port", s.config.Server.MetricsPort),
	)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.shutdown(metricsServer)
}

// shutdown drains both listeners in parallel. Liveness flips first so
// the orchestrator stops routing new traffic before the drain begins.
func (s *Server) shutdown(metricsServer *http.Server) error {
	s.logger.Info("Shutting down server...")
	s.aggregator.SetShuttingDown(true)
	s.metrics.SetHealthStatus(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("Shutting down metrics server...")
		if err := metricsServer.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shutdown metrics server", zap.Error(err))
			errChan <- fmt.Errorf("metrics server shutdown: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("Shutting down main server...")
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shutdown main server", zap.Error(err))
			errChan <- fmt.Errorf("main server shutdown: %w", err)
		}
	}()

	wg.Wait()
	close(errChan)

	if err := s.tracer.Shutdown(context.Background()); err != nil {
		s.logger.Error("Failed to shutdown tracer", zap.Error(err))
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Error("Failed to close cache", zap.Error(err))
	}

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}
