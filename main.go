package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/observability"
	"github.com/svclab/itemsvc/internal/server"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)

	configFile := flags.String("config", "", "Path to configuration file (YAML or JSON)")
	watchConfig := flags.Bool("watch-config", false, "Reload runtime-adjustable settings when the config file changes")

	// Server configuration
	flags.String("host", "localhost", "Host to serve on")
	flags.String("port", "8080", "Port to serve on")
	flags.String("metrics-port", "9090", "Port for the metrics server")
	flags.String("environment", "development", "Deployment environment: development, staging, production")
	flags.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	// Observability
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "json", "Log format: json, console")

	// Dependencies
	flags.String("redis-url", "", "Redis connection URL")
	flags.Duration("probe-timeout", 2*time.Second, "Default per-probe health check deadline")

	// Rate limiting
	flags.Bool("rate-limit-enabled", false, "Enable per-client rate limiting")
	flags.Int("rate-limit-rps", 100, "Rate limit requests per second per client")

	flags.Usage = func() { printUsage(flags) }
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// Load configuration with precedence (CLI > Env > File > Defaults)
	cfg, err := config.LoadConfig(*configFile, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	appLogger := logger.WithApp(cfg.App)

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create server", zap.Error(err))
	}

	// Hot reload applies runtime-adjustable settings only; topology
	// changes still require a restart.
	if *watchConfig && *configFile != "" {
		watcher, err := config.NewWatcher(*configFile, 500*time.Millisecond, func(updated *config.Config) {
			appLogger.Info("Configuration reloaded",
				zap.String("log_level", updated.Observability.Logging.Level),
			)
			appLogger.SetLevel(updated.Observability.Logging.Level)
		})
		if err != nil {
			appLogger.Fatal("Failed to watch config file", zap.Error(err))
		}
		watcher.Start()
		defer func() { _ = watcher.Stop() }()

		appLogger.Info("Config hot reload enabled", zap.String("file", *configFile))
	}

	if err := srv.Start(); err != nil {
		appLogger.Fatal("Server exited with error", zap.Error(err))
	}
}

// printUsage prints the usage information
func printUsage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Flags:\n%s", flags.FlagUsages())
	fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
	fmt.Fprintf(os.Stderr, "  ITEMSVC_HOST, ITEMSVC_PORT, ITEMSVC_METRICS_PORT, ITEMSVC_ENVIRONMENT\n")
	fmt.Fprintf(os.Stderr, "  ITEMSVC_LOG_LEVEL, ITEMSVC_LOG_FORMAT, ITEMSVC_REDIS_URL, ITEMSVC_PROBE_TIMEOUT\n")
	fmt.Fprintf(os.Stderr, "  ITEMSVC_READ_TIMEOUT, ITEMSVC_WRITE_TIMEOUT, ITEMSVC_IDLE_TIMEOUT\n")
	fmt.Fprintf(os.Stderr, "  ITEMSVC_MAX_REQUEST_SIZE, ITEMSVC_SHUTDOWN_TIMEOUT\n")
	fmt.Fprintf(os.Stderr, "\nExample usage:\n")
	fmt.Fprintf(os.Stderr, "  %s -config ./itemsvc.yaml\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --port 8081 --metrics-port 9091 --redis-url redis://localhost:6379\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  ITEMSVC_PORT=8081 %s\n", os.Args[0])
}
