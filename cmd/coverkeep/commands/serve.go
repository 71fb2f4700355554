package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coverkeep/coverkeep/internal/logger"
	"github.com/coverkeep/coverkeep/internal/telemetry"
	"github.com/coverkeep/coverkeep/pkg/api"
	"github.com/coverkeep/coverkeep/pkg/config"
	"github.com/coverkeep/coverkeep/pkg/media"
	"github.com/coverkeep/coverkeep/pkg/metrics"
	"github.com/coverkeep/coverkeep/pkg/metrics/prometheus"
	"github.com/coverkeep/coverkeep/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CoverKeep server",
	Long: `Start the CoverKeep HTTP API server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/coverkeep/config.yaml.

Examples:
  # Start with default config location
  coverkeep serve

  # Start with custom config file
  coverkeep serve --config /etc/coverkeep/config.yaml

  # Start with environment variable overrides
  COVERKEEP_LOGGING_LEVEL=DEBUG coverkeep serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "coverkeep",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}

	// Initialize metrics FIRST (before creating components that record metrics).
	// This ensures metrics.IsEnabled() returns true when collectors are built.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics enabled", "endpoint", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Initialize the warranty store
	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()
	logger.Info("Store initialized", "type", cfg.Database.Type)

	// Initialize media storage (S3-compatible bucket for warranty images)
	s3Client, err := media.NewClientFromConfig(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	uploader, err := media.NewS3Store(ctx, s3Client, cfg.Media, prometheus.NewMediaMetrics())
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}
	logger.Info("Media storage initialized", "bucket", cfg.Media.Bucket)

	// Create the API server
	apiServer, err := api.NewServer(cfg.API, st, uploader, prometheus.NewHTTPMetrics())
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", cfg.API.Port)

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for server to shut down gracefully
		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
