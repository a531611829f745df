package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantrail/futures-exporter/internal/api"
	"github.com/quantrail/futures-exporter/internal/config"
	"github.com/quantrail/futures-exporter/internal/metrics"
	"github.com/quantrail/futures-exporter/internal/retry"
	"github.com/quantrail/futures-exporter/internal/router"
	"github.com/quantrail/futures-exporter/internal/session"
	"github.com/quantrail/futures-exporter/internal/stream"
	"github.com/quantrail/futures-exporter/internal/supervisor"
	"github.com/quantrail/futures-exporter/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/exporter.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting exporter",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"accounts", len(cfg.Accounts),
		"http_base", cfg.Venue.HTTPBase,
		"ws_base", cfg.Venue.WSBase,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Metrics store and registry
	state := metrics.NewState(logger)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		metrics.NewBalanceCollector(state),
		metrics.NewPositionCollector(state),
	)

	sink := router.NewHandler(state, logger)
	policy := retry.NewPolicy(cfg.Retry.BaseDelay, cfg.Retry.MaxAttempts, logger)

	// One pipeline per account: REST client, session manager, stream consumer.
	runners := make([]supervisor.Runner, 0, len(cfg.Accounts))
	for _, acct := range cfg.Accounts {
		acctLogger := logger.With("account", acct.Name)

		apiClient := api.NewClient(
			cfg.Venue.HTTPBase,
			acct.APIKey,
			api.WithLogger(acctLogger),
			api.WithTimeout(cfg.Venue.Timeout),
		)

		sess := session.NewManager(apiClient, apiClient, policy, cfg.Stream.RefreshDelta, acctLogger)

		consumer := stream.NewConsumer(stream.ConsumerConfig{
			Account:    acct.Name,
			WSBase:     cfg.Venue.WSBase,
			APIKey:     acct.APIKey,
			EventTypes: cfg.Stream.EventTypes,
			Client: stream.ClientConfig{
				HandshakeTimeout: cfg.Stream.HandshakeTimeout,
				PingInterval:     cfg.Stream.PingInterval,
				StaleTimeout:     cfg.Stream.StaleTimeout,
				WriteTimeout:     cfg.Stream.WriteTimeout,
				BufferSize:       cfg.Stream.BufferSize,
			},
		}, sess, policy, sink, acctLogger)

		runners = append(runners, supervisor.RunnerFunc{
			RunnerName: acct.Name,
			Fn:         consumer.Run,
		})
	}

	super := supervisor.New(logger)

	// Start HTTP server for health and metrics scraping
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: createHTTPHandler(super, registry, logger),
	}

	go func() {
		logger.Info("starting http server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("exporter running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
		"metrics_url", fmt.Sprintf("http://localhost:%d/metrics", cfg.Server.Port),
	)

	// Blocks until every pipeline has stopped
	superDone := make(chan error, 1)
	go func() { superDone <- super.Run(ctx, runners...) }()

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	<-superDone

	logger.Info("exporter stopped")
}

// createHTTPHandler builds the health and metrics routes.
func createHTTPHandler(super *supervisor.Supervisor, registry *prometheus.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status   string            `json:"status"`
			Accounts map[string]string `json:"accounts"`
		}{
			Status:   "healthy",
			Accounts: make(map[string]string),
		}

		for name, st := range super.Health() {
			if st.Healthy {
				health.Accounts[name] = "running"
				continue
			}
			health.Status = "degraded"
			health.Accounts[name] = fmt.Sprintf("failed: %v", st.Err)
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
