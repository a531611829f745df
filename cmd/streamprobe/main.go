// streamprobe connects one account's user-data stream and prints decoded
// events to the console.
// Usage: go run ./cmd/streamprobe --config configs/exporter.local.yaml --account acct1
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantrail/futures-exporter/internal/api"
	"github.com/quantrail/futures-exporter/internal/config"
	"github.com/quantrail/futures-exporter/internal/model"
	"github.com/quantrail/futures-exporter/internal/retry"
	"github.com/quantrail/futures-exporter/internal/router"
	"github.com/quantrail/futures-exporter/internal/session"
	"github.com/quantrail/futures-exporter/internal/stream"
)

func main() {
	configPath := flag.String("config", "configs/exporter.example.yaml", "path to config file")
	accountName := flag.String("account", "", "account name from the config (default: first account)")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	acct, err := pickAccount(cfg, *accountName)
	if err != nil {
		logger.Error("account selection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("probing stream", "account", acct.Name, "ws_base", cfg.Venue.WSBase)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	policy := retry.NewPolicy(cfg.Retry.BaseDelay, cfg.Retry.MaxAttempts, logger)

	apiClient := api.NewClient(
		cfg.Venue.HTTPBase,
		acct.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Venue.Timeout),
	)
	sess := session.NewManager(apiClient, apiClient, policy, cfg.Stream.RefreshDelta, logger)

	// Print every event; empty filter matches all types.
	sink := stream.SinkFunc(func(account string, ev model.Event) {
		printEvent(ev, *verbose)
	})

	consumer := stream.NewConsumer(stream.ConsumerConfig{
		Account: acct.Name,
		WSBase:  cfg.Venue.WSBase,
		APIKey:  acct.APIKey,
		Client: stream.ClientConfig{
			HandshakeTimeout: cfg.Stream.HandshakeTimeout,
			PingInterval:     cfg.Stream.PingInterval,
			StaleTimeout:     cfg.Stream.StaleTimeout,
			WriteTimeout:     cfg.Stream.WriteTimeout,
			BufferSize:       cfg.Stream.BufferSize,
		},
	}, sess, policy, sink, logger)

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("stream consumer failed", "error", err)
		os.Exit(1)
	}

	logger.Info("streamprobe stopped")
}

func pickAccount(cfg *config.Config, name string) (config.AccountConfig, error) {
	if name == "" {
		return cfg.Accounts[0], nil
	}
	for _, acct := range cfg.Accounts {
		if acct.Name == name {
			return acct, nil
		}
	}
	return config.AccountConfig{}, fmt.Errorf("account %q not found in config", name)
}

func printEvent(ev model.Event, verbose bool) {
	ts := ev.ReceivedAt.Format(time.RFC3339Nano)

	if verbose {
		var pretty json.RawMessage = ev.Raw
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Printf("[%s] %s\n%s\n", ts, ev.Type, out)
			return
		}
		fmt.Printf("[%s] %s %s\n", ts, ev.Type, ev.Raw)
		return
	}

	switch ev.Type {
	case model.EventAccountUpdate:
		balances, positions, err := router.Route(ev)
		if err != nil {
			fmt.Printf("[%s] %s (undecodable: %v)\n", ts, ev.Type, err)
			return
		}
		fmt.Printf("[%s] %s balances=%d positions=%d\n", ts, ev.Type, len(balances), len(positions))
		for token, b := range balances {
			fmt.Printf("    %s wb=%s cw=%s bc=%s\n",
				token, b.WalletBalance, b.CrossWalletBalance, b.BalanceChange)
		}
		for symbol, p := range positions {
			fmt.Printf("    %s pa=%s\n", symbol, p.PositionAmount)
		}
	default:
		fmt.Printf("[%s] %s\n", ts, ev.Type)
	}
}
