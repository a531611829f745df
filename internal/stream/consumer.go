package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/quantrail/futures-exporter/internal/model"
	"github.com/quantrail/futures-exporter/internal/retry"
)

// TokenSource provides the account's session token: acquired on first use,
// refreshed when stale, force-refreshed on a venue expiry signal.
type TokenSource interface {
	Ensure(ctx context.Context, now time.Time) (string, error)
	ForceRefresh(ctx context.Context, now time.Time) error
}

// Sink receives decoded events that pass the type filter.
type Sink interface {
	HandleEvent(account string, ev model.Event)
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(account string, ev model.Event)

func (f SinkFunc) HandleEvent(account string, ev model.Event) { f(account, ev) }

// Consumer owns one account's stream connection lifecycle.
type Consumer struct {
	cfg     ConsumerConfig
	session TokenSource
	policy  retry.Policy
	sink    Sink
	logger  *slog.Logger

	filter map[string]struct{}
	now    func() time.Time
}

// NewConsumer creates a stream consumer for one account.
func NewConsumer(cfg ConsumerConfig, session TokenSource, policy retry.Policy, sink Sink, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}

	filter := make(map[string]struct{}, len(cfg.EventTypes))
	for _, et := range cfg.EventTypes {
		filter[et] = struct{}{}
	}

	return &Consumer{
		cfg:     cfg,
		session: session,
		policy:  policy,
		sink:    sink,
		logger:  logger.With("account", cfg.Account),
		filter:  filter,
		now:     time.Now,
	}
}

// Run drives the connection loop until the context is cancelled or the
// session token becomes unrecoverable. Connection loss and transient
// failures never terminate the loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Ensure a usable token: acquire on first pass, refresh if stale.
		// Exhausted or fatal token failures terminate this account.
		key, err := c.session.Ensure(ctx, c.now())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		clientCfg := c.cfg.Client
		clientCfg.URL = c.cfg.WSBase + "/ws/" + key
		clientCfg.APIKey = c.cfg.APIKey
		client := NewClient(clientCfg, c.logger)

		err = c.policy.Do(ctx, "connect stream", func(ctx context.Context) error {
			return client.Connect(ctx)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Back to DISCONNECTED: the next pass re-ensures the token and
			// dials again. A dial error classified fatal skips the retry
			// schedule entirely, so wait one base delay here to keep the
			// loop from spinning at network speed.
			c.logger.Warn("stream connect failed, will retry with current token", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.policy.BaseDelay):
			}
			continue
		}

		c.logger.Info("stream connected")

		err = c.consume(ctx, client)
		client.Close()

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}

		c.logger.Info("stream disconnected, reconnecting")
	}
}

// consume reads frames until the connection dies or the context is
// cancelled. A non-nil return is fatal to the account.
func (c *Consumer) consume(ctx context.Context, client Client) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-client.Errors():
			// Expected over a long enough window: log and reconnect.
			c.logger.Warn("stream connection error", "error", err)
			return nil

		case msg, ok := <-client.Messages():
			if !ok {
				return nil
			}
			if err := c.handleFrame(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// handleFrame decodes one inbound frame and forwards qualifying events.
func (c *Consumer) handleFrame(ctx context.Context, msg TimestampedMessage) error {
	var head struct {
		Type string `json:"e"`
	}
	if err := json.Unmarshal(msg.Data, &head); err != nil {
		c.logger.Warn("malformed frame, skipping", "error", err)
		return nil
	}

	if head.Type == model.EventListenKeyExpired {
		// The current connection was authorized at open time and stays
		// valid; only the token value for the next reconnect needs
		// replacing.
		c.logger.Info("venue signaled listen key expiry, forcing refresh")
		if err := c.session.ForceRefresh(ctx, c.now()); err != nil {
			return err
		}
		return nil
	}

	if !c.accepts(head.Type) {
		return nil
	}

	c.sink.HandleEvent(c.cfg.Account, model.Event{
		Type:       head.Type,
		Raw:        json.RawMessage(msg.Data),
		ReceivedAt: msg.ReceivedAt,
	})
	return nil
}

// accepts reports whether the event type passes the configured filter.
// An empty filter matches all types.
func (c *Consumer) accepts(eventType string) bool {
	if len(c.filter) == 0 {
		return true
	}
	_, ok := c.filter[eventType]
	return ok
}
