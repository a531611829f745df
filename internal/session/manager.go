package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quantrail/futures-exporter/internal/retry"
)

// Issuer issues a fresh listen key.
type Issuer interface {
	IssueListenKey(ctx context.Context) (string, error)
}

// Renewer extends the validity of the current listen key. Renewal is
// idempotent on the venue side.
type Renewer interface {
	KeepAliveListenKey(ctx context.Context) error
}

// Token is a session token with its refresh bookkeeping.
type Token struct {
	Value         string
	IssuedAt      time.Time
	LastRefreshAt time.Time
}

// ErrNoToken is returned when a refresh is requested before any token
// has been acquired.
var ErrNoToken = errors.New("no session token acquired")

// IssuanceError wraps a failed token issuance. Fatal to the account's
// stream consumer.
type IssuanceError struct {
	Err error
}

func (e *IssuanceError) Error() string { return "issue session token: " + e.Err.Error() }
func (e *IssuanceError) Unwrap() error { return e.Err }

// RenewalError wraps a failed token renewal.
type RenewalError struct {
	Err error
}

func (e *RenewalError) Error() string { return "renew session token: " + e.Err.Error() }
func (e *RenewalError) Unwrap() error { return e.Err }

// Manager owns one account's session token lifecycle.
type Manager struct {
	issuer       Issuer
	renewer      Renewer
	policy       retry.Policy
	refreshDelta time.Duration
	logger       *slog.Logger

	token *Token
}

// NewManager creates a session token manager for one account.
func NewManager(issuer Issuer, renewer Renewer, policy retry.Policy, refreshDelta time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		issuer:       issuer,
		renewer:      renewer,
		policy:       policy,
		refreshDelta: refreshDelta,
		logger:       logger,
	}
}

// Token returns the current token, if any.
func (m *Manager) Token() (Token, bool) {
	if m.token == nil {
		return Token{}, false
	}
	return *m.token, true
}

// Ensure makes a valid token available: first call acquires one, later
// calls refresh it if stale. Returns the current key value.
func (m *Manager) Ensure(ctx context.Context, now time.Time) (string, error) {
	if m.token == nil {
		if err := m.Acquire(ctx, now); err != nil {
			return "", err
		}
	} else if err := m.RefreshIfStale(ctx, now); err != nil {
		return "", err
	}
	return m.token.Value, nil
}

// Acquire issues a fresh token, replacing any existing one.
func (m *Manager) Acquire(ctx context.Context, now time.Time) error {
	var key string
	err := m.policy.Do(ctx, "issue listen key", func(ctx context.Context) error {
		k, err := m.issuer.IssueListenKey(ctx)
		if err != nil {
			return err
		}
		key = k
		return nil
	})
	if err != nil {
		return &IssuanceError{Err: err}
	}

	m.token = &Token{
		Value:         key,
		IssuedAt:      now,
		LastRefreshAt: now,
	}
	m.logger.Info("session token issued", "issued_at", now)
	return nil
}

// RefreshIfStale renews the token iff it is older than refreshDelta.
// A fresh token is a no-op: no network call is made.
func (m *Manager) RefreshIfStale(ctx context.Context, now time.Time) error {
	if m.token == nil {
		return ErrNoToken
	}
	if now.Sub(m.token.LastRefreshAt) <= m.refreshDelta {
		return nil
	}
	return m.renew(ctx, now)
}

// ForceRefresh renews the token regardless of its age. Used when the venue
// signals expiry out-of-band through the stream.
func (m *Manager) ForceRefresh(ctx context.Context, now time.Time) error {
	if m.token == nil {
		return ErrNoToken
	}
	return m.renew(ctx, now)
}

func (m *Manager) renew(ctx context.Context, now time.Time) error {
	err := m.policy.Do(ctx, "renew listen key", func(ctx context.Context) error {
		return m.renewer.KeepAliveListenKey(ctx)
	})
	if err != nil {
		return &RenewalError{Err: err}
	}

	m.token.LastRefreshAt = now
	m.logger.Info("session token renewed", "refreshed_at", now)
	return nil
}
