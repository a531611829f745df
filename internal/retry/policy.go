package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"
)

// Class is the retry classification of a failure.
type Class int

const (
	// Retryable failures are transient: retried per the backoff schedule.
	Retryable Class = iota
	// Fatal failures surface immediately without further attempts.
	Fatal
)

// Classifier maps an error to its retry class.
type Classifier func(error) Class

// statusError is implemented by remote response errors carrying an HTTP
// status code (see api.APIError).
type statusError interface {
	error
	HTTPStatus() int
}

// Classify is the default classifier:
//   - remote responses: 429 and >= 500 retryable, every other status fatal
//   - timeouts and connection establishment failures: retryable
//   - anything else: fatal
func Classify(err error) Class {
	var se statusError
	if errors.As(err, &se) {
		status := se.HTTPStatus()
		if status == 429 || status >= 500 {
			return Retryable
		}
		return Fatal
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Retryable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Retryable
	}

	// Connection refused/reset/dropped during establishment or read.
	var oe *net.OpError
	if errors.As(err, &oe) {
		return Retryable
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return Retryable
	}

	return Fatal
}

// Policy drives retries with exponential backoff.
type Policy struct {
	BaseDelay   time.Duration
	MaxAttempts int
	Classify    Classifier
	Logger      *slog.Logger
}

// NewPolicy returns a Policy with the default classifier.
func NewPolicy(baseDelay time.Duration, maxAttempts int, logger *slog.Logger) Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return Policy{
		BaseDelay:   baseDelay,
		MaxAttempts: maxAttempts,
		Classify:    Classify,
		Logger:      logger,
	}
}

// Delay returns the wait after the nth failed attempt (1-based):
// BaseDelay * 2^(n-1).
func (p Policy) Delay(n int) time.Duration {
	return p.BaseDelay << (n - 1)
}

// Do runs fn until it succeeds, fails fatally, or MaxAttempts are exhausted.
// After exhaustion the last error is returned (wrapped, errors.Is/As
// reachable). Context cancellation aborts backoff waits.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	classify := p.Classify
	if classify == nil {
		classify = Classify
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := p.Delay(attempt - 1)
			p.Logger.Debug("retrying",
				"op", op,
				"attempt", attempt,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if classify(err) == Fatal {
			return err
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", op, p.MaxAttempts, lastErr)
}
