package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"
)

// fakeStatusErr mimics a remote response error with an HTTP status.
type fakeStatusErr struct {
	status int
}

func (e *fakeStatusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e *fakeStatusErr) HTTPStatus() int { return e.status }

// fakeTimeoutErr mimics a network timeout.
type fakeTimeoutErr struct{}

func (e *fakeTimeoutErr) Error() string   { return "i/o timeout" }
func (e *fakeTimeoutErr) Timeout() bool   { return true }
func (e *fakeTimeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"timeout", &fakeTimeoutErr{}, Retryable},
		{"deadline exceeded", context.DeadlineExceeded, Retryable},
		{"wrapped deadline", fmt.Errorf("issue token: %w", context.DeadlineExceeded), Retryable},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, Retryable},
		{"connection reset", fmt.Errorf("read frame: %w", syscall.ECONNRESET), Retryable},
		{"status 429", &fakeStatusErr{status: 429}, Retryable},
		{"status 500", &fakeStatusErr{status: 500}, Retryable},
		{"status 503", &fakeStatusErr{status: 503}, Retryable},
		{"status 599", &fakeStatusErr{status: 599}, Retryable},
		{"wrapped 503", fmt.Errorf("renew: %w", &fakeStatusErr{status: 503}), Retryable},
		{"status 400", &fakeStatusErr{status: 400}, Fatal},
		{"status 403", &fakeStatusErr{status: 403}, Fatal},
		{"status 404", &fakeStatusErr{status: 404}, Fatal},
		{"status 418", &fakeStatusErr{status: 418}, Fatal},
		{"unknown error", errors.New("something else"), Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDelaySchedule(t *testing.T) {
	p := NewPolicy(100*time.Millisecond, 5, nil)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	var prev time.Duration
	for i, w := range want {
		got := p.Delay(i + 1)
		if got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
		if got <= prev {
			t.Errorf("Delay(%d) = %v, not strictly increasing (prev %v)", i+1, got, prev)
		}
		prev = got
	}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	p := NewPolicy(time.Millisecond, 5, nil)

	calls := 0
	err := p.Do(context.Background(), "issue", func(ctx context.Context) error {
		calls++
		if calls <= 3 {
			return &fakeStatusErr{status: 503}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestDoFatalStopsImmediately(t *testing.T) {
	p := NewPolicy(time.Millisecond, 5, nil)

	notFound := &fakeStatusErr{status: 404}
	calls := 0
	err := p.Do(context.Background(), "issue", func(ctx context.Context) error {
		calls++
		return notFound
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, notFound) {
		t.Errorf("Do error = %v, want %v", err, notFound)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := NewPolicy(time.Millisecond, 5, nil)

	unavailable := &fakeStatusErr{status: 503}
	calls := 0
	err := p.Do(context.Background(), "issue", func(ctx context.Context) error {
		calls++
		return unavailable
	})
	if calls != 5 {
		t.Errorf("calls = %d, want 5 (no 6th attempt)", calls)
	}
	if err == nil {
		t.Fatal("Do returned nil, want last error")
	}
	if !errors.Is(err, unavailable) {
		t.Errorf("Do error = %v, want to wrap %v", err, unavailable)
	}
}

func TestDoContextCancelDuringBackoff(t *testing.T) {
	p := NewPolicy(time.Hour, 5, nil)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, "issue", func(ctx context.Context) error {
			calls++
			return &fakeStatusErr{status: 503}
		})
	}()

	// Let the first attempt fail and the backoff wait begin.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoCustomClassifier(t *testing.T) {
	p := NewPolicy(time.Millisecond, 3, nil)
	p.Classify = func(error) Class { return Fatal }

	calls := 0
	p.Do(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 with always-fatal classifier", calls)
	}
}
