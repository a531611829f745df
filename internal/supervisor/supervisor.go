package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner is one supervised pipeline, typically an account's stream consumer.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function into a named Runner.
type RunnerFunc struct {
	RunnerName string
	Fn         func(ctx context.Context) error
}

func (r RunnerFunc) Name() string                  { return r.RunnerName }
func (r RunnerFunc) Run(ctx context.Context) error { return r.Fn(ctx) }

// Status is the health of one pipeline.
type Status struct {
	Healthy bool
	Err     error
}

// Supervisor owns the lifecycle of a set of pipelines.
type Supervisor struct {
	logger *slog.Logger

	mu       sync.RWMutex
	statuses map[string]Status
}

// New creates a supervisor with no pipelines running.
func New(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		logger:   logger,
		statuses: make(map[string]Status),
	}
}

// Run starts every runner and blocks until all of them have returned.
// A runner's error never cancels its siblings; it is recorded in the
// health map instead. Run itself returns nil on a clean shutdown.
func (s *Supervisor) Run(ctx context.Context, runners ...Runner) error {
	g := new(errgroup.Group)

	for _, r := range runners {
		r := r
		s.setStatus(r.Name(), Status{Healthy: true})
		s.logger.Info("starting pipeline", "name", r.Name())

		g.Go(func() error {
			err := r.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("pipeline terminated", "name", r.Name(), "error", err)
				s.setStatus(r.Name(), Status{Healthy: false, Err: err})
				// Contained: siblings keep running.
				return nil
			}
			s.logger.Info("pipeline stopped", "name", r.Name())
			return nil
		})
	}

	return g.Wait()
}

func (s *Supervisor) setStatus(name string, st Status) {
	s.mu.Lock()
	s.statuses[name] = st
	s.mu.Unlock()
}

// Health returns a copy of the per-pipeline status map.
func (s *Supervisor) Health() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Status, len(s.statuses))
	for name, st := range s.statuses {
		out[name] = st
	}
	return out
}

// Healthy reports whether every pipeline is still healthy.
func (s *Supervisor) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.statuses {
		if !st.Healthy {
			return false
		}
	}
	return true
}
