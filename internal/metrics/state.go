package metrics

import (
	"log/slog"
	"sync"

	"github.com/quantrail/futures-exporter/internal/model"
)

// namespace is the per-account slice of the store. Each namespace has its
// own lock so accounts never contend with each other.
type namespace struct {
	mu        sync.RWMutex
	balances  map[string]model.BalanceEntry
	positions map[string]model.PositionEntry
}

func newNamespace() *namespace {
	return &namespace{
		balances:  make(map[string]model.BalanceEntry),
		positions: make(map[string]model.PositionEntry),
	}
}

// State is the concurrent last-value store. Writers merge partial deltas,
// readers take copied snapshots; neither ever sees a torn entry.
type State struct {
	logger *slog.Logger

	mu       sync.RWMutex
	accounts map[string]*namespace
}

// NewState creates an empty store.
func NewState(logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		logger:   logger,
		accounts: make(map[string]*namespace),
	}
}

// ns returns the namespace for account, creating it on first use.
func (s *State) ns(account string) *namespace {
	s.mu.RLock()
	n, ok := s.accounts[account]
	s.mu.RUnlock()
	if ok {
		return n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok = s.accounts[account]; ok {
		return n
	}
	n = newNamespace()
	s.accounts[account] = n
	return n
}

// SaveBalances merges a balance delta into the account's namespace. Tokens
// absent from the delta keep their previous values.
func (s *State) SaveBalances(account string, delta model.BalanceDelta) {
	n := s.ns(account)

	n.mu.Lock()
	for token, entry := range delta {
		n.balances[token] = entry
	}
	n.mu.Unlock()

	s.logger.Info("balance metrics saved",
		"account", account,
		"delta", delta,
	)
}

// SavePositions merges a position delta into the account's namespace.
func (s *State) SavePositions(account string, delta model.PositionDelta) {
	n := s.ns(account)

	n.mu.Lock()
	for symbol, entry := range delta {
		n.positions[symbol] = entry
	}
	n.mu.Unlock()

	s.logger.Info("position metrics saved",
		"account", account,
		"delta", delta,
	)
}

// Snapshot is a point-in-time copy of one account's namespace. Mutating it
// has no effect on the store.
type Snapshot struct {
	Balances  map[string]model.BalanceEntry
	Positions map[string]model.PositionEntry
}

// Read returns a copied snapshot of the account's namespace. An account
// that has never been written reads as empty, not as an error.
func (s *State) Read(account string) Snapshot {
	s.mu.RLock()
	n, ok := s.accounts[account]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{
			Balances:  map[string]model.BalanceEntry{},
			Positions: map[string]model.PositionEntry{},
		}
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	snap := Snapshot{
		Balances:  make(map[string]model.BalanceEntry, len(n.balances)),
		Positions: make(map[string]model.PositionEntry, len(n.positions)),
	}
	for token, entry := range n.balances {
		snap.Balances[token] = entry
	}
	for symbol, entry := range n.positions {
		snap.Positions[symbol] = entry
	}
	return snap
}

// Accounts lists every account that has a namespace, in no particular order.
func (s *State) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	return names
}
