package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Account
// -----------------------------------------------------------------------------

// Account identifies one configured trading account. Each account owns an
// isolated runtime context: its own session token, stream connection, and
// metrics namespace.
type Account struct {
	Name   string // Unique account name, used as the account_name metric label
	APIKey string // Static venue API key, attached to every request
}

// -----------------------------------------------------------------------------
// Stream Events
// -----------------------------------------------------------------------------

// Event is a decoded user-data stream message: the event type tag plus the
// raw frame for downstream decoding.
type Event struct {
	Type       string          // Value of the "e" field (e.g. "ACCOUNT_UPDATE")
	Raw        json.RawMessage // Full frame payload
	ReceivedAt time.Time       // Local receive timestamp
}

// Event types emitted by the venue's user-data stream.
const (
	EventAccountUpdate    = "ACCOUNT_UPDATE"
	EventListenKeyExpired = "listenKeyExpired"
)

// -----------------------------------------------------------------------------
// Metric Entries
// -----------------------------------------------------------------------------

// BalanceEntry holds the last known balance figures for one token within an
// account. The token symbol is the map key in BalanceDelta, not repeated here.
type BalanceEntry struct {
	WalletBalance      decimal.Decimal
	CrossWalletBalance decimal.Decimal
	BalanceChange      decimal.Decimal
}

// String renders the entry for audit log output.
func (e BalanceEntry) String() string {
	return "wb=" + e.WalletBalance.String() +
		" cw=" + e.CrossWalletBalance.String() +
		" bc=" + e.BalanceChange.String()
}

// PositionEntry holds the last known position amount for one symbol within an
// account. Only the amount is tracked; other position attributes from the
// stream are dropped.
type PositionEntry struct {
	PositionAmount decimal.Decimal
}

// String renders the entry for audit log output.
func (e PositionEntry) String() string {
	return "pa=" + e.PositionAmount.String()
}

// BalanceDelta is a partial balance update, keyed by token symbol.
// Keys absent from the delta are untouched by a merge.
type BalanceDelta map[string]BalanceEntry

// PositionDelta is a partial position update, keyed by symbol.
type PositionDelta map[string]PositionEntry
