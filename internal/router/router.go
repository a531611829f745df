package router

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quantrail/futures-exporter/internal/model"
)

// Wire shapes of the ACCOUNT_UPDATE payload.
type accountUpdate struct {
	Data struct {
		Balances  []wireBalance  `json:"B"`
		Positions []wirePosition `json:"P"`
	} `json:"a"`
}

type wireBalance struct {
	Asset              string          `json:"a"`
	WalletBalance      decimal.Decimal `json:"wb"`
	CrossWalletBalance decimal.Decimal `json:"cw"`
	BalanceChange      decimal.Decimal `json:"bc"`
}

type wirePosition struct {
	Symbol         string          `json:"s"`
	PositionAmount decimal.Decimal `json:"pa"`
}

// Route extracts the balance and position deltas from an ACCOUNT_UPDATE
// event. The token/symbol becomes the delta key and is not repeated inside
// the entry. Position attributes other than the amount are dropped.
func Route(ev model.Event) (model.BalanceDelta, model.PositionDelta, error) {
	var update accountUpdate
	if err := json.Unmarshal(ev.Raw, &update); err != nil {
		return nil, nil, fmt.Errorf("decode account update: %w", err)
	}

	balances := make(model.BalanceDelta, len(update.Data.Balances))
	for _, b := range update.Data.Balances {
		balances[b.Asset] = model.BalanceEntry{
			WalletBalance:      b.WalletBalance,
			CrossWalletBalance: b.CrossWalletBalance,
			BalanceChange:      b.BalanceChange,
		}
	}

	positions := make(model.PositionDelta, len(update.Data.Positions))
	for _, p := range update.Data.Positions {
		positions[p.Symbol] = model.PositionEntry{
			PositionAmount: p.PositionAmount,
		}
	}

	return balances, positions, nil
}

// Store is the per-account last-value store fed by the handler.
type Store interface {
	SaveBalances(account string, delta model.BalanceDelta)
	SavePositions(account string, delta model.PositionDelta)
}

// Handler adapts Route into a stream.Sink: every qualifying event becomes
// two independent partial merges.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler creates an event handler writing to store.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// HandleEvent routes one event into the store. Undecodable payloads are
// logged and dropped; they never disturb existing state.
func (h *Handler) HandleEvent(account string, ev model.Event) {
	balances, positions, err := Route(ev)
	if err != nil {
		h.logger.Warn("dropping undecodable event",
			"account", account,
			"type", ev.Type,
			"error", err,
		)
		return
	}

	h.store.SaveBalances(account, balances)
	h.store.SavePositions(account, positions)
}
