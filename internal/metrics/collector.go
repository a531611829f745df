package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	walletBalanceDesc = prometheus.NewDesc(
		"wallet_balance",
		"Last reported wallet balance per account and token",
		[]string{"account_name", "token"}, nil,
	)
	crossWalletBalanceDesc = prometheus.NewDesc(
		"cross_wallet_balance",
		"Last reported cross wallet balance per account and token",
		[]string{"account_name", "token"}, nil,
	)
	balanceChangeDesc = prometheus.NewDesc(
		"balance_change",
		"Balance change from the last account update per account and token",
		[]string{"account_name", "token"}, nil,
	)
	positionAmountDesc = prometheus.NewDesc(
		"position_amount",
		"Last reported position amount per account and symbol",
		[]string{"account_name", "symbol"}, nil,
	)
)

// BalanceCollector exposes the balance side of the store. Each scrape walks
// a fresh snapshot, so a scrape racing a write sees either the old or the
// new value, never a mix.
type BalanceCollector struct {
	state *State
}

// NewBalanceCollector creates a collector reading from state.
func NewBalanceCollector(state *State) *BalanceCollector {
	return &BalanceCollector{state: state}
}

func (c *BalanceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- walletBalanceDesc
	ch <- crossWalletBalanceDesc
	ch <- balanceChangeDesc
}

func (c *BalanceCollector) Collect(ch chan<- prometheus.Metric) {
	for _, account := range c.state.Accounts() {
		snap := c.state.Read(account)
		for token, entry := range snap.Balances {
			ch <- prometheus.MustNewConstMetric(walletBalanceDesc,
				prometheus.GaugeValue, entry.WalletBalance.InexactFloat64(), account, token)
			ch <- prometheus.MustNewConstMetric(crossWalletBalanceDesc,
				prometheus.GaugeValue, entry.CrossWalletBalance.InexactFloat64(), account, token)
			ch <- prometheus.MustNewConstMetric(balanceChangeDesc,
				prometheus.GaugeValue, entry.BalanceChange.InexactFloat64(), account, token)
		}
	}
}

// PositionCollector exposes the position side of the store.
type PositionCollector struct {
	state *State
}

// NewPositionCollector creates a collector reading from state.
func NewPositionCollector(state *State) *PositionCollector {
	return &PositionCollector{state: state}
}

func (c *PositionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- positionAmountDesc
}

func (c *PositionCollector) Collect(ch chan<- prometheus.Metric) {
	for _, account := range c.state.Accounts() {
		snap := c.state.Read(account)
		for symbol, entry := range snap.Positions {
			ch <- prometheus.MustNewConstMetric(positionAmountDesc,
				prometheus.GaugeValue, entry.PositionAmount.InexactFloat64(), account, symbol)
		}
	}
}
