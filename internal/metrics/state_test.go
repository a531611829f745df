package metrics

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quantrail/futures-exporter/internal/model"
)

func balance(wb, cw, bc string) model.BalanceEntry {
	return model.BalanceEntry{
		WalletBalance:      decimal.RequireFromString(wb),
		CrossWalletBalance: decimal.RequireFromString(cw),
		BalanceChange:      decimal.RequireFromString(bc),
	}
}

func position(pa string) model.PositionEntry {
	return model.PositionEntry{PositionAmount: decimal.RequireFromString(pa)}
}

func TestSaveBalancesMerges(t *testing.T) {
	s := NewState(nil)

	s.SaveBalances("acct1", model.BalanceDelta{
		"USDT": balance("100", "90", "0"),
	})
	// A later delta touching only BUSD must leave USDT intact.
	s.SaveBalances("acct1", model.BalanceDelta{
		"BUSD": balance("5.5", "5.5", "-1.25"),
	})

	snap := s.Read("acct1")
	if len(snap.Balances) != 2 {
		t.Fatalf("len(Balances) = %d, want 2", len(snap.Balances))
	}
	if got := snap.Balances["USDT"].WalletBalance; !got.Equal(decimal.RequireFromString("100")) {
		t.Errorf("USDT wallet balance = %s, want 100", got)
	}
	if got := snap.Balances["BUSD"].BalanceChange; !got.Equal(decimal.RequireFromString("-1.25")) {
		t.Errorf("BUSD balance change = %s, want -1.25", got)
	}
}

func TestSaveBalancesOverwritesSameToken(t *testing.T) {
	s := NewState(nil)

	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("100", "90", "0")})
	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("98.5", "88.5", "-1.5")})

	got := s.Read("acct1").Balances["USDT"]
	if !got.WalletBalance.Equal(decimal.RequireFromString("98.5")) {
		t.Errorf("wallet balance = %s, want 98.5", got.WalletBalance)
	}
	if !got.BalanceChange.Equal(decimal.RequireFromString("-1.5")) {
		t.Errorf("balance change = %s, want -1.5", got.BalanceChange)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s := NewState(nil)
	delta := model.BalanceDelta{"USDT": balance("100", "90", "0")}

	s.SaveBalances("acct1", delta)
	first := s.Read("acct1")
	s.SaveBalances("acct1", delta)
	second := s.Read("acct1")

	if len(first.Balances) != len(second.Balances) {
		t.Fatalf("balance count changed: %d -> %d", len(first.Balances), len(second.Balances))
	}
	if !first.Balances["USDT"].WalletBalance.Equal(second.Balances["USDT"].WalletBalance) {
		t.Error("repeated save changed the stored value")
	}
}

func TestSaveCommutativeAcrossDisjointKeys(t *testing.T) {
	deltaA := model.BalanceDelta{"USDT": balance("100", "90", "0")}
	deltaB := model.BalanceDelta{"BUSD": balance("5.5", "5.5", "-1.25")}

	ab := NewState(nil)
	ab.SaveBalances("acct1", deltaA)
	ab.SaveBalances("acct1", deltaB)

	ba := NewState(nil)
	ba.SaveBalances("acct1", deltaB)
	ba.SaveBalances("acct1", deltaA)

	got, want := ab.Read("acct1"), ba.Read("acct1")
	if len(got.Balances) != len(want.Balances) {
		t.Fatalf("balance count differs between orders: %d vs %d",
			len(got.Balances), len(want.Balances))
	}
	for token, w := range want.Balances {
		g, ok := got.Balances[token]
		if !ok {
			t.Fatalf("%s present in one order only", token)
		}
		if !g.WalletBalance.Equal(w.WalletBalance) ||
			!g.CrossWalletBalance.Equal(w.CrossWalletBalance) ||
			!g.BalanceChange.Equal(w.BalanceChange) {
			t.Errorf("%s differs between orders: %s vs %s", token, g, w)
		}
	}
}

func TestSaveLogsAppliedDelta(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := NewState(logger)

	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("100", "90", "0")})
	s.SavePositions("acct1", model.PositionDelta{"BTCUSDT": position("0.01")})

	// The audit record must carry the applied values, not just a count.
	out := buf.String()
	for _, want := range []string{
		"acct1", "USDT", "wb=100", "cw=90", "bc=0", "BTCUSDT", "pa=0.01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("save log missing %q:\n%s", want, out)
		}
	}
}

func TestSavePositions(t *testing.T) {
	s := NewState(nil)

	s.SavePositions("acct1", model.PositionDelta{"BTCUSDT": position("0.01")})
	s.SavePositions("acct1", model.PositionDelta{"ETHUSDT": position("-2")})

	snap := s.Read("acct1")
	if len(snap.Positions) != 2 {
		t.Fatalf("len(Positions) = %d, want 2", len(snap.Positions))
	}
	if got := snap.Positions["ETHUSDT"].PositionAmount; !got.Equal(decimal.RequireFromString("-2")) {
		t.Errorf("ETHUSDT amount = %s, want -2", got)
	}
}

func TestEmptyDeltaIsNoOp(t *testing.T) {
	s := NewState(nil)
	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("100", "90", "0")})

	s.SaveBalances("acct1", model.BalanceDelta{})
	s.SavePositions("acct1", model.PositionDelta{})

	snap := s.Read("acct1")
	if len(snap.Balances) != 1 || len(snap.Positions) != 0 {
		t.Errorf("state disturbed by empty delta: %d balances, %d positions",
			len(snap.Balances), len(snap.Positions))
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	s := NewState(nil)

	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("100", "90", "0")})
	s.SaveBalances("acct2", model.BalanceDelta{"USDT": balance("7", "7", "0")})

	if got := s.Read("acct1").Balances["USDT"].WalletBalance; !got.Equal(decimal.RequireFromString("100")) {
		t.Errorf("acct1 wallet balance = %s, want 100", got)
	}
	if got := s.Read("acct2").Balances["USDT"].WalletBalance; !got.Equal(decimal.RequireFromString("7")) {
		t.Errorf("acct2 wallet balance = %s, want 7", got)
	}

	accounts := s.Accounts()
	sort.Strings(accounts)
	if len(accounts) != 2 || accounts[0] != "acct1" || accounts[1] != "acct2" {
		t.Errorf("Accounts() = %v, want [acct1 acct2]", accounts)
	}
}

func TestReadUnknownAccount(t *testing.T) {
	s := NewState(nil)

	snap := s.Read("missing")
	if snap.Balances == nil || snap.Positions == nil {
		t.Fatal("snapshot maps must be non-nil")
	}
	if len(snap.Balances) != 0 || len(snap.Positions) != 0 {
		t.Error("unknown account should read as empty")
	}
	// Reading must not create a namespace.
	if got := len(s.Accounts()); got != 0 {
		t.Errorf("Accounts() after read = %d entries, want 0", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState(nil)
	s.SaveBalances("acct1", model.BalanceDelta{"USDT": balance("100", "90", "0")})

	snap := s.Read("acct1")
	snap.Balances["USDT"] = balance("0", "0", "0")
	snap.Balances["FAKE"] = balance("1", "1", "1")

	fresh := s.Read("acct1")
	if len(fresh.Balances) != 1 {
		t.Fatalf("store gained keys from a snapshot mutation")
	}
	if !fresh.Balances["USDT"].WalletBalance.Equal(decimal.RequireFromString("100")) {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestConcurrentSavesAndReads(t *testing.T) {
	s := NewState(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		account := fmt.Sprintf("acct%d", i%2)
		wg.Add(2)
		go func(account string, n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SaveBalances(account, model.BalanceDelta{
					"USDT": balance(fmt.Sprintf("%d", j), "0", "0"),
				})
				s.SavePositions(account, model.PositionDelta{
					"BTCUSDT": position("0.01"),
				})
			}
		}(account, i)
		go func(account string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Read(account)
				s.Accounts()
			}
		}(account)
	}
	wg.Wait()

	for _, account := range []string{"acct0", "acct1"} {
		snap := s.Read(account)
		if _, ok := snap.Balances["USDT"]; !ok {
			t.Errorf("%s: USDT missing after concurrent writes", account)
		}
		if _, ok := snap.Positions["BTCUSDT"]; !ok {
			t.Errorf("%s: BTCUSDT missing after concurrent writes", account)
		}
	}
}
