package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

type fakeQuotes map[string]float64

func (f fakeQuotes) Quote(_ context.Context, symbol string) (float64, error) {
	q, ok := f[symbol]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

type fakeResults map[string]payload.LCSData

func (f fakeResults) Result(_ context.Context, matchID string) (payload.LCSData, error) {
	r, ok := f[matchID]
	if !ok {
		return payload.LCSData{}, fmt.Errorf("no result for %s", matchID)
	}
	return r, nil
}

func stockBet(t *testing.T, user string, amount int64, dir ledger.Direction, ref float64) *ledger.BetRecord {
	t.Helper()
	bet, err := ledger.New(payload.NewCodec(), "stock", user, "ACME", amount, dir, "", payload.StockData{Quote: ref})
	if err != nil {
		t.Fatalf("build bet: %v", err)
	}
	return bet
}

// Cenário: alice aposta 100 FOR em ACME com cotação 50; liquida a 60 — subiu, alice vence.
func TestStockSettleQuoteRoseFor(t *testing.T) {
	h := NewStockHandler(nil)
	bet := stockBet(t, "alice", 100, ledger.DirectionFor, 50.0)

	out, err := h.Settle(context.Background(), bet, payload.StockData{Quote: 60.0})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !out.Won {
		t.Errorf("FOR with rising quote should win")
	}
	if out.Delta != 100 {
		t.Errorf("delta: got %d, want 100", out.Delta)
	}
}

func TestStockSettleQuoteFell(t *testing.T) {
	h := NewStockHandler(nil)

	forBet := stockBet(t, "alice", 100, ledger.DirectionFor, 50.0)
	out, err := h.Settle(context.Background(), forBet, payload.StockData{Quote: 40.0})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out.Won || out.Delta != -100 {
		t.Errorf("FOR with falling quote should lose 100, got won=%v delta=%d", out.Won, out.Delta)
	}

	againstBet := stockBet(t, "dave", 30, ledger.DirectionAgainst, 50.0)
	out, err = h.Settle(context.Background(), againstBet, payload.StockData{Quote: 40.0})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !out.Won || out.Delta != 30 {
		t.Errorf("AGAINST with falling quote should win 30, got won=%v delta=%d", out.Won, out.Delta)
	}
}

func TestStockSettleFetchesFromSource(t *testing.T) {
	h := NewStockHandler(fakeQuotes{"ACME": 75.0})
	bet := stockBet(t, "alice", 100, ledger.DirectionFor, 50.0)

	out, err := h.Settle(context.Background(), bet, nil)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !out.Won {
		t.Errorf("quote from source rose, FOR should win")
	}
}

// Cenário: bob aposta 50 AGAINST em match42 sem payload; TeamA vence — o pick
// implícito é o vencedor, então AGAINST perde.
func TestLCSSettleImplicitPickAgainstLoses(t *testing.T) {
	h := NewLCSHandler(nil)
	bet, err := ledger.New(payload.NewCodec(), "lcs", "bob", "match42", 50, ledger.DirectionAgainst, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := h.Settle(context.Background(), bet, payload.LCSData{Winner: "TeamA", Loser: "TeamB"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out.Won {
		t.Errorf("AGAINST the declared winner should lose")
	}
	if out.Delta != -50 {
		t.Errorf("delta: got %d, want -50", out.Delta)
	}
}

func TestLCSSettleExplicitPick(t *testing.T) {
	h := NewLCSHandler(nil)
	bet, err := ledger.New(payload.NewCodec(), "lcs", "erin", "match42", 40, ledger.DirectionFor, "", payload.LCSData{Winner: "TeamB"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := h.Settle(context.Background(), bet, payload.LCSData{Winner: "TeamA", Loser: "TeamB"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out.Won || out.Delta != -40 {
		t.Errorf("FOR TeamB when TeamA won should lose 40, got won=%v delta=%d", out.Won, out.Delta)
	}
}

func TestLCSSettleFetchesFromSource(t *testing.T) {
	h := NewLCSHandler(fakeResults{"match42": {Winner: "TeamA", Loser: "TeamB"}})
	bet, err := ledger.New(payload.NewCodec(), "lcs", "bob", "match42", 50, ledger.DirectionFor, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := h.Settle(context.Background(), bet, nil)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !out.Won || out.Delta != 50 {
		t.Errorf("implicit pick FOR the winner should win 50, got won=%v delta=%d", out.Won, out.Delta)
	}
}
