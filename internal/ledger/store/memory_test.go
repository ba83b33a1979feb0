package store

import (
	"context"
	"errors"
	"testing"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

func newBet(t *testing.T, game, user, target string, amount int64) *ledger.BetRecord {
	t.Helper()
	bet, err := ledger.New(payload.NewCodec(), game, user, target, amount, ledger.DirectionFor, "", nil)
	if err != nil {
		t.Fatalf("build bet: %v", err)
	}
	return bet
}

func TestPlaceDuplicateKey(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Place(ctx, newBet(t, "stock", "alice", "ACME", 100)); err != nil {
		t.Fatalf("first place: %v", err)
	}
	err := m.Place(ctx, newBet(t, "stock", "alice", "ACME", 200))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("got %v, want ErrDuplicateKey", err)
	}

	// chaves distintas convivem
	if err := m.Place(ctx, newBet(t, "stock", "alice", "GLOBEX", 100)); err != nil {
		t.Errorf("different target should be accepted: %v", err)
	}
	if err := m.Place(ctx, newBet(t, "stock", "bob", "ACME", 100)); err != nil {
		t.Errorf("different user should be accepted: %v", err)
	}
}

func TestSettleIsIdempotentSafe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	key := ledger.Key{Game: "stock", User: "alice", Target: "ACME"}

	if err := m.Place(ctx, newBet(t, "stock", "alice", "ACME", 100)); err != nil {
		t.Fatal(err)
	}

	rec, err := m.Settle(ctx, key, ledger.Outcome{Won: true, Delta: 100})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if rec.ID == "" {
		t.Errorf("resolved record should carry an id")
	}
	if rec.Bet.Amount != 100 || rec.Outcome.Delta != 100 {
		t.Errorf("resolved record mismatch: %+v", rec)
	}

	// segunda liquidação nunca paga de novo
	if _, err := m.Settle(ctx, key, ledger.Outcome{Won: true, Delta: 100}); !errors.Is(err, ErrNoSuchPendingBet) {
		t.Errorf("second settle: got %v, want ErrNoSuchPendingBet", err)
	}
	if got := len(m.Resolved()); got != 1 {
		t.Errorf("resolved history: got %d records, want 1", got)
	}
}

func TestCancel(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	key := ledger.Key{Game: "lcs", User: "bob", Target: "match42"}

	if err := m.Cancel(ctx, key); !errors.Is(err, ErrNoSuchPendingBet) {
		t.Errorf("cancel absent: got %v, want ErrNoSuchPendingBet", err)
	}

	if err := m.Place(ctx, newBet(t, "lcs", "bob", "match42", 50)); err != nil {
		t.Fatal(err)
	}
	if err := m.Cancel(ctx, key); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// cancelada não liquida
	if _, err := m.Settle(ctx, key, ledger.Outcome{}); !errors.Is(err, ErrNoSuchPendingBet) {
		t.Errorf("settle after cancel: got %v, want ErrNoSuchPendingBet", err)
	}

	// chave liberada aceita nova aposta
	if err := m.Place(ctx, newBet(t, "lcs", "bob", "match42", 75)); err != nil {
		t.Errorf("re-place after cancel: %v", err)
	}
}

func TestPendingForIsSnapshot(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Place(ctx, newBet(t, "stock", "alice", "ACME", 100)); err != nil {
		t.Fatal(err)
	}
	if err := m.Place(ctx, newBet(t, "lcs", "alice", "match42", 50)); err != nil {
		t.Fatal(err)
	}
	if err := m.Place(ctx, newBet(t, "stock", "bob", "ACME", 10)); err != nil {
		t.Fatal(err)
	}

	snap, err := m.PendingFor(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 2 {
		t.Fatalf("got %d pending, want 2", len(snap))
	}

	// mutações posteriores não aparecem no snapshot já tirado
	if err := m.Place(ctx, newBet(t, "stock", "alice", "GLOBEX", 20)); err != nil {
		t.Fatal(err)
	}
	if len(snap) != 2 {
		t.Errorf("snapshot mutated after place")
	}

	// reiterável: nova chamada devolve o estado corrente
	again, err := m.PendingFor(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 3 {
		t.Errorf("got %d pending after new place, want 3", len(again))
	}
}
