package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

type stubHandler struct{ tag string }

func (h *stubHandler) Settle(context.Context, *ledger.BetRecord, payload.Payload) (ledger.Outcome, error) {
	return ledger.Outcome{Detail: h.tag}, nil
}

func TestRegisterDuplicateGame(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("stockbot", "stock", &stubHandler{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := r.Register("stockbot2", "stock", &stubHandler{})
	if !errors.Is(err, ErrDuplicateResolver) {
		t.Errorf("got %v, want ErrDuplicateResolver", err)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("bot", "stock", &stubHandler{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := r.Register("bot", "lcs", &stubHandler{})
	if !errors.Is(err, ErrDuplicateResolver) {
		t.Errorf("got %v, want ErrDuplicateResolver", err)
	}
}

func TestResolverForByGame(t *testing.T) {
	r := NewRegistry()
	want := &stubHandler{tag: "stock"}
	if err := r.Register("stockbot", "stock", want); err != nil {
		t.Fatal(err)
	}

	bet := &ledger.BetRecord{Game: "stock", User: "alice", Target: "ACME"}
	h, err := r.ResolverFor(bet)
	if err != nil {
		t.Fatalf("ResolverFor: %v", err)
	}
	if h != Handler(want) {
		t.Errorf("routed to wrong handler")
	}
}

// Resolver nomeado na aposta ignora por completo a rota por jogo.
func TestResolverForExplicitNameIgnoresGame(t *testing.T) {
	r := NewRegistry()
	stock := &stubHandler{tag: "stock"}
	lcs := &stubHandler{tag: "lcs"}
	if err := r.Register("stockbot", "stock", stock); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("lcsbot", "lcs", lcs); err != nil {
		t.Fatal(err)
	}

	bet := &ledger.BetRecord{Game: "stock", User: "alice", Target: "ACME", Resolver: "lcsbot"}
	h, err := r.ResolverFor(bet)
	if err != nil {
		t.Fatalf("ResolverFor: %v", err)
	}
	if h != Handler(lcs) {
		t.Errorf("explicit resolver name should win over game routing")
	}
}

func TestResolverForUnknownName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("stockbot", "stock", &stubHandler{}); err != nil {
		t.Fatal(err)
	}

	bet := &ledger.BetRecord{Game: "stock", User: "alice", Target: "ACME", Resolver: "ghost"}
	if _, err := r.ResolverFor(bet); !errors.Is(err, ErrUnknownResolverName) {
		t.Errorf("got %v, want ErrUnknownResolverName", err)
	}
}

func TestResolverForNoResolverFound(t *testing.T) {
	r := NewRegistry()

	bet := &ledger.BetRecord{Game: "dice", User: "carol", Target: "roll7"}
	if _, err := r.ResolverFor(bet); !errors.Is(err, ErrNoResolverFound) {
		t.Errorf("got %v, want ErrNoResolverFound", err)
	}
}
