package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
)

// Memory é o ledger em memória. Um único mutex serializa as mutações
// sobre o espaço de chaves (throughput esperado é de bot de chat).
type Memory struct {
	mu       sync.Mutex
	pending  map[ledger.Key]*ledger.BetRecord
	resolved []ResolvedRecord
}

func NewMemory() *Memory {
	return &Memory{pending: make(map[ledger.Key]*ledger.BetRecord)}
}

func (m *Memory) Place(_ context.Context, bet *ledger.BetRecord) error {
	key := bet.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	cp := *bet
	m.pending[key] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, key ledger.Key) (*ledger.BetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bet, ok := m.pending[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPendingBet, key)
	}
	cp := *bet
	return &cp, nil
}

func (m *Memory) Settle(_ context.Context, key ledger.Key, out ledger.Outcome) (*ResolvedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bet, ok := m.pending[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPendingBet, key)
	}
	delete(m.pending, key)

	rec := ResolvedRecord{
		ID:        uuid.NewString(),
		Bet:       *bet,
		Outcome:   out,
		SettledAt: time.Now().UTC(),
	}
	m.resolved = append(m.resolved, rec)
	return &rec, nil
}

func (m *Memory) Cancel(_ context.Context, key ledger.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchPendingBet, key)
	}
	delete(m.pending, key)
	return nil
}

// PendingFor copia as pendentes do usuário sob o lock e devolve o snapshot
// ordenado; iterações posteriores não veem mutações futuras.
func (m *Memory) PendingFor(_ context.Context, user string) ([]ledger.BetRecord, error) {
	m.mu.Lock()
	out := make([]ledger.BetRecord, 0)
	for _, bet := range m.pending {
		if bet.User == user {
			out = append(out, *bet)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Game != out[j].Game {
			return out[i].Game < out[j].Game
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}

// Resolved devolve o histórico de liquidações (snapshot).
func (m *Memory) Resolved() []ResolvedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ResolvedRecord, len(m.resolved))
	copy(out, m.resolved)
	return out
}
