package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

var (
	// ErrDuplicateResolver rejeita re-registro do mesmo jogo ou nome.
	// Last-writer-wins é proibido para não sombrear handlers silenciosamente.
	ErrDuplicateResolver = errors.New("resolver already registered")

	// ErrNoResolverFound indica jogo sem handler registrado.
	ErrNoResolverFound = errors.New("no resolver registered for game")

	// ErrUnknownResolverName indica resolver nomeado na aposta que não existe.
	ErrUnknownResolverName = errors.New("unknown resolver name")
)

// Handler liquida apostas de um jogo. O result é o payload de resultado
// (cotação corrente, vencedor declarado); nil manda o handler buscar na fonte.
type Handler interface {
	Settle(ctx context.Context, bet *ledger.BetRecord, result payload.Payload) (ledger.Outcome, error)
}

// Registry roteia apostas pendentes para o handler capaz de liquidá-las.
// Indexa por jogo (rota implícita) e por nome (rota explícita via bet.Resolver).
type Registry struct {
	mu     sync.RWMutex
	byGame map[string]Handler
	byName map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		byGame: make(map[string]Handler),
		byName: make(map[string]Handler),
	}
}

// Register associa um handler nomeado a exatamente um jogo.
func (r *Registry) Register(name, gameID string, h Handler) error {
	if name == "" || gameID == "" || h == nil {
		return fmt.Errorf("register resolver: name, game and handler are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byGame[gameID]; exists {
		return fmt.Errorf("%w: game %q", ErrDuplicateResolver, gameID)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: name %q", ErrDuplicateResolver, name)
	}

	r.byGame[gameID] = h
	r.byName[name] = h
	return nil
}

// ResolverFor devolve o handler da aposta. Resolver explícito na aposta
// ignora por completo a rota por jogo.
func (r *Registry) ResolverFor(bet *ledger.BetRecord) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if bet.Resolver != "" {
		h, ok := r.byName[bet.Resolver]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResolverName, bet.Resolver)
		}
		return h, nil
	}

	h, ok := r.byGame[bet.Game]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoResolverFound, bet.Game)
	}
	return h, nil
}
