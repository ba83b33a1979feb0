package store

import (
	"context"
	"errors"
	"time"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
)

var (
	// ErrDuplicateKey rejeita uma segunda aposta pendente na mesma chave.
	ErrDuplicateKey = errors.New("pending wager already exists for key")

	// ErrNoSuchPendingBet indica settle/cancel de chave sem aposta pendente.
	ErrNoSuchPendingBet = errors.New("no pending wager for key")
)

// ResolvedRecord pareia a aposta original com o seu resultado.
// Produzido pelo settle; a aposta pendente é removida, nunca editada.
type ResolvedRecord struct {
	ID        string
	Bet       ledger.BetRecord
	Outcome   ledger.Outcome
	SettledAt time.Time
}

// Store guarda as apostas pendentes do ledger.
// Ciclo de vida por chave: Pending -> {Settled, Cancelled}, estados terminais.
type Store interface {
	// Place insere se e somente se não há pendente na chave (check-and-insert atômico).
	Place(ctx context.Context, bet *ledger.BetRecord) error

	// Get devolve a aposta pendente da chave.
	Get(ctx context.Context, key ledger.Key) (*ledger.BetRecord, error)

	// Settle remove a pendente e emite o registro resolvido.
	// Segunda chamada na mesma chave devolve ErrNoSuchPendingBet — nunca paga duas vezes.
	Settle(ctx context.Context, key ledger.Key, out ledger.Outcome) (*ResolvedRecord, error)

	// Cancel remove a pendente sem produzir resultado.
	Cancel(ctx context.Context, key ledger.Key) error

	// PendingFor devolve um snapshot finito das pendentes do usuário.
	PendingFor(ctx context.Context, user string) ([]ledger.BetRecord, error)
}
