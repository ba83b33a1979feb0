package settlement

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
	"github.com/radieske/chat-wager-ledger/internal/ledger/resolver"
	"github.com/radieske/chat-wager-ledger/internal/ledger/store"
	"github.com/radieske/chat-wager-ledger/pkg/contracts/events"
)

// SettledPublisher publica o evento de liquidação (best effort).
type SettledPublisher interface {
	PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
}

// Service orquestra o caminho de liquidação: carrega a aposta pendente,
// roteia para o resolver com timeout limitado e aplica o resultado no store.
// Callbacks de métricas são opcionais.
type Service struct {
	Log      *zap.Logger
	Store    store.Store
	Registry *resolver.Registry
	Timeout  time.Duration
	Publ     SettledPublisher

	OnPlaced    func()
	OnSettled   func(won bool)
	OnCancelled func()
	OnError     func(stage string)
}

// Place insere a aposta no ledger.
func (s *Service) Place(ctx context.Context, bet *ledger.BetRecord) error {
	if err := s.Store.Place(ctx, bet); err != nil {
		s.countError("place")
		return err
	}
	if s.OnPlaced != nil {
		s.OnPlaced()
	}
	return nil
}

// Settle liquida a aposta pendente da chave. O result (payload de resultado)
// pode ser nil; nesse caso o handler busca na fonte de cotações/resultados.
// Estouro do timeout vira ledger.ErrResolverTimeout, nunca trava o caminho.
func (s *Service) Settle(ctx context.Context, key ledger.Key, result payload.Payload) (*store.ResolvedRecord, error) {
	bet, err := s.Store.Get(ctx, key)
	if err != nil {
		s.countError("load")
		return nil, err
	}

	h, err := s.Registry.ResolverFor(bet)
	if err != nil {
		s.countError("route")
		return nil, err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := h.Settle(rctx, bet, result)
	if err != nil {
		s.countError("resolve")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ledger.ErrResolverTimeout
		}
		return nil, err
	}

	rec, err := s.Store.Settle(ctx, key, out)
	if err != nil {
		s.countError("settle")
		return nil, err
	}
	if s.OnSettled != nil {
		s.OnSettled(out.Won)
	}

	if s.Publ != nil {
		ev := events.WagerSettled{
			RecordID: rec.ID,
			Game:     rec.Bet.Game,
			User:     rec.Bet.User,
			Target:   rec.Bet.Target,
			Won:      out.Won,
			Delta:    out.Delta,
			Detail:   out.Detail,
			Ts:       rec.SettledAt,
		}
		if perr := s.Publ.PublishWagerSettled(ctx, ev); perr != nil {
			s.countError("publish")
			if s.Log != nil {
				s.Log.Warn("wager_settled publish failed", zap.String("key", key.String()), zap.Error(perr))
			}
		}
	}
	return rec, nil
}

// Cancel remove a aposta pendente sem produzir resultado.
func (s *Service) Cancel(ctx context.Context, key ledger.Key) error {
	if err := s.Store.Cancel(ctx, key); err != nil {
		s.countError("cancel")
		return err
	}
	if s.OnCancelled != nil {
		s.OnCancelled()
	}
	return nil
}

func (s *Service) countError(stage string) {
	if s.OnError != nil {
		s.OnError(stage)
	}
}
