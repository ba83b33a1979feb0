package resolver

import (
	"context"
	"fmt"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

// ResultSource fornece o resultado declarado de uma partida (vencedor/perdedor).
type ResultSource interface {
	Result(ctx context.Context, matchID string) (payload.LCSData, error)
}

// LCSHandler liquida apostas de partida. O pick do apostador vem do payload
// da aposta (Winner); sem payload, o pick implícito é o vencedor declarado.
// FOR vence quando o pick é o vencedor; AGAINST inverte.
type LCSHandler struct {
	Results ResultSource
}

func NewLCSHandler(r ResultSource) *LCSHandler { return &LCSHandler{Results: r} }

func (h *LCSHandler) Settle(ctx context.Context, bet *ledger.BetRecord, result payload.Payload) (ledger.Outcome, error) {
	var declared payload.LCSData
	switch res := result.(type) {
	case payload.LCSData:
		declared = res
	case nil:
		if h.Results == nil {
			return ledger.Outcome{}, fmt.Errorf("%w: no result and no result source", payload.ErrMalformedPayload)
		}
		r, err := h.Results.Result(ctx, bet.Target)
		if err != nil {
			return ledger.Outcome{}, fmt.Errorf("fetch result for %s: %w", bet.Target, err)
		}
		declared = r
	default:
		return ledger.Outcome{}, fmt.Errorf("%w: result %q for lcs bet", payload.ErrMalformedPayload, result.GameType())
	}
	if declared.Winner == "" {
		return ledger.Outcome{}, fmt.Errorf("%w: match result without winner", payload.ErrMalformedPayload)
	}

	pick := declared.Winner
	if placed, ok := bet.Payload.(payload.LCSData); ok && placed.Winner != "" {
		pick = placed.Winner
	}

	pickWon := pick == declared.Winner
	won := (bet.Direction == ledger.DirectionFor && pickWon) ||
		(bet.Direction == ledger.DirectionAgainst && !pickWon)

	out := ledger.Outcome{
		Won:    won,
		Detail: fmt.Sprintf("match %s: %s over %s, pick %s", bet.Target, declared.Winner, declared.Loser, pick),
	}
	if won {
		out.Delta = bet.Amount
	} else {
		out.Delta = -bet.Amount
	}
	return out, nil
}
