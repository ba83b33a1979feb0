package resolver

import (
	"context"
	"fmt"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

// QuoteSource fornece a cotação corrente de um símbolo (ex.: cache Redis).
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// StockHandler liquida apostas de cotação: a aposta guarda a cotação de
// referência no payload; FOR vence se a cotação corrente subiu, AGAINST se caiu.
type StockHandler struct {
	Quotes QuoteSource
}

func NewStockHandler(q QuoteSource) *StockHandler { return &StockHandler{Quotes: q} }

func (h *StockHandler) Settle(ctx context.Context, bet *ledger.BetRecord, result payload.Payload) (ledger.Outcome, error) {
	placed, ok := bet.Payload.(payload.StockData)
	if !ok {
		return ledger.Outcome{}, fmt.Errorf("%w: stock bet without reference quote", payload.ErrMalformedPayload)
	}

	var current float64
	switch res := result.(type) {
	case payload.StockData:
		current = res.Quote
	case nil:
		if h.Quotes == nil {
			return ledger.Outcome{}, fmt.Errorf("%w: no result and no quote source", payload.ErrMalformedPayload)
		}
		q, err := h.Quotes.Quote(ctx, bet.Target)
		if err != nil {
			return ledger.Outcome{}, fmt.Errorf("fetch quote for %s: %w", bet.Target, err)
		}
		current = q
	default:
		return ledger.Outcome{}, fmt.Errorf("%w: result %q for stock bet", payload.ErrMalformedPayload, result.GameType())
	}

	rose := current > placed.Quote
	won := (bet.Direction == ledger.DirectionFor && rose) ||
		(bet.Direction == ledger.DirectionAgainst && !rose)

	out := ledger.Outcome{
		Won:    won,
		Detail: fmt.Sprintf("quote %s: %.2f -> %.2f", bet.Target, placed.Quote, current),
	}
	if won {
		out.Delta = bet.Amount
	} else {
		out.Delta = -bet.Amount
	}
	return out, nil
}
