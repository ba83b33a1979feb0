package ledger

import "errors"

// Erros de validação e de liquidação do ledger. Todos são sentinelas
// distinguíveis via errors.Is; nenhuma falha vira no-op silencioso.
var (
	ErrInvalidAmount   = errors.New("wager amount must be positive")
	ErrMissingField    = errors.New("missing required field")
	ErrPayloadMismatch = errors.New("payload type does not match game schema")
	ErrResolverTimeout = errors.New("resolver timed out")
)
