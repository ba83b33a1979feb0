package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnsupportedPayloadType indica encode de um payload tipado para um jogo
	// sem schema registrado (bytes opacos continuam aceitos).
	ErrUnsupportedPayloadType = errors.New("unsupported payload type")

	// ErrMalformedPayload indica bytes que não batem com o schema do jogo.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrSchemaExists indica tentativa de registrar duas vezes o mesmo jogo.
	ErrSchemaExists = errors.New("payload schema already registered")
)

// Codec codifica e decodifica o campo polimórfico de payload das apostas.
// Jogos registrados usam JSON estrito; jogos desconhecidos passam como blob opaco.
type Codec struct {
	mu      sync.RWMutex
	schemas map[string]func() Payload
}

// NewCodec retorna um codec com os schemas padrão (stock e lcs) registrados.
func NewCodec() *Codec {
	c := &Codec{schemas: make(map[string]func() Payload)}
	_ = c.RegisterSchema(GameStock, func() Payload { return &StockData{} })
	_ = c.RegisterSchema(GameLCS, func() Payload { return &LCSData{} })
	return c
}

// RegisterSchema associa um jogo à fábrica do seu payload tipado.
func (c *Codec) RegisterSchema(game string, factory func() Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[game]; exists {
		return fmt.Errorf("%w: %s", ErrSchemaExists, game)
	}
	c.schemas[game] = factory
	return nil
}

// Registered informa se o jogo possui schema conhecido.
func (c *Codec) Registered(game string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.schemas[game]
	return ok
}

// Encode serializa o payload de uma aposta do jogo informado.
// Payloads opacos passam direto, qualquer que seja o jogo.
func (c *Codec) Encode(game string, p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	if o, ok := p.(Opaque); ok {
		raw := make([]byte, len(o.Raw))
		copy(raw, o.Raw)
		return raw, nil
	}

	c.mu.RLock()
	_, known := c.schemas[game]
	c.mu.RUnlock()

	if !known {
		return nil, fmt.Errorf("%w: no schema for game %q", ErrUnsupportedPayloadType, game)
	}
	if p.GameType() != game {
		return nil, fmt.Errorf("%w: payload %q for game %q", ErrUnsupportedPayloadType, p.GameType(), game)
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

// Decode reconstrói o payload tipado a partir dos bytes gravados.
// Jogos sem schema retornam Opaque com os bytes intactos.
func (c *Codec) Decode(game string, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	c.mu.RLock()
	factory, known := c.schemas[game]
	c.mu.RUnlock()

	if !known {
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return Opaque{Game: game, Raw: cp}, nil
	}

	p := factory()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: game %q: %v", ErrMalformedPayload, game, err)
	}
	return deref(p), nil
}

// deref devolve o valor (não o ponteiro) para manter payloads comparáveis.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *StockData:
		return *v
	case *LCSData:
		return *v
	default:
		return p
	}
}
