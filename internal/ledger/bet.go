package ledger

import (
	"fmt"
	"time"

	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

// Direction indica a polaridade da aposta em relação ao alvo.
type Direction int

const (
	DirectionFor     Direction = 0
	DirectionAgainst Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionFor:
		return "FOR"
	case DirectionAgainst:
		return "AGAINST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Key identifica no máximo uma aposta pendente no ledger.
type Key struct {
	Game   string
	User   string
	Target string
}

func (k Key) String() string { return k.Game + "/" + k.User + "/" + k.Target }

// BetRecord é o registro imutável de uma aposta. Criado validado em New;
// nunca alterado in-place — a liquidação produz um ResolvedRecord novo.
type BetRecord struct {
	Game      string
	User      string
	Target    string
	Amount    int64
	Direction Direction
	Resolver  string // vazio = qualquer handler registrado para o jogo
	Payload   payload.Payload
	PlacedAt  time.Time
}

// Key retorna a chave de unicidade (game, user, target).
func (b *BetRecord) Key() Key {
	return Key{Game: b.Game, User: b.User, Target: b.Target}
}

// New valida e constrói uma aposta. Construtor puro, sem efeitos colaterais.
func New(codec *payload.Codec, game, user, target string, amount int64, dir Direction, resolver string, p payload.Payload) (*BetRecord, error) {
	switch {
	case game == "":
		return nil, fmt.Errorf("%w: game", ErrMissingField)
	case user == "":
		return nil, fmt.Errorf("%w: user", ErrMissingField)
	case target == "":
		return nil, fmt.Errorf("%w: target", ErrMissingField)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if dir != DirectionFor && dir != DirectionAgainst {
		return nil, fmt.Errorf("%w: direction %d", ErrMissingField, int(dir))
	}

	// Com schema registrado, o payload anexado precisa ser do tipo do jogo.
	if p != nil && codec != nil && codec.Registered(game) {
		if _, opaque := p.(payload.Opaque); opaque || p.GameType() != game {
			return nil, fmt.Errorf("%w: payload %q, game %q", ErrPayloadMismatch, p.GameType(), game)
		}
	}

	return &BetRecord{
		Game:      game,
		User:      user,
		Target:    target,
		Amount:    amount,
		Direction: dir,
		Resolver:  resolver,
		Payload:   p,
		PlacedAt:  time.Now().UTC(),
	}, nil
}

// Outcome é o resultado da liquidação de uma aposta.
// Delta é a variação em unidades de moeda: +Amount em vitória, -Amount em derrota.
type Outcome struct {
	Won    bool
	Delta  int64
	Detail string
}
