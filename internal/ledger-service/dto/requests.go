package dto

import "encoding/json"

type PlaceWagerRequest struct {
	Game      string          `json:"game"`
	User      string          `json:"user"`
	Target    string          `json:"target"`
	Amount    int64           `json:"amount"`
	Direction int             `json:"direction"` // FOR=0 | AGAINST=1
	Resolver  string          `json:"resolver,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"` // payload específico do jogo
}

type SettleWagerRequest struct {
	Game   string          `json:"game"`
	User   string          `json:"user"`
	Target string          `json:"target"`
	Data   json.RawMessage `json:"data,omitempty"` // resultado (cotação corrente, vencedor declarado)
}

type CancelWagerRequest struct {
	Game   string `json:"game"`
	User   string `json:"user"`
	Target string `json:"target"`
}
