package events

import "time"

// WagerSettled é emitido após a liquidação de uma aposta pendente.
type WagerSettled struct {
	RecordID string    `json:"record_id"`
	Game     string    `json:"game"`
	User     string    `json:"user"`
	Target   string    `json:"target"`
	Won      bool      `json:"won"`
	Delta    int64     `json:"delta"` // variação em unidades de moeda (+amount | -amount)
	Detail   string    `json:"detail,omitempty"`
	Ts       time.Time `json:"ts"`
}
