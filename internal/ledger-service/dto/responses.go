package dto

import (
	"encoding/json"
	"time"
)

type PlaceWagerResponse struct {
	Status  string `json:"status"` // PENDING
	Message string `json:"message,omitempty"`
}

type SettleWagerResponse struct {
	RecordID  string    `json:"record_id"`
	Won       bool      `json:"won"`
	Delta     int64     `json:"delta"`
	Detail    string    `json:"detail,omitempty"`
	SettledAt time.Time `json:"settled_at"`
}

type WagerView struct {
	Game      string          `json:"game"`
	User      string          `json:"user"`
	Target    string          `json:"target"`
	Amount    int64           `json:"amount"`
	Direction int             `json:"direction"`
	Resolver  string          `json:"resolver,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	PlacedAt  time.Time       `json:"placed_at"`
}

type PendingWagersResponse struct {
	User   string      `json:"user"`
	Wagers []WagerView `json:"wagers"`
}
