package ledger

import (
	"errors"
	"testing"

	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

func TestNewValidation(t *testing.T) {
	codec := payload.NewCodec()

	cases := []struct {
		name    string
		game    string
		user    string
		target  string
		amount  int64
		dir     Direction
		payload payload.Payload
		wantErr error
	}{
		{"valid stock", "stock", "alice", "ACME", 100, DirectionFor, payload.StockData{Quote: 50}, nil},
		{"valid without payload", "lcs", "bob", "match42", 50, DirectionAgainst, nil, nil},
		{"zero amount", "stock", "alice", "ACME", 0, DirectionFor, nil, ErrInvalidAmount},
		{"negative amount", "stock", "alice", "ACME", -10, DirectionFor, nil, ErrInvalidAmount},
		{"empty game", "", "alice", "ACME", 100, DirectionFor, nil, ErrMissingField},
		{"empty user", "stock", "", "ACME", 100, DirectionFor, nil, ErrMissingField},
		{"empty target", "stock", "alice", "", 100, DirectionFor, nil, ErrMissingField},
		{"payload of another game", "stock", "alice", "ACME", 100, DirectionFor, payload.LCSData{Winner: "x"}, ErrPayloadMismatch},
		{"opaque payload on registered game", "stock", "alice", "ACME", 100, DirectionFor, payload.Opaque{Game: "stock", Raw: []byte("x")}, ErrPayloadMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet, err := New(codec, tc.game, tc.user, tc.target, tc.amount, tc.dir, "", tc.payload)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if bet.Key() != (Key{Game: tc.game, User: tc.user, Target: tc.target}) {
					t.Errorf("bad key: %v", bet.Key())
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewAllowsOpaqueForUnknownGame(t *testing.T) {
	codec := payload.NewCodec()

	bet, err := New(codec, "dice", "carol", "roll7", 25, DirectionFor, "", payload.Opaque{Game: "dice", Raw: []byte(`{"sides":6}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := bet.Payload.(payload.Opaque); !ok {
		t.Errorf("payload should stay opaque: %#v", bet.Payload)
	}
}

func TestDirectionString(t *testing.T) {
	if DirectionFor.String() != "FOR" || DirectionAgainst.String() != "AGAINST" {
		t.Errorf("unexpected direction names: %s / %s", DirectionFor, DirectionAgainst)
	}
}
