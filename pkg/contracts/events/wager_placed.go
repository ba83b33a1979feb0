package events

// WagerPlaced é publicado no tópico "wager_placed" quando uma aposta entra no ledger.
// Payload carrega os bytes codificados pelo codec do jogo (JSON tagueado ou blob opaco).
type WagerPlaced struct {
	Game      string `json:"game"`
	User      string `json:"user"`
	Target    string `json:"target"`
	Amount    int64  `json:"amount"`
	Direction int    `json:"direction"` // FOR=0 | AGAINST=1
	Resolver  string `json:"resolver,omitempty"`
	Payload   []byte `json:"payload,omitempty"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
