package payload

// Identificadores dos jogos com schema de payload conhecido.
const (
	GameStock = "stock"
	GameLCS   = "lcs"
)

// Payload é o dado específico de jogo anexado a uma aposta.
// GameType identifica o schema ao qual o valor pertence.
type Payload interface {
	GameType() string
}

// StockData é o payload de apostas em cotação de ações.
// Quote guarda a cotação de referência no momento da aposta (ou a cotação
// corrente, quando usado como resultado na liquidação).
type StockData struct {
	Quote float64 `json:"quote"`
}

func (StockData) GameType() string { return GameStock }

// LCSData é o payload de apostas em partidas estilo "last common survivor".
type LCSData struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

func (LCSData) GameType() string { return GameLCS }

// Opaque carrega bytes sem interpretação para jogos sem schema registrado.
// Garante round-trip de payloads de jogos futuros sem perda.
type Opaque struct {
	Game string
	Raw  []byte
}

func (o Opaque) GameType() string { return o.Game }
