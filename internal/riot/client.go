package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrAmbiguousKey indica uma chave de busca sem exatamente um campo preenchido.
var ErrAmbiguousKey = errors.New("summoner key must set exactly one of id, account id or name")

// SummonerKey identifica um summoner por exatamente um dos campos.
type SummonerKey struct {
	ID        int64
	AccountID int64
	Name      string
}

func (k SummonerKey) validate() error {
	set := 0
	if k.ID != 0 {
		set++
	}
	if k.AccountID != 0 {
		set++
	}
	if k.Name != "" {
		set++
	}
	if set != 1 {
		return ErrAmbiguousKey
	}
	return nil
}

// Summoner é o registro devolvido pelo serviço externo. O core trata esses
// valores como opacos — viram targets de aposta, nada mais.
type Summoner struct {
	ID            int64  `json:"id"`
	AccountID     int64  `json:"accountId"`
	Name          string `json:"name"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int64  `json:"summonerLevel"`
	ProfileIconID int32  `json:"profileIconId"`
}

// Client consulta o serviço de lookup de summoner via HTTP.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(base, apiKey string) *Client {
	return &Client{
		BaseURL: base,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Summoner busca o registro pela chave informada.
func (c *Client) Summoner(ctx context.Context, key SummonerKey) (*Summoner, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	switch {
	case key.ID != 0:
		q.Set("id", strconv.FormatInt(key.ID, 10))
	case key.AccountID != 0:
		q.Set("accountId", strconv.FormatInt(key.AccountID, 10))
	default:
		q.Set("name", key.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/summoner?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-Riot-Token", c.APIKey)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("summoner lookup http %d", res.StatusCode)
	}

	var out Summoner
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
