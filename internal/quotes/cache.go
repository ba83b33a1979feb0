package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

// Cache lê e grava no Redis as cotações e resultados que alimentam os
// resolvers na liquidação.
// Chaves: "quote:{symbol}" => cotação como string ("60.5")
//         "result:{matchID}" => JSON de payload.LCSData
type Cache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *Cache { return &Cache{Rdb: r, TTL: ttl} }

func quoteKey(symbol string) string   { return "quote:" + symbol }
func resultKey(matchID string) string { return "result:" + matchID }

// Quote devolve a cotação corrente do símbolo.
func (c *Cache) Quote(ctx context.Context, symbol string) (float64, error) {
	val, err := c.Rdb.Get(ctx, quoteKey(symbol)).Result()
	if err != nil {
		return 0, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	q, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quote %s=%q: %w", symbol, val, err)
	}
	return q, nil
}

// SetQuote grava a cotação corrente com TTL.
func (c *Cache) SetQuote(ctx context.Context, symbol string, quote float64) error {
	val := strconv.FormatFloat(quote, 'f', -1, 64)
	return c.Rdb.Set(ctx, quoteKey(symbol), val, c.TTL).Err()
}

// Result devolve o resultado declarado da partida.
func (c *Cache) Result(ctx context.Context, matchID string) (payload.LCSData, error) {
	val, err := c.Rdb.Get(ctx, resultKey(matchID)).Bytes()
	if err != nil {
		return payload.LCSData{}, fmt.Errorf("get result %s: %w", matchID, err)
	}
	var res payload.LCSData
	if err := json.Unmarshal(val, &res); err != nil {
		return payload.LCSData{}, fmt.Errorf("decode result %s: %w", matchID, err)
	}
	return res, nil
}

// SetResult grava o resultado de uma partida. Resultados não expiram junto
// com cotações; usa o dobro do TTL para dar folga à liquidação.
func (c *Cache) SetResult(ctx context.Context, matchID string, res payload.LCSData) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, resultKey(matchID), b, 2*c.TTL).Err()
}
