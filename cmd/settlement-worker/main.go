package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
	"github.com/radieske/chat-wager-ledger/internal/ledger/producer"
	"github.com/radieske/chat-wager-ledger/internal/ledger/resolver"
	"github.com/radieske/chat-wager-ledger/internal/ledger/store"
	"github.com/radieske/chat-wager-ledger/internal/quotes"
	"github.com/radieske/chat-wager-ledger/internal/settlement"
	sharedcache "github.com/radieske/chat-wager-ledger/internal/shared/cache"
	"github.com/radieske/chat-wager-ledger/internal/shared/config"
	"github.com/radieske/chat-wager-ledger/internal/shared/db"
	sharedkafka "github.com/radieske/chat-wager-ledger/internal/shared/kafka"
	"github.com/radieske/chat-wager-ledger/internal/shared/logger"
	"github.com/radieske/chat-wager-ledger/internal/shared/metrics"
	ev "github.com/radieske/chat-wager-ledger/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres: ledger durável das apostas pendentes
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: fonte de cotações e resultados para os resolvers
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka consumer: consome wager_placed para tentar liquidação
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicWagerPlaced, "settlement-worker")
	defer reader.Close()

	// Kafka producers: wager_settled e DLQ
	settledWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	defer settledWriter.Close()

	dlqWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlacedDLQ)
	defer dlqWriter.Close()

	// deps do ledger
	codec := payload.NewCodec()
	qcache := quotes.New(rdb, cfg.QuoteTTL)
	ledgerStore := store.NewPostgres(pg, codec)

	registry := resolver.NewRegistry()
	if err := registry.Register("stockbot", payload.GameStock, resolver.NewStockHandler(qcache)); err != nil {
		log.Fatal("register stock resolver", zap.Error(err))
	}
	if err := registry.Register("lcsbot", payload.GameLCS, resolver.NewLCSHandler(qcache)); err != nil {
		log.Fatal("register lcs resolver", zap.Error(err))
	}

	counters := metrics.NewLedgerCounters("settlement_worker")

	svc := &settlement.Service{
		Log:      log,
		Store:    ledgerStore,
		Registry: registry,
		Timeout:  cfg.ResolverTimeout,
		Publ:     producer.NewKafkaPublisher(nil, settledWriter),
		OnSettled: func(won bool) {
			r := "lost"
			if won {
				r = "won"
			}
			counters.Settled.WithLabelValues(r).Inc()
		},
		OnError: func(stage string) { counters.Errors.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas Prometheus e healthcheck
	metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicWagerPlaced),
		zap.String("publish", cfg.TopicWagerSettled),
	)

	ctx := context.Background()

	// Loop principal: consome wager_placed e tenta liquidar cada aposta
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var placed ev.WagerPlaced
		if jerr := json.Unmarshal(msg.Value, &placed); jerr != nil {
			log.Error("unmarshal wager_placed", zap.Error(jerr))
			continue
		}

		if err := settleOne(ctx, log, svc, dlqWriter, &placed); err != nil {
			log.Error("settle wager",
				zap.String("game", placed.Game),
				zap.String("user", placed.User),
				zap.String("target", placed.Target),
				zap.Error(err),
			)
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// settleOne tenta liquidar uma aposta recém-colocada:
// 1. Roteia a aposta para o resolver (fonte de cotação/resultado no Redis)
// 2. Aplica o resultado no store (remove pendente, grava resolvida)
// 3. Em falha transiente, tenta de novo; esgotadas as tentativas, manda pra DLQ
// Aposta já liquidada/cancelada por outro caminho não é erro.
func settleOne(
	ctx context.Context,
	log *zap.Logger,
	svc *settlement.Service,
	dlqWriter *kafkago.Writer,
	placed *ev.WagerPlaced,
) error {
	key := ledger.Key{Game: placed.Game, User: placed.User, Target: placed.Target}

	rec, err := svc.Settle(ctx, key, nil)
	if err != nil {
		if errors.Is(err, store.ErrNoSuchPendingBet) {
			log.Info("wager already settled or cancelled", zap.String("key", key.String()))
			return nil
		}
		// Retry simples: cotação/resultado pode ainda não existir no cache
		const retries = 3
		for i := 0; i < retries; i++ {
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			if rec, err = svc.Settle(ctx, key, nil); err == nil {
				break
			}
			if errors.Is(err, store.ErrNoSuchPendingBet) {
				return nil
			}
		}
		if err != nil {
			b, _ := json.Marshal(placed)
			_ = sharedkafka.WriteJSON(ctx, dlqWriter, key.String(), b)
			return err
		}
	}

	log.Info("wager settled",
		zap.String("record", rec.ID),
		zap.String("key", key.String()),
		zap.Bool("won", rec.Outcome.Won),
		zap.Int64("delta", rec.Outcome.Delta),
	)
	return nil
}
