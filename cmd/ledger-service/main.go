package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
	"github.com/radieske/chat-wager-ledger/internal/ledger/producer"
	"github.com/radieske/chat-wager-ledger/internal/ledger/resolver"
	"github.com/radieske/chat-wager-ledger/internal/ledger/store"
	lhttp "github.com/radieske/chat-wager-ledger/internal/ledger-service/http"
	"github.com/radieske/chat-wager-ledger/internal/quotes"
	"github.com/radieske/chat-wager-ledger/internal/riot"
	"github.com/radieske/chat-wager-ledger/internal/settlement"
	sharedcache "github.com/radieske/chat-wager-ledger/internal/shared/cache"
	"github.com/radieske/chat-wager-ledger/internal/shared/config"
	"github.com/radieske/chat-wager-ledger/internal/shared/db"
	sharedkafka "github.com/radieske/chat-wager-ledger/internal/shared/kafka"
	"github.com/radieske/chat-wager-ledger/internal/shared/logger"
	"github.com/radieske/chat-wager-ledger/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers (wager_placed e wager_settled)
	placedWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
	defer placedWriter.Close()
	settledWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	defer settledWriter.Close()

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

	counters := metrics.NewLedgerCounters("ledger_api")
	publ := producer.NewKafkaPublisher(placedWriter, settledWriter)

	svc := &settlement.Service{
		Log:         log,
		Store:       ledgerStore,
		Registry:    registry,
		Timeout:     cfg.ResolverTimeout,
		Publ:        publ,
		OnPlaced:    func() { counters.Placed.Inc() },
		OnSettled:   func(won bool) { counters.Settled.WithLabelValues(result(won)).Inc() },
		OnCancelled: func() { counters.Cancelled.Inc() },
		OnError:     func(stage string) { counters.Errors.WithLabelValues(stage).Inc() },
	}

	riotClient := riot.New(cfg.RiotAPIBase, cfg.RiotAPIKey)

	// HTTP público
	api := lhttp.NewServer(log, svc, codec, riotClient, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
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

	log.Info("ledger-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

func result(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}
