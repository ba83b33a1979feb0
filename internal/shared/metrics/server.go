package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthFunc func(ctx context.Context) error

// StartServer sobe um servidor HTTP leve só pra /metrics e /healthz.
// Executável numa goroutine no main de cada serviço.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}

// LedgerCounters agrupa as métricas do caminho de aposta/liquidação.
type LedgerCounters struct {
	Placed    prometheus.Counter
	Settled   *prometheus.CounterVec // label result: "won" | "lost"
	Cancelled prometheus.Counter
	Errors    *prometheus.CounterVec // label stage: place|load|route|resolve|settle|cancel|publish
}

// NewLedgerCounters cria e registra os contadores com o prefixo do serviço.
func NewLedgerCounters(prefix string) *LedgerCounters {
	c := &LedgerCounters{
		Placed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_wagers_placed_total", Help: "apostas aceitas no ledger"}),
		Settled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_wagers_settled_total", Help: "apostas liquidadas por resultado"}, []string{"result"}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_wagers_cancelled_total", Help: "apostas canceladas"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_errors_total", Help: "erros por estágio"}, []string{"stage"}),
	}
	prometheus.MustRegister(c.Placed, c.Settled, c.Cancelled, c.Errors)
	return c
}
