package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChainCacheHits     prometheus.Counter
	ChainCacheMisses   prometheus.Counter
	FeeResolveDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ChainCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_chain_cache_hits_total",
			Help: "Ancestor-chain lookups served from cache",
		}),
		ChainCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_chain_cache_misses_total",
			Help: "Ancestor-chain lookups that fell through to the store",
		}),
		FeeResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rinkside_fee_resolve_duration_seconds",
			Help:    "Duration of fee breakdown resolution (summary critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncChainCacheHit()  { m.ChainCacheHits.Inc() }
func (m *Metrics) IncChainCacheMiss() { m.ChainCacheMisses.Inc() }

func (m *Metrics) ObserveFeeResolve(start time.Time) {
	m.FeeResolveDuration.Observe(time.Since(start).Seconds())
}
