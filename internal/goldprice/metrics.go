package goldprice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics is optional; a nil *Metrics records nothing.
type Metrics struct {
	Fetches   *prometheus.CounterVec
	Fallbacks prometheus.Counter
	CacheHits prometheus.Counter
	PerGram   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gold_feed_fetch_total",
			Help: "Gold feed fetch attempts by result",
		}, []string{"result"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gold_price_fallback_total",
			Help: "Unit price lookups served by the fallback constant",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gold_price_cache_hits_total",
			Help: "Unit price lookups served from cache",
		}),
		PerGram: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gold_price_per_gram",
			Help: "Last price per gram fetched from the feed",
		}),
	}
	reg.MustRegister(m.Fetches, m.Fallbacks, m.CacheHits, m.PerGram)
	return m
}

func (m *Metrics) fetched(ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.Fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) fallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) observe(perGram decimal.Decimal) {
	if m != nil {
		m.PerGram.Set(perGram.InexactFloat64())
	}
}
