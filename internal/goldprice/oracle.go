// Package goldprice keeps a cached per-gram gold price backed by an external
// quote feed. Callers always get a usable number: feed failures degrade to a
// fixed fallback price instead of an error.
package goldprice

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Minute

var (
	// GramsPerTroyOunce is a physical constant, not a setting.
	GramsPerTroyOunce = decimal.RequireFromString("31.1035")

	FallbackPricePerGram = decimal.RequireFromString("65.0")
)

type Origin string

const (
	OriginCache    Origin = "cache"
	OriginFeed     Origin = "feed"
	OriginFallback Origin = "fallback"
)

// Quote is a unit price together with where it came from.
type Quote struct {
	PricePerGram decimal.Decimal
	Origin       Origin
	At           time.Time
}

type Option func(*Oracle)

func WithTTL(ttl time.Duration) Option {
	return func(o *Oracle) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Oracle) { o.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *Oracle) {
		if log != nil {
			o.log = log
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *Oracle) { o.metrics = m }
}

// Oracle owns a single cached price cell. The lock is held across the
// check-refresh-store sequence so concurrent callers trigger one fetch.
type Oracle struct {
	feed    Feed
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
	metrics *Metrics

	mu        sync.Mutex
	value     decimal.Decimal
	fetchedAt time.Time
	cached    bool
}

func NewOracle(feed Feed, opts ...Option) *Oracle {
	o := &Oracle{
		feed: feed,
		ttl:  DefaultTTL,
		now:  time.Now,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// UnitPrice returns the price per gram, never failing.
func (o *Oracle) UnitPrice(ctx context.Context) decimal.Decimal {
	return o.Quote(ctx).PricePerGram
}

func (o *Oracle) Quote(ctx context.Context) Quote {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if o.cached && now.Sub(o.fetchedAt) < o.ttl {
		o.metrics.cacheHit()
		return Quote{PricePerGram: o.value, Origin: OriginCache, At: o.fetchedAt}
	}

	ounce, err := o.feed.OuncePrice(ctx)
	if err != nil {
		o.log.Warn("gold price fetch failed, using fallback",
			zap.Error(err),
			zap.String("fallback_per_gram", FallbackPricePerGram.String()),
		)
		o.metrics.fetched(false)
		o.metrics.fallback()
		return Quote{PricePerGram: FallbackPricePerGram, Origin: OriginFallback, At: now}
	}

	perGram := ounce.Div(GramsPerTroyOunce)
	o.value = perGram
	o.fetchedAt = now
	o.cached = true

	o.metrics.fetched(true)
	o.metrics.observe(perGram)
	o.log.Debug("gold price refreshed",
		zap.String("per_ounce", ounce.String()),
		zap.String("per_gram", perGram.StringFixed(4)),
	)
	return Quote{PricePerGram: perGram, Origin: OriginFeed, At: now}
}

// Reset empties the cache so the next call fetches.
func (o *Oracle) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = decimal.Zero
	o.fetchedAt = time.Time{}
	o.cached = false
}
