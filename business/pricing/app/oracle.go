package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/ramp-engine/business/pricing/domain"
	"github.com/fd1az/ramp-engine/internal/logger"
)

const tracerName = "github.com/fd1az/ramp-engine/business/pricing"

// SourceFallback marks a quote produced from the hardcoded rate.
const SourceFallback = "fallback"

// SourceCache marks a quote served from the stale cache.
const SourceCache = "cache"

// OracleConfig holds configuration for the price oracle.
type OracleConfig struct {
	CacheTTL      time.Duration   // how long a fetched quote stays fresh
	FallbackPrice decimal.Decimal // rate of last resort, never zero
}

// DefaultOracleConfig returns sensible defaults.
func DefaultOracleConfig() OracleConfig {
	return OracleConfig{
		CacheTTL:      60 * time.Second,
		FallbackPrice: decimal.NewFromInt(2000),
	}
}

// Oracle serves ETH/USD quotes from an ordered list of sources with a
// TTL cache in front. GetPrice never fails: when every source errors it
// degrades to the stale cache, then to the hardcoded fallback rate.
type Oracle struct {
	config  OracleConfig
	logger  logger.LoggerInterface
	sources []PriceSource
	cache   *domain.Cache
	now     func() time.Time
	tracer  trace.Tracer
}

// NewOracle creates an oracle over the given sources, tried in order.
func NewOracle(cfg OracleConfig, log logger.LoggerInterface, sources ...PriceSource) *Oracle {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 60 * time.Second
	}
	if cfg.FallbackPrice.IsZero() {
		cfg.FallbackPrice = decimal.NewFromInt(2000)
	}
	return &Oracle{
		config:  cfg,
		logger:  log,
		sources: sources,
		cache:   domain.NewCache(cfg.CacheTTL),
		now:     time.Now,
		tracer:  otel.Tracer(tracerName),
	}
}

// WithClock overrides the oracle clock, for tests.
func (o *Oracle) WithClock(now func() time.Time) *Oracle {
	o.now = now
	o.cache = domain.NewCacheWithClock(o.config.CacheTTL, now)
	return o
}

// GetPrice returns the current ETH/USD quote. It always returns a
// usable rate.
func (o *Oracle) GetPrice(ctx context.Context) domain.Quote {
	ctx, span := o.tracer.Start(ctx, "pricing.get_price")
	defer span.End()

	if q, ok := o.cache.Get(); ok {
		span.SetAttributes(
			attribute.String("source", q.Source),
			attribute.Bool("cache_hit", true),
		)
		return q
	}

	for _, src := range o.sources {
		rate, err := src.FetchUSDPrice(ctx)
		if err != nil {
			o.logger.Warn(ctx, "price source failed", "source", src.Name(), "error", err)
			continue
		}
		if !rate.IsPositive() {
			o.logger.Warn(ctx, "price source returned non-positive rate",
				"source", src.Name(), "rate", rate.String())
			continue
		}

		q := domain.NewQuote(rate, src.Name(), o.now())
		o.cache.Put(q)

		span.SetAttributes(
			attribute.String("source", q.Source),
			attribute.String("rate", rate.String()),
		)
		o.logger.Debug(ctx, "price fetched", "source", q.Source, "rate", rate.String())
		return q
	}

	// Every source failed. A stale quote beats the hardcoded rate.
	if q, ok := o.cache.Last(); ok {
		o.logger.Warn(ctx, "all price sources failed, serving stale quote",
			"rate", q.Rate.String(), "age", q.Age(o.now()).String())
		span.SetAttributes(attribute.String("source", SourceCache))
		return domain.NewQuote(q.Rate, SourceCache, q.FetchedAt)
	}

	o.logger.Warn(ctx, "all price sources failed with empty cache, using fallback rate",
		"rate", o.config.FallbackPrice.String())
	span.SetAttributes(attribute.String("source", SourceFallback))
	return domain.NewQuote(o.config.FallbackPrice, SourceFallback, o.now())
}

// Run refreshes the cache on the TTL interval until the context ends.
// The oracle works without it; this just keeps quotes warm.
func (o *Oracle) Run(ctx context.Context) {
	ticker := time.NewTicker(o.config.CacheTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.GetPrice(ctx)
		}
	}
}
