package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (nopLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type stubSource struct {
	name  string
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchUSDPrice(ctx context.Context) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.rate, nil
}

func newTestOracle(t *testing.T, clock *time.Time, sources ...PriceSource) *Oracle {
	t.Helper()
	o := NewOracle(DefaultOracleConfig(), nopLogger{}, sources...)
	return o.WithClock(func() time.Time { return *clock })
}

func TestOracle_PrimaryWins(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", rate: decimal.NewFromInt(1800)}
	fallback := &stubSource{name: "coingecko", rate: decimal.NewFromInt(1900)}

	o := newTestOracle(t, &clock, primary, fallback)

	q := o.GetPrice(context.Background())
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, "etherscan", q.Source)
	assert.Zero(t, fallback.calls, "fallback must not be consulted when primary succeeds")
}

func TestOracle_FallbackSourceOnPrimaryFailure(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", err: errors.New("rate limited")}
	fallback := &stubSource{name: "coingecko", rate: decimal.NewFromInt(1900)}

	o := newTestOracle(t, &clock, primary, fallback)

	q := o.GetPrice(context.Background())
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1900)))
	assert.Equal(t, "coingecko", q.Source)
}

func TestOracle_StaleCacheBeatsHardcodedFallback(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", rate: decimal.NewFromInt(1850)}

	o := newTestOracle(t, &clock, primary)

	q := o.GetPrice(context.Background())
	require.True(t, q.Rate.Equal(decimal.NewFromInt(1850)))

	// TTL passes and the source starts failing
	clock = clock.Add(2 * time.Minute)
	primary.err = errors.New("upstream down")

	q = o.GetPrice(context.Background())
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1850)), "stale quote must be served")
	assert.Equal(t, SourceCache, q.Source)
}

func TestOracle_HardcodedFallbackWhenNothingElse(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", err: errors.New("down")}
	secondary := &stubSource{name: "coingecko", err: errors.New("down too")}

	o := newTestOracle(t, &clock, primary, secondary)

	q := o.GetPrice(context.Background())
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, SourceFallback, q.Source)
}

func TestOracle_CacheServesWithinTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", rate: decimal.NewFromInt(1800)}

	o := newTestOracle(t, &clock, primary)

	o.GetPrice(context.Background())
	clock = clock.Add(30 * time.Second)
	o.GetPrice(context.Background())

	assert.Equal(t, 1, primary.calls, "second call within TTL must hit the cache")

	clock = clock.Add(31 * time.Second)
	o.GetPrice(context.Background())
	assert.Equal(t, 2, primary.calls, "expired cache must trigger a refetch")
}

func TestOracle_NonPositiveRateRejected(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	primary := &stubSource{name: "etherscan", rate: decimal.Zero}
	fallback := &stubSource{name: "coingecko", rate: decimal.NewFromInt(1900)}

	o := newTestOracle(t, &clock, primary, fallback)

	q := o.GetPrice(context.Background())
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1900)))
}
