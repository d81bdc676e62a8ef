// Package coingecko implements a PriceSource backed by the CoinGecko simple price API.
package coingecko

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/business/pricing/app"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/circuitbreaker"
	"github.com/fd1az/ramp-engine/internal/httpclient"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/ratelimit"
)

// Ensure Provider implements PriceSource.
var _ app.PriceSource = (*Provider)(nil)

const defaultBaseURL = "https://api.coingecko.com"

// ProviderConfig holds configuration for the CoinGecko provider.
type ProviderConfig struct {
	BaseURL           string // REST base URL (empty = public endpoint)
	RequestsPerMinute int    // keyless tier is roughly 10-30/min
	RequestTimeout    time.Duration
}

// DefaultProviderConfig returns defaults safe for the keyless tier.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		RequestsPerMinute: 10,
		RequestTimeout:    10 * time.Second,
	}
}

// simplePriceResponse is the /simple/price payload keyed by coin id.
type simplePriceResponse map[string]struct {
	USD decimal.Decimal `json:"usd"`
}

// Provider fetches the ETH/USD rate from CoinGecko. It needs no API key,
// which makes it the fallback of choice.
type Provider struct {
	config  ProviderConfig
	logger  logger.LoggerInterface
	client  *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[decimal.Decimal]
}

// NewProvider creates a CoinGecko price provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	client, err := httpclient.New(
		httpclient.WithProviderName("coingecko"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:  cfg,
		logger:  log,
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[decimal.Decimal](circuitbreaker.DefaultConfig("coingecko")),
	}, nil
}

// Name identifies this source.
func (p *Provider) Name() string { return "coingecko" }

// FetchUSDPrice returns the current ETH price in USD.
func (p *Provider) FetchUSDPrice(ctx context.Context) (decimal.Decimal, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	return p.breaker.Execute(func() (decimal.Decimal, error) {
		var resp simplePriceResponse
		err := p.client.GetJSON(ctx, "/api/v3/simple/price", map[string]string{
			"ids":           "ethereum",
			"vs_currencies": "usd",
		}, &resp)
		if err != nil {
			return decimal.Zero, apperror.External(apperror.CodePriceFetchFailed, "coingecko simple/price", err)
		}

		entry, ok := resp["ethereum"]
		if !ok {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithContext("coingecko response missing ethereum entry"))
		}
		if !entry.USD.IsPositive() {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithContext("coingecko usd rate not positive: "+entry.USD.String()))
		}
		return entry.USD, nil
	})
}
