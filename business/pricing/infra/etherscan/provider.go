// Package etherscan implements a PriceSource backed by the Etherscan stats API.
package etherscan

import (
	"context"
	"fmt"
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

const defaultBaseURL = "https://api.etherscan.io"

// ProviderConfig holds configuration for the Etherscan provider.
type ProviderConfig struct {
	BaseURL           string // REST base URL (empty = public endpoint)
	APIKey            string // required; the free tier rejects keyless calls
	RequestsPerMinute int    // free tier allows 5/sec, keep a margin
	RequestTimeout    time.Duration
}

// DefaultProviderConfig returns sensible defaults for the free tier.
func DefaultProviderConfig(apiKey string) ProviderConfig {
	return ProviderConfig{
		APIKey:            apiKey,
		RequestsPerMinute: 100,
		RequestTimeout:    10 * time.Second,
	}
}

// ethPriceResponse is the etherscan stats/ethprice payload.
type ethPriceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		EthBTC          string `json:"ethbtc"`
		EthUSD          string `json:"ethusd"`
		EthUSDTimestamp string `json:"ethusd_timestamp"`
	} `json:"result"`
}

// Provider fetches the ETH/USD rate from Etherscan.
type Provider struct {
	config  ProviderConfig
	logger  logger.LoggerInterface
	client  *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[decimal.Decimal]
}

// NewProvider creates an Etherscan price provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, apperror.New(apperror.CodePriceSourceInvalid,
			apperror.WithContext("etherscan requires an API key"))
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 100
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	client, err := httpclient.New(
		httpclient.WithProviderName("etherscan"),
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
		breaker: circuitbreaker.New[decimal.Decimal](circuitbreaker.DefaultConfig("etherscan")),
	}, nil
}

// Name identifies this source.
func (p *Provider) Name() string { return "etherscan" }

// FetchUSDPrice returns the current ETH price in USD.
func (p *Provider) FetchUSDPrice(ctx context.Context) (decimal.Decimal, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	return p.breaker.Execute(func() (decimal.Decimal, error) {
		var resp ethPriceResponse
		err := p.client.GetJSON(ctx, "/api", map[string]string{
			"module": "stats",
			"action": "ethprice",
			"apikey": p.config.APIKey,
		}, &resp)
		if err != nil {
			return decimal.Zero, apperror.External(apperror.CodePriceFetchFailed, "etherscan ethprice", err)
		}

		// The API reports errors in-band with a 200 status.
		if resp.Status != "1" || resp.Message != "OK" {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithContext(fmt.Sprintf("etherscan status %q message %q", resp.Status, resp.Message)))
		}
		if resp.Result.EthUSD == "" {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithContext("etherscan response missing ethusd"))
		}

		rate, err := decimal.NewFromString(resp.Result.EthUSD)
		if err != nil {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("etherscan ethusd %q not numeric", resp.Result.EthUSD)))
		}
		if !rate.IsPositive() {
			return decimal.Zero, apperror.New(apperror.CodePriceSourceInvalid,
				apperror.WithContext(fmt.Sprintf("etherscan ethusd %s not positive", rate)))
		}
		return rate, nil
	})
}
