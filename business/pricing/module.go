// Package pricing implements the pricing bounded context for ETH/USD quotes.
package pricing

import (
	"context"

	"github.com/fd1az/ramp-engine/business/pricing/app"
	pricingDI "github.com/fd1az/ramp-engine/business/pricing/di"
	"github.com/fd1az/ramp-engine/business/pricing/infra/coingecko"
	"github.com/fd1az/ramp-engine/business/pricing/infra/etherscan"
	"github.com/fd1az/ramp-engine/internal/config"
	"github.com/fd1az/ramp-engine/internal/di"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register price sources (private - internal dependency)
	di.RegisterToken(c, pricingDI.Sources, func(sr di.ServiceRegistry) []app.PriceSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var sources []app.PriceSource

		// Etherscan is primary but needs an API key; without one we go
		// straight to CoinGecko.
		if cfg.Pricing.EtherscanAPIKey != "" {
			esCfg := etherscan.DefaultProviderConfig(cfg.Pricing.EtherscanAPIKey)
			esCfg.BaseURL = cfg.Pricing.EtherscanURL
			esCfg.RequestsPerMinute = cfg.Pricing.RequestsPerMinute

			es, err := etherscan.NewProvider(esCfg, log)
			if err != nil {
				panic("failed to create etherscan provider: " + err.Error())
			}
			sources = append(sources, es)
		} else {
			log.Warn(context.Background(), "no etherscan API key configured, skipping primary price source")
		}

		cgCfg := coingecko.DefaultProviderConfig()
		cgCfg.BaseURL = cfg.Pricing.CoinGeckoURL

		cg, err := coingecko.NewProvider(cgCfg, log)
		if err != nil {
			panic("failed to create coingecko provider: " + err.Error())
		}
		sources = append(sources, cg)

		return sources
	})

	// Register Oracle (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.Oracle, func(sr di.ServiceRegistry) *app.Oracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		sources := pricingDI.GetSources(sr)

		oracleCfg := app.OracleConfig{
			CacheTTL:      cfg.Pricing.CacheTTL,
			FallbackPrice: cfg.Pricing.FallbackPriceDecimal(),
		}
		return app.NewOracle(oracleCfg, log, sources...)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	oracle := pricingDI.GetOracle(mono.Services())

	// Warm the cache and keep it warm in the background.
	q := oracle.GetPrice(ctx)
	log.Info(ctx, "pricing module started", "rate", q.Rate.String(), "source", q.Source)

	go oracle.Run(ctx)

	return nil
}
