// Package ramp implements the on/off-ramp bounded context: deposit
// monitoring, the send flow, and status reconciliation.
package ramp

import (
	"context"

	ledgerDI "github.com/fd1az/ramp-engine/business/ledger/di"
	pricingDI "github.com/fd1az/ramp-engine/business/pricing/di"
	"github.com/fd1az/ramp-engine/business/ramp/app"
	rampDI "github.com/fd1az/ramp-engine/business/ramp/di"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/business/ramp/infra/ethereum"
	"github.com/fd1az/ramp-engine/internal/config"
	"github.com/fd1az/ramp-engine/internal/di"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/monolith"
)

// SignerServiceKey is the container key under which the entrypoint may
// register an ethereum.SignerFn. A nil or absent signer disables sends.
const SignerServiceKey = "rampSigner"

// Module implements the ramp bounded context.
type Module struct{}

// RegisterServices registers all ramp services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Signer default: absent unless the entrypoint overrides it.
	c.Register(SignerServiceKey, ethereum.SignerFn(nil))

	// Register chain client (private - internal dependency)
	di.RegisterToken(c, rampDI.ChainClient, func(sr di.ServiceRegistry) *ethereum.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		clientCfg := ethereum.DefaultClientConfig(cfg.Ethereum.WebSocketURL, cfg.Ethereum.HTTPURL)
		if cfg.Ethereum.PollInterval > 0 {
			clientCfg.PollInterval = cfg.Ethereum.PollInterval
		}
		if cfg.Ethereum.ReconnectDelay > 0 {
			clientCfg.ReconnectDelay = cfg.Ethereum.ReconnectDelay
		}
		if cfg.Ethereum.RPCPerMinute > 0 {
			clientCfg.RPCPerMinute = cfg.Ethereum.RPCPerMinute
		}
		if cfg.Ramp.ReceiptBuffer > 0 {
			clientCfg.BufferSize = cfg.Ramp.ReceiptBuffer
		}

		client, err := ethereum.NewClient(clientCfg, log)
		if err != nil {
			panic("failed to create chain client: " + err.Error())
		}
		return client
	})

	// Register notifier (private - internal dependency)
	di.RegisterToken(c, rampDI.Notifier, func(sr di.ServiceRegistry) app.Notifier {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewLogNotifier(log)
	})

	// Register Reconciler (public - exposed to other modules)
	di.RegisterToken(c, rampDI.Reconciler, func(sr di.ServiceRegistry) *app.Reconciler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewReconciler(
			app.ReconcilerConfig{ChainID: cfg.Ethereum.ChainID},
			log,
			ledgerDI.GetWallet(sr),
			rampDI.GetChainClient(sr),
			rampDI.GetNotifier(sr),
		)
	})

	// Register Monitor (public - exposed to other modules)
	di.RegisterToken(c, rampDI.Monitor, func(sr di.ServiceRegistry) *app.Monitor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		monitorCfg := app.MonitorConfig{
			Lookback: cfg.Ramp.ScanLookback,
			ChainID:  cfg.Ethereum.ChainID,
		}
		return app.NewMonitor(monitorCfg, log, rampDI.GetChainClient(sr), ledgerDI.GetWallet(sr))
	})

	// Register Sender (public - exposed to other modules)
	di.RegisterToken(c, rampDI.Sender, func(sr di.ServiceRegistry) *app.Sender {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := rampDI.GetChainClient(sr)

		var broadcaster app.Broadcaster = ethereum.Disabled{}
		if signer, ok := sr.Get(SignerServiceKey).(ethereum.SignerFn); ok && signer != nil {
			from, _ := cfg.Ramp.ReceiveAddressHex()
			broadcaster = ethereum.NewBroadcaster(
				ethereum.BroadcasterConfig{From: from, ChainID: cfg.Ethereum.ChainID},
				log, client, signer,
			)
		}

		var resolver app.NameResolver
		if cfg.Ramp.EnableENS {
			resolver = ethereum.NewResolver(
				ethereum.ResolverConfig{Registry: cfg.Ramp.ENSRegistryHex()},
				log, client,
			)
		}

		senderCfg := app.SenderConfig{
			Limits: domain.AmountLimits{
				Min: cfg.Ramp.MinUSDDecimal(),
				Max: cfg.Ramp.MaxUSDDecimal(),
			},
		}
		return app.NewSender(
			senderCfg,
			log,
			pricingDI.GetOracle(sr),
			ledgerDI.GetWallet(sr),
			broadcaster,
			resolver,
			rampDI.GetReconciler(sr),
		)
	})

	return nil
}

// Startup connects the chain client and starts the deposit monitor.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	client := rampDI.GetChainClient(mono.Services())
	if err := client.Connect(ctx); err != nil {
		return err
	}

	monitor := rampDI.GetMonitor(mono.Services())
	go func() {
		if err := monitor.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(ctx, "deposit monitor stopped", "error", err)
		}
	}()

	// Force sender construction so wiring errors surface at startup.
	rampDI.GetSender(mono.Services())

	log.Info(ctx, "ramp module started")
	return nil
}
