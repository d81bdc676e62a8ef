// Package ledger implements the transaction ledger bounded context.
package ledger

import (
	"context"

	"github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerDI "github.com/fd1az/ramp-engine/business/ledger/di"
	"github.com/fd1az/ramp-engine/internal/di"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/monolith"
)

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, ledgerDI.Wallet, func(sr di.ServiceRegistry) *app.Wallet {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewWallet(log)
	})
	return nil
}

// Startup initializes the ledger module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	wallet := ledgerDI.GetWallet(mono.Services())

	// A configured receiving address connects the wallet up front;
	// otherwise the engine idles until an embedder calls Connect.
	if addr, ok := mono.Config().Ramp.ReceiveAddressHex(); ok {
		wallet.Connect(addr)
	}

	mono.Logger().Info(ctx, "ledger module started")
	return nil
}
