// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/fd1az/ramp-engine/business/ledger/app"
	"github.com/fd1az/ramp-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Wallet = di.NewToken[*app.Wallet]("ledger.Wallet")
)

// Helper functions for type-safe access
func GetWallet(c di.ServiceRegistry) *app.Wallet {
	return di.GetToken(c, Wallet)
}
