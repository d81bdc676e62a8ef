// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/ramp-engine/business/pricing/app"
	"github.com/fd1az/ramp-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Oracle = di.NewToken[*app.Oracle]("pricing.Oracle")
)

// Private dependency tokens - internal to pricing module
var (
	Sources = di.NewToken[[]app.PriceSource]("pricing:sources")
)

// Helper functions for type-safe access
func GetOracle(c di.ServiceRegistry) *app.Oracle {
	return di.GetToken(c, Oracle)
}

func GetSources(c di.ServiceRegistry) []app.PriceSource {
	return di.GetToken(c, Sources)
}
