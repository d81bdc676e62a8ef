// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource fetches the current ETH/USD rate from one upstream.
type PriceSource interface {
	// Name identifies the source in logs and quote provenance.
	Name() string

	// FetchUSDPrice returns the current ETH price in USD. A non-positive
	// rate is an error, never a valid answer.
	FetchUSDPrice(ctx context.Context) (decimal.Decimal, error)
}
