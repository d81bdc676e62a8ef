// Package domain contains the core domain types for the pricing context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single ETH/USD price point with provenance.
type Quote struct {
	Rate      decimal.Decimal
	Source    string // "etherscan", "coingecko", "cache", "fallback"
	FetchedAt time.Time
}

// NewQuote creates a quote stamped with the given time.
func NewQuote(rate decimal.Decimal, source string, at time.Time) Quote {
	return Quote{Rate: rate, Source: source, FetchedAt: at}
}

// Age returns how old the quote is relative to now.
func (q Quote) Age(now time.Time) time.Duration {
	return now.Sub(q.FetchedAt)
}

// Fresh reports whether the quote is within the given TTL.
func (q Quote) Fresh(now time.Time, ttl time.Duration) bool {
	if q.FetchedAt.IsZero() {
		return false
	}
	return q.Age(now) < ttl
}

// Zero reports whether the quote carries no usable rate.
func (q Quote) Zero() bool {
	return q.Rate.IsZero() && q.FetchedAt.IsZero()
}
