// Package domain contains the core domain types for the ledger context.
package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Direction indicates which way value moves relative to the wallet.
type Direction string

const (
	// DirectionInbound is an on-ramp transfer arriving at the receiving address.
	DirectionInbound Direction = "inbound"
	// DirectionOutbound is an off-ramp transfer sent from the wallet.
	DirectionOutbound Direction = "outbound"
)

// Valid reports whether the direction is a known value.
func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Transaction is a locally tracked record of one transfer and its
// confirmation lifecycle.
type Transaction struct {
	ID           string
	Direction    Direction
	ChainAmount  decimal.Decimal // chain-native unit (ETH)
	FiatAmount   decimal.Decimal // display currency, captured at creation; zero when not captured
	Status       Status
	CreatedAt    time.Time
	Counterparty common.Address // destination for outbound, receiving address for inbound
	TxHash       string         // sole external correlation key; may be empty pre-broadcast
}

// NormalizedHash returns the lower-cased transaction hash used for
// case-insensitive dedup, or empty when the transaction has no hash.
func (t Transaction) NormalizedHash() string {
	return NormalizeHash(t.TxHash)
}

// HasFiatAmount reports whether a fiat value was captured at creation.
func (t Transaction) HasFiatAmount() bool {
	return !t.FiatAmount.IsZero()
}

// NormalizeHash lower-cases a hash for use as a correlation key.
func NormalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}
