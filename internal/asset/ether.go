// Package asset provides decimal conversions between chain-native wei and
// display units.
package asset

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimal places in one ether.
const EtherDecimals = 18

var (
	// ErrNegativeAmount is returned when converting a negative ether value to wei.
	ErrNegativeAmount = errors.New("asset: negative amount")

	weiPerEther = decimal.New(1, EtherDecimals)
)

// FromWei converts a wei quantity to an ether decimal. A nil value converts
// to zero.
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, 0).Div(weiPerEther)
}

// ToWei converts an ether decimal to wei, truncating sub-wei precision.
func ToWei(ether decimal.Decimal) (*big.Int, error) {
	if ether.IsNegative() {
		return nil, ErrNegativeAmount
	}
	return ether.Mul(weiPerEther).Truncate(0).BigInt(), nil
}
