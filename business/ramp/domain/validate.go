package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/internal/apperror"
)

// AmountLimits bounds the accepted fiat amount in USD.
type AmountLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// DefaultAmountLimits returns the standard $1..$1,000,000 range.
func DefaultAmountLimits() AmountLimits {
	return AmountLimits{
		Min: decimal.NewFromInt(1),
		Max: decimal.NewFromInt(1_000_000),
	}
}

// ParseFiatAmount validates a user-entered USD amount. A non-numeric
// input is a distinct error from an out-of-range one.
func ParseFiatAmount(input string, limits AmountLimits) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, apperror.Validation(apperror.CodeAmountRequired, "amount is empty")
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeAmountNotNumeric,
			apperror.WithCause(err),
			apperror.WithContext("amount "+trimmed+" is not a number"))
	}

	if amount.LessThan(limits.Min) {
		return decimal.Zero, apperror.Validation(apperror.CodeAmountBelowMin,
			"amount "+amount.String()+" below minimum "+limits.Min.String())
	}
	if amount.GreaterThan(limits.Max) {
		return decimal.Zero, apperror.Validation(apperror.CodeAmountAboveMax,
			"amount "+amount.String()+" above maximum "+limits.Max.String())
	}

	return amount, nil
}

// IsChainAddress reports whether the destination is a plain hex address.
// Anything else is treated as a name needing resolution.
func IsChainAddress(destination string) bool {
	return common.IsHexAddress(destination)
}
