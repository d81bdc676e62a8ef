package apperror

import (
	"context"
	"errors"
	"strings"
)

// ClassifyBroadcast maps a wallet/provider broadcast failure onto one of the
// user-facing broadcast codes. Matching is by message pattern since provider
// errors are not typed; anything unrecognized collapses to
// CodeTransactionFailed.
func ClassifyBroadcast(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeBroadcastCancelled, CodeInsufficientBalance,
			CodeBroadcastNetworkError, CodeTransactionFailed:
			return appErr
		}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.Canceled),
		strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"),
		strings.Contains(msg, "rejected by user"),
		strings.Contains(msg, "cancelled"),
		strings.Contains(msg, "canceled"):
		return New(CodeBroadcastCancelled, WithCause(err))

	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient balance"),
		strings.Contains(msg, "exceeds balance"):
		return New(CodeInsufficientBalance, WithCause(err))

	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "gas"),
		strings.Contains(msg, "nonce"),
		strings.Contains(msg, "network"):
		return New(CodeBroadcastNetworkError, WithCause(err))

	default:
		return New(CodeTransactionFailed, WithCause(err))
	}
}
