package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumSubscribeFailed:  "Failed to subscribe to Ethereum events",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeBlockNotFound:            "Block not found",
	CodeReceiptNotFound:          "Transaction receipt not available",

	// Send flow validation errors
	CodeInvalidAddress:   "Invalid Ethereum address format",
	CodeAmountRequired:   "Amount is required",
	CodeAmountNotNumeric: "Invalid number",
	CodeAmountBelowMin:   "Minimum amount is $1",
	CodeAmountAboveMax:   "Amount exceeds maximum limit",

	// Name resolution errors
	CodeNameNotFound:         "Name is not registered",
	CodeNameResolutionFailed: "Name lookup failed",

	// Broadcast errors
	CodeBroadcastCancelled:    "Transaction was cancelled",
	CodeInsufficientBalance:   "Insufficient balance",
	CodeBroadcastNetworkError: "Network error, please try again",
	CodeTransactionFailed:     "Transaction failed, try again",

	// Ledger errors
	CodeWalletNotConnected: "No wallet connected",
	CodeDuplicateEntry:     "Transaction already recorded",

	// Price oracle errors
	CodePriceFetchFailed:   "Failed to fetch reference price",
	CodePriceSourceInvalid: "Price source returned invalid data",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}

// UserMessage returns the user-facing message for an error. Unclassified
// errors collapse to the generic transaction-failed message so raw provider
// detail never reaches the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := messages[GetCode(err)]; ok {
		return msg
	}
	return messages[CodeTransactionFailed]
}
