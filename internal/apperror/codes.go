package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Ramp-specific error codes
const (
	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumSubscribeFailed  Code = "ETHEREUM_SUBSCRIBE_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeBlockNotFound            Code = "BLOCK_NOT_FOUND"
	CodeReceiptNotFound          Code = "RECEIPT_NOT_FOUND"

	// Send flow validation errors
	CodeInvalidAddress   Code = "INVALID_ADDRESS"
	CodeAmountRequired   Code = "AMOUNT_REQUIRED"
	CodeAmountNotNumeric Code = "AMOUNT_NOT_NUMERIC"
	CodeAmountBelowMin   Code = "AMOUNT_BELOW_MIN"
	CodeAmountAboveMax   Code = "AMOUNT_ABOVE_MAX"

	// Name resolution errors
	CodeNameNotFound         Code = "NAME_NOT_FOUND"
	CodeNameResolutionFailed Code = "NAME_RESOLUTION_FAILED"

	// Broadcast errors, classified from provider messages
	CodeBroadcastCancelled    Code = "BROADCAST_CANCELLED"
	CodeInsufficientBalance   Code = "INSUFFICIENT_BALANCE"
	CodeBroadcastNetworkError Code = "BROADCAST_NETWORK_ERROR"
	CodeTransactionFailed     Code = "TRANSACTION_FAILED"

	// Ledger errors
	CodeWalletNotConnected Code = "WALLET_NOT_CONNECTED"
	CodeDuplicateEntry     Code = "DUPLICATE_ENTRY"

	// Price oracle errors
	CodePriceFetchFailed   Code = "PRICE_FETCH_FAILED"
	CodePriceSourceInvalid Code = "PRICE_SOURCE_INVALID"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
