package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidID        = "invalid_id"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Generation errors
	ErrCodeInsufficientFodder = "insufficient_fodder"
	ErrCodeInconsistentState  = "inconsistent_state"

	// Lifecycle errors
	ErrCodeIllegalTransition = "illegal_transition"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
