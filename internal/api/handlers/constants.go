package handlers

const (
	// Stable error codes returned in the "code" field
	codeInvalidRequest          = "invalid_request"
	codeInvalidConstraintSet    = "invalid_constraint_set"
	codeGenerationUnavailable   = "generation_unavailable"
	codeCorrectionLimitExceeded = "correction_limit_exceeded"
	codeRequestCancelled        = "request_cancelled"
	codeInternal                = "internal_error"

	apiVersion = "1.0.0"
)
