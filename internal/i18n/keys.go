package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates a body that is not valid JSON.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates the token lacks the required scope.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates an idempotency key reused with a different body.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTokenExchangeDisabled indicates bearer tokens are not configured.
	ErrKeyTokenExchangeDisabled = "error.token_exchange_disabled"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyPhotoRequired indicates the multipart "photo" field is missing.
	ErrKeyPhotoRequired = "error.photo_required"
	// ErrKeyPhotoEmpty indicates the uploaded photo has no content.
	ErrKeyPhotoEmpty = "error.photo_empty"
	// ErrKeyPhotoTooLarge indicates the upload exceeds the size limit.
	ErrKeyPhotoTooLarge = "error.photo_too_large"
	// ErrKeyAnalysisFailed indicates the upstream analyzer failed.
	ErrKeyAnalysisFailed = "error.analysis_failed"
	// ErrKeyAnalyzerUnavailable indicates the analyzer is not configured or its circuit is open.
	ErrKeyAnalyzerUnavailable = "error.analyzer_unavailable"
	// ErrKeyUnknownTool indicates an MCP call for a tool that does not exist.
	ErrKeyUnknownTool = "error.unknown_tool"
	// ErrKeyLogsUnavailable indicates the log store is disabled or unreachable.
	ErrKeyLogsUnavailable = "error.logs_unavailable"
	// ErrKeyValidationScopes indicates an unknown token scope.
	ErrKeyValidationScopes = "error.validation.scopes"
	// ErrKeyValidationTimeWindow indicates a reversed log query window.
	ErrKeyValidationTimeWindow = "error.validation.time_window"
)
