// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., cooldown_active, provider_unreachable) are
//     reserved for business outcomes that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Note: step-level rejections inside an active order session (bad service id,
// quantity out of range, …) are NOT errors; they come back as HTTP 200 reprompt
// replies carrying their own machine code, because the session stays alive.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "cooldown_active",
//	  "message": "please wait before starting another order"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCooldownActive   = "cooldown_active"
	ErrCodeNoSession        = "no_active_session"
	ErrCodeInvalidAmount    = "invalid_amount"
	ErrCodeInvalidMarkup    = "invalid_markup"
	ErrCodeStartFailed      = "start_failed"
	ErrCodeInputFailed      = "input_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeCreditFailed     = "credit_failed"
	ErrCodeProviderDown     = "provider_unreachable"
	ErrCodeProviderRejected = "provider_rejected"
	ErrCodeProviderProto    = "provider_protocol_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
