// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by every endpoint. Success
// bodies are written as-is (the step replies, balance and list DTOs carry
// their own shape), while failures always go through one flat envelope so
// chat frontends can switch on a stable code instead of parsing prose.
//
// A failure looks like:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "cooldown_active",
//	  "message": "please wait before starting another order"
//	}
//
// request_id ties the response to the server-side log line; 5xx failures are
// additionally logged here with the request-scoped logger so an operator can
// find the ledger identifiers without grepping for the message text.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/http/middleware"
)

// ErrorResponse is the one error envelope every endpoint returns. Code is a
// stable snake_case string from errors.go; Message is safe to show to users
// (panel rejection wording is passed through verbatim).
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"cooldown_active"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"please wait before starting another order"`
}

// fail aborts the request with an ErrorResponse. Server-side failures
// (>= 500) are logged with the request-scoped logger before the envelope is
// written; client errors are the caller's problem and stay out of the log.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail, for callers outside this package
// (the router's NoRoute/NoMethod fallbacks).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an empty 204.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
