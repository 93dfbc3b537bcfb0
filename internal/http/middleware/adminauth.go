// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides AdminAuth, a static-token guard for the admin route
// group (credits, markup overrides, provider profile). The deployment model
// is a single operator token handed to back-office tooling, not a full
// identity system, so a shared-secret header keeps the surface minimal.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAdminToken carries the operator credential for admin endpoints.
const HeaderAdminToken = "X-Admin-Token"

// AdminAuth returns a middleware that rejects requests whose X-Admin-Token
// header does not match the configured token.
//
// The comparison is constant-time so response timing does not leak how much
// of a guessed token matched. An empty configured token rejects every
// request; the router does not mount admin routes in that case.
func AdminAuth(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		got := []byte(strings.TrimSpace(c.GetHeader(HeaderAdminToken)))
		if len(want) == 0 || subtle.ConstantTimeCompare(want, got) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "missing or invalid admin token",
			})
			return
		}
		c.Next()
	}
}
