// Admin HTTP handlers.
//
// This file exposes the operator endpoints, mounted behind the admin token
// middleware:
//   - POST /admin/users/{user_id}/credit   (top up a balance, idempotent)
//   - PUT  /admin/users/{user_id}/markup   (set or clear the markup override)
//   - GET  /admin/provider/profile         (panel-side account summary)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous credit
// exists for (user, key), the handler returns the recorded outcome without
// moving money again and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/http/middleware"
	"github.com/rezahp/go-smm-backend/internal/services"
)

//
// DTOs
//

// CreditRequest is the JSON payload for topping up a user's balance.
type CreditRequest struct {
	// Amount is the credit in minor currency units. Must be positive.
	Amount int64 `json:"amount" binding:"required" example:"50000"`
}

// CreditResponse reports the balance after a credit (or its replay).
type CreditResponse struct {
	UserID  int64 `json:"user_id" example:"42"`
	Balance int64 `json:"balance" example:"175000"`
	// Replayed is true when the idempotency key matched a previous credit
	// and no money moved on this request.
	Replayed bool `json:"replayed"`
	// AppliedAt is when the credit originally took effect; only set when the
	// winning receipt is still within its TTL.
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// SetMarkupRequest is the JSON payload for the markup override endpoint.
// A null (or omitted) percent clears the override, falling back to the
// seller/non-seller tier default.
type SetMarkupRequest struct {
	Percent *float64 `json:"percent" example:"12.5"`
}

// PanelProfileResponse is the panel-side account summary for the configured
// API key. Balance is in the panel's own currency and scale.
type PanelProfileResponse struct {
	Username string  `json:"username" example:"resellerbot"`
	Balance  float64 `json:"balance" example:"1534000.5"`
}

// creditIdempotencyKey returns the validated idempotency key when the
// upstream middleware stashed one, falling back to the raw header so the
// handler still deduplicates when mounted without the validator.
func creditIdempotencyKey(c *gin.Context) string {
	if k, okKey := middleware.GetIdempotencyKey(c); okKey {
		return k
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

//
// Handlers
//

// CreditUser godoc
// @ID          creditUser
// @Summary     Credit a user's balance
// @Description Adds a positive amount to the user's balance. Supplying an
// @Description Idempotency-Key makes retries safe: the same key can never move
// @Description money twice, even after the receipt's replay window has lapsed.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Token    header  string  true  "Operator token"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(topup-2024-07-021)
// @Param       user_id          path    int     true  "User ID"  example(42)
// @Param       body             body    handlers.CreditRequest  true  "Credit payload"
//
// @Success     200  {object}  handlers.CreditResponse
// @Header      200  {string}  Idempotency-Replayed  "true when no money moved on this request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid admin token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/users/{user_id}/credit [post]
func (h *Handlers) CreditUser(c *gin.Context) {
	userID, okID := pathID64(c, "user_id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a positive integer")
		return
	}

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount required")
		return
	}

	res, err := h.userSvc.AdminCredit(c.Request.Context(), userID, req.Amount, creditIdempotencyKey(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			fail(c, http.StatusBadRequest, ErrCodeInvalidAmount, "amount must be a positive integer")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreditFailed, err.Error())
		}
		return
	}

	resp := CreditResponse{
		UserID:   res.User.UserID,
		Balance:  res.User.Balance,
		Replayed: res.Replayed,
	}
	if res.Receipt != nil {
		t := res.Receipt.CreatedAt
		resp.AppliedAt = &t
	}
	if res.Replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	ok(c, http.StatusOK, resp)
}

// SetUserMarkup godoc
// @ID          setUserMarkup
// @Summary     Set or clear a user's markup override
// @Description Pins the user's markup percent, taking precedence over the
// @Description seller/non-seller tier default. A null or omitted percent clears
// @Description the override. Zero is a valid pin (sell at cost). The user row
// @Description is created lazily when absent, mirroring the balance endpoint.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Token  header  string  true  "Operator token"
// @Param       user_id        path    int     true  "User ID"  example(42)
// @Param       body           body    handlers.SetMarkupRequest  true  "Markup payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid markup"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid admin token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/users/{user_id}/markup [put]
func (h *Handlers) SetUserMarkup(c *gin.Context) {
	userID, okID := pathID64(c, "user_id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a positive integer")
		return
	}

	var req SetMarkupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.userSvc.SetMarkup(c.Request.Context(), userID, req.Percent); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMarkup):
			fail(c, http.StatusBadRequest, ErrCodeInvalidMarkup, "percent must be a finite, non-negative number")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	noContent(c)
}

// GetPanelProfile godoc
// @ID          getPanelProfile
// @Summary     Get the panel account profile
// @Description Returns the upstream panel's view of the reseller account
// @Description (username and remaining panel balance). Useful for checking how
// @Description much float is left with the provider before a busy period.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Token  header  string  true  "Operator token"
//
// @Success     200  {object}  handlers.PanelProfileResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid admin token"
// @Failure     502  {object}  handlers.ErrorResponse  "Panel unavailable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/provider/profile [get]
func (h *Handlers) GetPanelProfile(c *gin.Context) {
	p, err := h.panelSvc.Profile(c.Request.Context())
	if err != nil {
		if failProvider(c, err) {
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, PanelProfileResponse{Username: p.Username, Balance: p.Balance})
}
