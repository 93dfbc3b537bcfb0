package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/http/middleware"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/services"
)

func TestCreditUser_AppliesAndReportsBalance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotAmount int64
	var gotKey string
	u := stubUserSvc{
		credit: func(_ context.Context, userID, amount int64, key string) (*services.CreditResult, error) {
			gotAmount, gotKey = amount, key
			return &services.CreditResult{
				User: &domain.User{UserID: userID, Balance: 175000},
			}, nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, u, stubPanelSvc{}, stubCatalog{})
	r := gin.New()
	r.POST("/admin/users/:user_id/credit", h.CreditUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{"amount":50000}`))
	req.Header.Set(middleware.HeaderIdempotencyKey, "topup-2024-07-021")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("credit -> %d body=%s", w.Code, w.Body.String())
	}
	if gotAmount != 50000 || gotKey != "topup-2024-07-021" {
		t.Fatalf("service args: amount=%d key=%q", gotAmount, gotKey)
	}
	if w.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("fresh credit must not set the replay header")
	}

	var out CreditResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.UserID != 42 || out.Balance != 175000 || out.Replayed {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestCreditUser_ReplaySetsHeaderAndReceiptTime(t *testing.T) {
	gin.SetMode(gin.TestMode)

	applied := time.Date(2025, 7, 2, 9, 30, 0, 0, time.UTC)
	u := stubUserSvc{
		credit: func(_ context.Context, userID, _ int64, key string) (*services.CreditResult, error) {
			return &services.CreditResult{
				User:     &domain.User{UserID: userID, Balance: 175000},
				Replayed: true,
				Receipt: &domain.CreditReceipt{
					ID: "r-1", UserID: userID, Key: key, Amount: 50000, CreatedAt: applied,
				},
			}, nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, u, stubPanelSvc{}, stubCatalog{})
	r := gin.New()
	r.POST("/admin/users/:user_id/credit", h.CreditUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{"amount":50000}`))
	req.Header.Set(middleware.HeaderIdempotencyKey, "topup-2024-07-021")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replay -> %d", w.Code)
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("missing replay header")
	}

	var out CreditResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !out.Replayed || out.Balance != 175000 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.AppliedAt == nil || !out.AppliedAt.Equal(applied) {
		t.Fatalf("applied_at = %v, want %v", out.AppliedAt, applied)
	}
}

func TestCreditUser_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u := stubUserSvc{
		credit: func(_ context.Context, _, amount int64, _ string) (*services.CreditResult, error) {
			if amount <= 0 {
				return nil, services.ErrInvalidAmount
			}
			return nil, errors.New("unexpected")
		},
	}
	h := newTestHandlers(stubOrderSvc{}, u, stubPanelSvc{}, stubCatalog{})
	r := gin.New()
	r.POST("/admin/users/:user_id/credit", h.CreditUser)

	// Bad path id.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/zero/credit", bytes.NewBufferString(`{"amount":1}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}

	// Bad JSON.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{amount`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}

	// Zero amount never reaches the service: binding rejects it.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{"amount":0}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero amount -> %d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeBadRequest {
		t.Fatalf("zero amount code = %q", er.Code)
	}

	// Negative amount passes binding and is refused by the ledger.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{"amount":-5}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative amount -> %d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeInvalidAmount {
		t.Fatalf("negative amount code = %q", er.Code)
	}
}

func TestCreditUser_ServiceFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u := stubUserSvc{
		credit: func(context.Context, int64, int64, string) (*services.CreditResult, error) {
			return nil, errors.New("tx deadlock")
		},
	}
	h := newTestHandlers(stubOrderSvc{}, u, stubPanelSvc{}, stubCatalog{})
	r := gin.New()
	r.POST("/admin/users/:user_id/credit", h.CreditUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/42/credit", bytes.NewBufferString(`{"amount":100}`)))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failure -> %d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeCreditFailed {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestSetUserMarkup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotPercent *float64
	var called bool
	u := stubUserSvc{
		markup: func(_ context.Context, _ int64, percent *float64) error {
			called = true
			gotPercent = percent
			if percent != nil && *percent < 0 {
				return services.ErrInvalidMarkup
			}
			return nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, u, stubPanelSvc{}, stubCatalog{})
	r := gin.New()
	r.PUT("/admin/users/:user_id/markup", h.SetUserMarkup)

	// Pin a value → 204.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/users/42/markup", bytes.NewBufferString(`{"percent":12.5}`)))
	if w.Code != http.StatusNoContent {
		t.Fatalf("set -> %d body=%s", w.Code, w.Body.String())
	}
	if gotPercent == nil || *gotPercent != 12.5 {
		t.Fatalf("percent = %v", gotPercent)
	}

	// Zero is a real pin (sell at cost), not a clear.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/users/42/markup", bytes.NewBufferString(`{"percent":0}`)))
	if w.Code != http.StatusNoContent {
		t.Fatalf("zero pin -> %d", w.Code)
	}
	if gotPercent == nil || *gotPercent != 0 {
		t.Fatalf("zero pin percent = %v", gotPercent)
	}

	// Null clears the override.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/users/42/markup", bytes.NewBufferString(`{"percent":null}`)))
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear -> %d", w.Code)
	}
	if gotPercent != nil {
		t.Fatalf("clear should pass nil, got %v", *gotPercent)
	}

	// Negative → 400 invalid_markup.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/users/42/markup", bytes.NewBufferString(`{"percent":-3}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative -> %d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeInvalidMarkup {
		t.Fatalf("code = %q", er.Code)
	}

	// Bad JSON → 400 before the service runs.
	called = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/users/42/markup", bytes.NewBufferString(`{percent`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}
	if called {
		t.Fatalf("service must not run on a bind failure")
	}
}

func TestGetPanelProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Success.
	p := stubPanelSvc{
		profile: func(context.Context) (*provider.Profile, error) {
			return &provider.Profile{Username: "resellerbot", Balance: 1534000.5}, nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, stubUserSvc{}, p, stubCatalog{})
	r := gin.New()
	r.GET("/admin/provider/profile", h.GetPanelProfile)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/provider/profile", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("profile -> %d", w.Code)
	}
	var out PanelProfileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Username != "resellerbot" || out.Balance != 1534000.5 {
		t.Fatalf("unexpected profile: %+v", out)
	}

	// Panel down → 502.
	p = stubPanelSvc{
		profile: func(context.Context) (*provider.Profile, error) {
			return nil, &provider.TransportError{Action: "profile", Err: errors.New("timeout")}
		},
	}
	h = newTestHandlers(stubOrderSvc{}, stubUserSvc{}, p, stubCatalog{})
	r = gin.New()
	r.GET("/admin/provider/profile", h.GetPanelProfile)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/provider/profile", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("down -> %d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeProviderDown {
		t.Fatalf("code = %q", er.Code)
	}
}
