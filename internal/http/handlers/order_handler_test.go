package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/services"
)

func TestGetOrderStatus_VerbatimStatusAndLocalRow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	remains := int64(150)
	start := int64(2048)
	pid := "987654"
	p := stubPanelSvc{
		status: func(_ context.Context, providerOrderID string) (*services.OrderStatusResult, error) {
			if providerOrderID != "987654" {
				t.Fatalf("id = %q", providerOrderID)
			}
			return &services.OrderStatusResult{
				Info: &provider.StatusInfo{Status: "In progress", Remains: &remains, StartCount: &start},
				Order: &domain.Order{
					ID: 7, UserID: 42, Provider: "zaynflazz", ProviderOrderID: &pid,
					ServiceID: "101", ServiceName: "IG Likes", Target: "instagram.com/zayn",
					Quantity: 2000, Price: 22000, Status: "In progress",
				},
			}, nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, stubUserSvc{}, p, stubCatalog{})
	r := gin.New()
	r.GET("/orders/provider/:provider_order_id/status", h.GetOrderStatus)

	w := httptest.NewRecorder()
	// Surrounding whitespace in the path segment is trimmed, not rejected.
	req := httptest.NewRequest(http.MethodGet, "/orders/provider/%20987654/status", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status -> %d body=%s", w.Code, w.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	// The panel's wording is passed through untouched, capitals and all.
	if out["status"] != "In progress" {
		t.Fatalf("status = %v", out["status"])
	}
	if out["provider_order_id"] != "987654" {
		t.Fatalf("provider_order_id = %v", out["provider_order_id"])
	}
	if out["remains"].(float64) != 150 || out["start_count"].(float64) != 2048 {
		t.Fatalf("counters: %v", out)
	}
	order, okOrder := out["order"].(map[string]any)
	if !okOrder || order["id"].(float64) != 7 {
		t.Fatalf("local row missing: %v", out)
	}
}

func TestGetOrderStatus_ForeignOrderHasNoLocalRow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	p := stubPanelSvc{
		status: func(context.Context, string) (*services.OrderStatusResult, error) {
			return &services.OrderStatusResult{Info: &provider.StatusInfo{Status: "Completed"}}, nil
		},
	}
	h := newTestHandlers(stubOrderSvc{}, stubUserSvc{}, p, stubCatalog{})
	r := gin.New()
	r.GET("/orders/provider/:provider_order_id/status", h.GetOrderStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/provider/31337/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("foreign order -> %d", w.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, key := range []string{"order", "remains", "start_count"} {
		if _, present := out[key]; present {
			t.Fatalf("key %q should be omitted: %v", key, out)
		}
	}
}

func TestGetOrderStatus_ErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"local miss", services.ErrOrderNotFound, http.StatusNotFound, ErrCodeNotFound},
		// Panels answer unknown ids with an explicit error body, which the
		// gateway surfaces as a rejection; for this endpoint that is a 404.
		{"panel rejects id", &provider.RejectionError{Action: "status", Message: "Incorrect order ID"}, http.StatusNotFound, ErrCodeNotFound},
		{"transport", &provider.TransportError{Action: "status", Err: errors.New("connection refused")}, http.StatusBadGateway, ErrCodeProviderDown},
		{"protocol", &provider.ProtocolError{Action: "status", Raw: "<html>"}, http.StatusBadGateway, ErrCodeProviderProto},
		{"other", errors.New("row scan failed"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := stubPanelSvc{
				status: func(context.Context, string) (*services.OrderStatusResult, error) {
					return nil, tc.err
				},
			}
			h := newTestHandlers(stubOrderSvc{}, stubUserSvc{}, p, stubCatalog{})
			r := gin.New()
			r.GET("/orders/provider/:provider_order_id/status", h.GetOrderStatus)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/provider/555/status", nil))
			if w.Code != tc.wantStatus {
				t.Fatalf("%s -> %d", tc.name, w.Code)
			}
			if er := decodeErr(t, w); er.Code != tc.wantCode {
				t.Fatalf("%s code = %q", tc.name, er.Code)
			}
		})
	}
}
