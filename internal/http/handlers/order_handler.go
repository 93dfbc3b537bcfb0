// Order status HTTP handlers.
//
// This file exposes the REST endpoint for querying the live status of a
// submitted order:
//   - GET /orders/provider/{provider_order_id}/status
//
// The lookup is proxied to the panel; when the panel reports a non-empty
// status and the order exists locally, the local row is updated to mirror it
// verbatim before the response is built.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/services"
)

// OrderStatusResponse is the JSON payload for the order status endpoint.
// Remains and StartCount are absent when the panel did not include them.
type OrderStatusResponse struct {
	ProviderOrderID string `json:"provider_order_id" example:"987654"`
	// Status is the panel's wording, passed through verbatim.
	Status     string `json:"status" example:"Partial"`
	Remains    *int64 `json:"remains,omitempty" example:"150"`
	StartCount *int64 `json:"start_count,omitempty" example:"2048"`
	// Order is the local ledger row; absent when this instance never
	// submitted the order.
	Order *domain.Order `json:"order,omitempty"`
}

// GetOrderStatus godoc
// @ID          getOrderStatus
// @Summary     Query an order's live status
// @Description Asks the panel for the current status of a submitted order and
// @Description mirrors it onto the local order row when one exists. The status
// @Description string is the panel's own wording, not a normalized value.
// @Tags        Orders
// @Produce     json
//
// @Param       provider_order_id  path  string  true  "Panel-assigned order ID"  example(987654)
//
// @Success     200  {object}  handlers.OrderStatusResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Order unknown to the panel"
// @Failure     502  {object}  handlers.ErrorResponse  "Panel unavailable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/provider/{provider_order_id}/status [get]
func (h *Handlers) GetOrderStatus(c *gin.Context) {
	providerOrderID := strings.TrimSpace(c.Param("provider_order_id"))

	res, err := h.panelSvc.OrderStatus(c.Request.Context(), providerOrderID)
	if err != nil {
		var re *provider.RejectionError
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.As(err, &re):
			// The panel answers status queries for unknown ids with an
			// explicit error body rather than a 404.
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case failProvider(c, err):
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, OrderStatusResponse{
		ProviderOrderID: providerOrderID,
		Status:          res.Info.Status,
		Remains:         res.Info.Remains,
		StartCount:      res.Info.StartCount,
		Order:           res.Order,
	})
}
