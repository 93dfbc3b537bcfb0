// User HTTP handlers.
//
// This file exposes REST endpoints for user ledger reads:
//   - GET /users/{user_id}/balance  (balance plus order-history digest)
//   - GET /users/{user_id}/orders   (list, paginated, ETag support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/utils"
)

//
// DTOs
//

// BalanceResponse is the JSON payload for the balance endpoint.
type BalanceResponse struct {
	UserID   int64 `json:"user_id" example:"42"`
	Balance  int64 `json:"balance" example:"125000"`
	IsSeller bool  `json:"is_seller" example:"true"`
	// MarkupPercent is the per-user override; absent when the tier default applies.
	MarkupPercent *float64 `json:"markup_percent,omitempty" example:"12.5"`
	OrderCount    int64    `json:"order_count" example:"7"`
	// LastOrderAt is the creation time of the newest order; absent when none exist.
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListOrdersResponse wraps a page of orders and pagination information.
type ListOrdersResponse struct {
	Orders     []domain.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// ordersETag fingerprints a page of orders. Status transitions matter as much
// as row membership (a submitted order flipping to Completed must invalidate
// the tag), so the hash covers (id, status) pairs plus the total count.
func ordersETag(userID int64, items []domain.Order, total int64) string {
	h := fnv.New64a()
	for i := range items {
		fmt.Fprintf(h, "%d:%s;", items[i].ID, items[i].Status)
	}
	fmt.Fprintf(h, "n=%d", total)
	return fmt.Sprintf(`W/"orders:%d:%x"`, userID, h.Sum64())
}

//
// Handlers
//

// GetBalance godoc
// @ID          getBalance
// @Summary     Get a user's balance
// @Description Returns the ledger balance, seller tier, markup override, and a
// @Description digest of the user's order history. The user row is created
// @Description lazily, so a first-time caller sees a zero balance rather than 404.
// @Tags        Users
// @Produce     json
//
// @Param       user_id  path  int  true  "User ID"  example(42)
//
// @Success     200  {object}  handlers.BalanceResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{user_id}/balance [get]
func (h *Handlers) GetBalance(c *gin.Context) {
	userID, okID := pathID64(c, "user_id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a positive integer")
		return
	}

	sum, err := h.userSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, BalanceResponse{
		UserID:        sum.UserID,
		Balance:       sum.Balance,
		IsSeller:      sum.IsSeller,
		MarkupPercent: sum.MarkupPercent,
		OrderCount:    sum.OrderCount,
		LastOrderAt:   sum.LastOrderAt,
	})
}

// ListUserOrders godoc
// @ID          listUserOrders
// @Summary     List a user's orders (paginated)
// @Description Returns a page of the user's orders, newest first. Supports weak
// @Description ETag via If-None-Match and may return 304; the tag covers order
// @Description statuses, so upstream status changes invalidate it.
// @Tags        Users
// @Produce     json
//
// @Param       user_id        path    int     true  "User ID"                      example(42)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"orders:42:9f86d08\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListOrdersResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{user_id}/orders [get]
func (h *Handlers) ListUserOrders(c *gin.Context) {
	userID, okID := pathID64(c, "user_id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a positive integer")
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.userSvc.ListOrders(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	// The tag is computed after the fetch: orders have no monotonic
	// updated-at column to pre-check cheaply, and a page is at most 100 rows.
	// A match still spares the client the payload.
	etag := ordersETag(userID, items, total)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListOrdersResponse{
		Orders: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
