// Service catalog HTTP handlers.
//
// This file exposes the REST endpoint for browsing the cached provider
// catalog:
//   - GET /services  (search by keyword, ETag support)
//
// The catalog is served from the in-process snapshot; a request only reaches
// the panel when the snapshot's TTL has lapsed. The ETag is derived from the
// snapshot fetch time, so every client revalidation inside one TTL window is
// answered 304 without recomputing the search.
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

// ListServicesResponse wraps the matched services and the snapshot age.
type ListServicesResponse struct {
	Services []domain.Service `json:"services"`
	// FetchedAt is when the underlying snapshot was pulled from the panel.
	FetchedAt time.Time `json:"fetched_at"`
}

// servicesETag fingerprints one catalog query against one snapshot
// generation. The keyword is hashed rather than embedded: user keywords can
// contain characters that are illegal inside a quoted ETag.
func servicesETag(fetchedAt time.Time, keyword string, limit, n int) string {
	h := fnv.New32a()
	h.Write([]byte(keyword))
	return fmt.Sprintf(`W/"services:%d:%x:%d:%d"`, fetchedAt.Unix(), h.Sum32(), limit, n)
}

// ListServices godoc
// @ID          listServices
// @Summary     Search the service catalog
// @Description Returns services from the cached provider catalog whose name or
// @Description category matches the keyword (case-folded). An empty keyword
// @Description returns the head of the catalog. Supports weak ETag via
// @Description If-None-Match and may return 304 while the snapshot is unchanged.
// @Tags        Catalog
// @Produce     json
//
// @Param       q              query   string  false "Keyword to match against name/category"  example(instagram)
// @Param       limit          query   int     false "Maximum results"  minimum(1) maximum(100) default(12)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListServicesResponse
// @Header      200  {string} ETag  "Weak ETag for current snapshot and query"
// @Success     304  {string} string "Not Modified"
// @Failure     502  {object} handlers.ErrorResponse "Panel unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /services [get]
func (h *Handlers) ListServices(c *gin.Context) {
	const maxLimit = 100
	q := c.Query("q")
	limit := utils.AtoiDefault(c.Query("limit"), 0) // 0 → catalog default
	if limit > maxLimit {
		limit = maxLimit
	}

	// Search refreshes the snapshot when stale, so the ETag must be taken
	// after the call: it has to name the generation the results came from.
	items, err := h.catalog.Search(c.Request.Context(), q, limit)
	if err != nil {
		if failProvider(c, err) {
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	_, fetchedAt := h.catalog.Snapshot()

	etag := servicesETag(fetchedAt, q, limit, len(items))
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	ok(c, http.StatusOK, ListServicesResponse{Services: items, FetchedAt: fetchedAt})
}
