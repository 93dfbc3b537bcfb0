// Order session HTTP handlers.
//
// This file exposes REST endpoints for the step-by-step order flow:
//   - POST /sessions/{chat_id}/{user_id}/start  (open or restart a session)
//   - POST /sessions/{chat_id}/{user_id}/input  (feed one user input)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate structured step replies into HTTP responses. Invalid step
// input is NOT an HTTP error: the session survives and the response is a 200
// reprompt carrying a machine code, so chat frontends can simply render the
// prompt again.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// OrderFlowService drives the per-conversation order state machine.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type OrderFlowService interface {
	// StartOrder opens (or restarts) the order session and returns the first prompt.
	StartOrder(ctx context.Context, chatID, userID int64) (*services.Reply, error)
	// HandleInput feeds one piece of user text into the active session.
	HandleInput(ctx context.Context, chatID, userID int64, text string) (*services.Reply, error)
}

// UserAccountService exposes ledger reads and admin mutations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserAccountService interface {
	// GetBalance returns the ledger row plus an order-history digest.
	GetBalance(ctx context.Context, userID int64) (*services.BalanceSummary, error)
	// AdminCredit tops up a balance, deduplicated by idempotency key.
	AdminCredit(ctx context.Context, userID, amount int64, idempotencyKey string) (*services.CreditResult, error)
	// SetMarkup sets or clears (nil) the per-user markup override.
	SetMarkup(ctx context.Context, userID int64, percent *float64) error
	// ListOrders returns a page of the user's orders and the total count.
	ListOrders(ctx context.Context, userID int64, page, pageSize int) ([]domain.Order, int64, error)
}

// PanelQueryService proxies read-only panel lookups.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PanelQueryService interface {
	// OrderStatus asks the panel for the live status of a submitted order.
	OrderStatus(ctx context.Context, providerOrderID string) (*services.OrderStatusResult, error)
	// Profile returns the panel-side account summary for the configured key.
	Profile(ctx context.Context) (*provider.Profile, error)
}

// CatalogReader serves the cached provider service catalog.
type CatalogReader interface {
	// Search returns up to limit services matching keyword ("" means all).
	Search(ctx context.Context, keyword string, limit int) ([]domain.Service, error)
	// Snapshot returns the current catalog copy and when it was fetched.
	Snapshot() ([]domain.Service, time.Time)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sessions, balances, orders, the catalog,
// and admin operations. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	orderSvc OrderFlowService
	userSvc  UserAccountService
	panelSvc PanelQueryService
	catalog  CatalogReader
}

// New constructs and returns a Handlers instance bound to the given services.
func New(orderSvc OrderFlowService, userSvc UserAccountService, panelSvc PanelQueryService, catalog CatalogReader) *Handlers {
	return &Handlers{orderSvc: orderSvc, userSvc: userSvc, panelSvc: panelSvc, catalog: catalog}
}

// pathID64 parses a positive int64 route parameter. The second return value
// is false when the parameter is missing, malformed, or non-positive.
func pathID64(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

//
// DTOs
//

// SessionInputRequest is the JSON payload carrying one user input for the
// active order session.
type SessionInputRequest struct {
	// Text is the raw user input for the current step.
	Text string `json:"text" binding:"required,min=1" example:"instagram.com/zaynmalik"`
}

// StepReply is the JSON rendering of one state machine answer. Quote fields
// appear from the quantity step onward; Order appears on terminal outcomes.
type StepReply struct {
	// Kind classifies the answer: prompt, reprompt, cancelled, submitted, failed.
	Kind string `json:"kind" example:"prompt"`
	// Step is the state the session is in after this input; empty when terminal.
	Step string `json:"step,omitempty" example:"awaiting_target"`
	// Code is the machine code for reprompts and failures.
	Code string `json:"code,omitempty" example:"bad_service_id"`
	// Prompt is a minimal English rendering for chat frontends.
	Prompt string `json:"prompt" example:"Send the numeric service id."`

	Service  *domain.Service `json:"service,omitempty"`
	Target   string          `json:"target,omitempty"`
	Quantity int64           `json:"quantity,omitempty"`
	Price    int64           `json:"price,omitempty"`
	Order    *domain.Order   `json:"order,omitempty"`
}

// toStepReply converts a service-layer reply into its transport shape.
func toStepReply(r *services.Reply) StepReply {
	return StepReply{
		Kind:     string(r.Kind),
		Step:     string(r.Step),
		Code:     r.Code,
		Prompt:   r.Prompt,
		Service:  r.Service,
		Target:   r.Target,
		Quantity: r.Quantity,
		Price:    r.Price,
		Order:    r.Order,
	}
}

// failProvider maps gateway error types onto HTTP statuses and codes.
// Returns false when err is not a provider error, letting the caller fall
// through to its own default.
func failProvider(c *gin.Context, err error) bool {
	var (
		te *provider.TransportError
		pe *provider.ProtocolError
		re *provider.RejectionError
		ae *provider.AmbiguousResponseError
	)
	switch {
	case errors.As(err, &te):
		fail(c, http.StatusBadGateway, ErrCodeProviderDown, "panel unreachable")
	case errors.As(err, &pe):
		fail(c, http.StatusBadGateway, ErrCodeProviderProto, "panel returned an unusable response")
	case errors.As(err, &re):
		msg := re.Message
		if msg == "" {
			msg = "rejected by panel"
		}
		fail(c, http.StatusBadGateway, ErrCodeProviderRejected, msg)
	case errors.As(err, &ae):
		fail(c, http.StatusBadGateway, ErrCodeProviderProto, "panel accepted without an order id")
	default:
		return false
	}
	return true
}

//
// Handlers
//

// StartSession godoc
// @ID          startSession
// @Summary     Start an order session
// @Description Opens (or restarts) the step-by-step order flow for the given conversation
// @Description and returns the first prompt. A restart discards any half-collected input.
// @Tags        Sessions
// @Produce     json
//
// @Param       chat_id  path  int  true  "Conversation ID"  example(880001)
// @Param       user_id  path  int  true  "User ID"          example(42)
//
// @Success     200  {object}  handlers.StepReply
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     429  {object}  handlers.ErrorResponse  "Cooldown active"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions/{chat_id}/{user_id}/start [post]
func (h *Handlers) StartSession(c *gin.Context) {
	chatID, ok1 := pathID64(c, "chat_id")
	userID, ok2 := pathID64(c, "user_id")
	if !ok1 || !ok2 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_id and user_id must be positive integers")
		return
	}

	r, err := h.orderSvc.StartOrder(c.Request.Context(), chatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCooldownActive):
			c.Header("Retry-After", "60")
			fail(c, http.StatusTooManyRequests, ErrCodeCooldownActive, "please wait before starting another order")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeStartFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toStepReply(r))
}

// PostSessionInput godoc
// @ID          postSessionInput
// @Summary     Feed input into the order session
// @Description Advances the active order session with one piece of user text.
// @Description Invalid input yields a 200 reprompt (the session survives); a confirmed
// @Description order runs the full purchase sequence and returns the terminal outcome.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       chat_id  path  int                              true  "Conversation ID"  example(880001)
// @Param       user_id  path  int                              true  "User ID"          example(42)
// @Param       body     body  handlers.SessionInputRequest  true  "User input"
//
// @Success     200  {object}  handlers.StepReply
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "No active session"
// @Failure     502  {object}  handlers.ErrorResponse  "Panel unavailable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions/{chat_id}/{user_id}/input [post]
func (h *Handlers) PostSessionInput(c *gin.Context) {
	chatID, ok1 := pathID64(c, "chat_id")
	userID, ok2 := pathID64(c, "user_id")
	if !ok1 || !ok2 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_id and user_id must be positive integers")
		return
	}

	var req SessionInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	r, err := h.orderSvc.HandleInput(c.Request.Context(), chatID, userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSession):
			fail(c, http.StatusNotFound, ErrCodeNoSession, "no active order session")
		case failProvider(c, err):
			// catalog refresh hit the panel and failed; session stays alive
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInputFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toStepReply(r))
}
