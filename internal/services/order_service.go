// Package services – OrderService
//
// This file implements the order placement flow: the step-by-step input
// collection driven by the session state machine, the price quote, and the
// confirmed purchase sequence (debit, submit to the panel, record the
// outcome, refund on failure).
//
// Money rules, in order, on confirmation:
//
//  1. Re-resolve the service id; a vanished id aborts before any debit.
//  2. Debit the quoted price. Insufficient funds abort with no provider
//     call and no order row.
//  3. Submit to the panel. An order id means a SUBMITTED row; any failure
//     or an id-less acceptance means refund first, then a FAILED row.
//
// A ledger write failing after money has moved is fatal to the operation:
// it is logged with full identifiers and surfaced as an error, never
// silently continued.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// chat/user identifiers and order parameters.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezahp/go-smm-backend/internal/catalog"
	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/pricing"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/repo"
)

// Gateway is the provider capability set the service layer needs.
// *provider.Client satisfies it; tests substitute scripted fakes.
type Gateway interface {
	SubmitOrder(ctx context.Context, serviceID, target string, quantity int64) (string, error)
	OrderStatus(ctx context.Context, providerOrderID string) (*provider.StatusInfo, error)
	Profile(ctx context.Context) (*provider.Profile, error)
}

// minTargetRunes is the shortest accepted order target.
const minTargetRunes = 3

const (
	promptServiceID = "Send the numeric service id."
	promptTarget    = "Send the target link or username."
)

// OrderService drives order sessions from first prompt to ledger outcome.
type OrderService struct {
	// DB is the GORM handle used for ledger persistence.
	DB *gorm.DB
	// Catalog resolves service ids against the provider snapshot.
	Catalog *catalog.Cache
	// Gateway submits confirmed orders to the panel.
	Gateway Gateway
	// Sessions owns the per-(chat,user) collection state.
	Sessions *SessionStore

	// Policy holds the markup defaults and the per-1000 pricing flag.
	Policy pricing.Policy
	// ProviderName is recorded on every order row.
	ProviderName string
	// Cooldown is the minimum interval between order starts per user.
	// Zero disables throttling.
	Cooldown time.Duration
}

// StartOrder opens (or restarts) the order session for (chatID, userID) and
// returns the first prompt. The user row is created lazily so the cooldown
// claim and the later debit have something to update. A start inside the
// cooldown window returns ErrCooldownActive and leaves any existing session
// untouched.
func (s *OrderService) StartOrder(ctx context.Context, chatID, userID int64) (*Reply, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "StartOrder",
		trace.WithAttributes(
			attribute.Int64("chat.id", chatID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	if err := repo.EnsureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	ok, err := repo.ClaimCooldown(ctx, s.DB, userID, time.Now().UTC(), s.Cooldown)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCooldownActive
	}

	key := sessionKey{ChatID: chatID, UserID: userID}
	sess := s.Sessions.acquire(key)
	sess.mu.Lock()
	sess.reset(s.Sessions.clock())
	sess.mu.Unlock()

	return &Reply{Kind: ReplyPrompt, Step: StepServiceID, Prompt: promptServiceID}, nil
}

// HandleInput feeds one piece of user text into the session for
// (chatID, userID). Invalid input re-prompts without advancing; a confirmed
// order runs the full purchase sequence before returning. Inputs for the
// same session are serialized; ErrNoSession is returned when no order has
// been started.
func (s *OrderService) HandleInput(ctx context.Context, chatID, userID int64, text string) (*Reply, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "HandleInput",
		trace.WithAttributes(
			attribute.Int64("chat.id", chatID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	key := sessionKey{ChatID: chatID, UserID: userID}
	sess, ok := s.Sessions.lookup(key)
	if !ok {
		return nil, ErrNoSession
	}

	// Held across the whole step, the confirmation round-trip included:
	// this is what keeps one user's inputs in arrival order.
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastTouched = s.Sessions.clock()
	span.SetAttributes(attribute.String("session.step", string(sess.step)))

	switch sess.step {
	case StepServiceID:
		return s.stepServiceID(ctx, sess, text)
	case StepTarget:
		return s.stepTarget(sess, text), nil
	case StepQuantity:
		return s.stepQuantity(ctx, key, sess, text)
	case StepConfirmation:
		return s.stepConfirm(ctx, key, sess, text)
	default:
		sess.reset(s.Sessions.clock())
		return &Reply{Kind: ReplyPrompt, Step: StepServiceID, Prompt: promptServiceID}, nil
	}
}

func (s *OrderService) stepServiceID(ctx context.Context, sess *session, text string) (*Reply, error) {
	sid := strings.TrimSpace(text)
	if !isDigits(sid) {
		return &Reply{
			Kind: ReplyReprompt, Step: StepServiceID, Code: CodeBadServiceID,
			Prompt: "The service id must be numeric. Send it again.",
		}, nil
	}
	svc, err := s.Catalog.Resolve(ctx, sid)
	if errors.Is(err, catalog.ErrServiceNotFound) {
		return &Reply{
			Kind: ReplyReprompt, Step: StepServiceID, Code: CodeUnknownService,
			Prompt: "No service has that id. Send another one.",
		}, nil
	}
	if err != nil {
		// Catalog refresh failed; the session stays at this step so the
		// user can simply try again.
		return nil, err
	}

	sess.serviceID = sid
	sess.svc = svc
	sess.step = StepTarget
	return &Reply{Kind: ReplyPrompt, Step: StepTarget, Service: svc, Prompt: promptTarget}, nil
}

func (s *OrderService) stepTarget(sess *session, text string) *Reply {
	target := strings.TrimSpace(text)
	if utf8.RuneCountInString(target) < minTargetRunes {
		return &Reply{
			Kind: ReplyReprompt, Step: StepTarget, Code: CodeTargetTooShort,
			Prompt: "That target is too short. Send the full link or username.",
		}
	}
	sess.target = target
	sess.step = StepQuantity
	return &Reply{
		Kind: ReplyPrompt, Step: StepQuantity, Service: sess.svc,
		Prompt: fmt.Sprintf("Send the quantity (%d-%d).", sess.svc.MinQuantity, sess.svc.MaxQuantity),
	}
}

func (s *OrderService) stepQuantity(ctx context.Context, key sessionKey, sess *session, text string) (*Reply, error) {
	qty, ok := parseUserQuantity(text)
	if !ok {
		return &Reply{
			Kind: ReplyReprompt, Step: StepQuantity, Code: CodeBadQuantity,
			Prompt: "The quantity must be a number.",
		}, nil
	}
	svc := sess.svc
	if qty < svc.MinQuantity || qty > svc.MaxQuantity {
		return &Reply{
			Kind: ReplyReprompt, Step: StepQuantity, Code: CodeQuantityRange,
			Prompt: fmt.Sprintf("Quantity must be between %d and %d.", svc.MinQuantity, svc.MaxQuantity),
		}, nil
	}

	user, err := repo.GetUser(ctx, s.DB, key.UserID)
	if err != nil {
		return nil, err
	}
	markup := pricing.ResolveMarkup(user, s.Policy)
	price := pricing.Price(svc.RatePer1000, qty, markup, s.Policy.PerThousand)
	if price <= 0 {
		// A free order means broken panel data, not a sale.
		s.Sessions.discard(key)
		return &Reply{
			Kind: ReplyFailed, Code: CodeZeroPrice,
			Prompt: "This service cannot be quoted right now. Order aborted.",
		}, nil
	}

	sess.quantity = qty
	sess.price = price
	sess.step = StepConfirmation
	return &Reply{
		Kind: ReplyPrompt, Step: StepConfirmation,
		Service: svc, Target: sess.target, Quantity: qty, Price: price,
		Prompt: fmt.Sprintf("Ordering %d x %s for %d. Reply YES to confirm or NO to cancel.", qty, svc.Name, price),
	}, nil
}

func (s *OrderService) stepConfirm(ctx context.Context, key sessionKey, sess *session, text string) (*Reply, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "NO":
		s.Sessions.discard(key)
		return &Reply{Kind: ReplyCancelled, Code: CodeCancelled, Prompt: "Order cancelled."}, nil
	case "YES":
		return s.placeOrder(ctx, key, sess)
	default:
		return &Reply{
			Kind: ReplyReprompt, Step: StepConfirmation, Code: CodeConfirmRequired,
			Service: sess.svc, Target: sess.target, Quantity: sess.quantity, Price: sess.price,
			Prompt: "Reply YES or NO.",
		}, nil
	}
}

// placeOrder runs the confirmed purchase sequence. The caller holds the
// session lock for its whole duration.
func (s *OrderService) placeOrder(ctx context.Context, key sessionKey, sess *session) (*Reply, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "placeOrder",
		trace.WithAttributes(
			attribute.Int64("user.id", key.UserID),
			attribute.String("service.id", sess.serviceID),
			attribute.Int64("order.quantity", sess.quantity),
			attribute.Int64("order.price", sess.price),
		),
	)
	defer span.End()

	// The id was valid when collected; the catalog may have moved on since.
	if _, err := s.Catalog.Resolve(ctx, sess.serviceID); err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			s.Sessions.discard(key)
			return &Reply{
				Kind: ReplyFailed, Code: CodeUnknownService,
				Prompt: "That service is no longer available. Order aborted.",
			}, nil
		}
		return nil, err
	}

	if err := repo.DebitBalance(ctx, s.DB, key.UserID, sess.price); err != nil {
		if errors.Is(err, repo.ErrInsufficientBalance) {
			s.Sessions.discard(key)
			return &Reply{
				Kind: ReplyFailed, Code: CodeInsufficient, Price: sess.price,
				Prompt: "Balance too low for this order.",
			}, nil
		}
		return nil, err
	}

	// From here on money has moved. Settlement below (recording the order,
	// refunding a failure) must not die with the request: a client gone away
	// or a server timeout mid-submit would otherwise cancel the refund too
	// and leave the debit dangling.
	settleCtx := context.WithoutCancel(ctx)

	providerOrderID, submitErr := s.Gateway.SubmitOrder(ctx, sess.serviceID, sess.target, sess.quantity)

	order := &domain.Order{
		UserID:      key.UserID,
		Provider:    s.ProviderName,
		ServiceID:   sess.serviceID,
		ServiceName: sess.svc.Name,
		Target:      sess.target,
		Quantity:    sess.quantity,
		Price:       sess.price,
	}

	if submitErr == nil {
		order.Status = domain.StatusSubmitted
		order.ProviderOrderID = &providerOrderID
		if _, err := repo.CreateOrder(settleCtx, s.DB, order); err != nil {
			// Money moved and the panel holds the order; refunding here
			// would hand out free units. Surface loudly instead.
			log.Error().Err(err).
				Int64("user_id", key.UserID).
				Str("provider_order_id", providerOrderID).
				Int64("price", order.Price).
				Msg("order accepted by panel but the ledger insert failed")
			return nil, err
		}
		s.Sessions.discard(key)
		ordersPlaced.WithLabelValues("submitted").Inc()
		return &Reply{
			Kind: ReplySubmitted,
			Service: sess.svc, Target: sess.target, Quantity: sess.quantity, Price: sess.price,
			Order:  order,
			Prompt: fmt.Sprintf("Order placed. Panel order id %s.", providerOrderID),
		}, nil
	}

	var amb *provider.AmbiguousResponseError
	if errors.As(submitErr, &amb) {
		ordersAmbiguous.Inc()
		log.Warn().
			Int64("user_id", key.UserID).
			Str("service_id", sess.serviceID).
			Int64("price", sess.price).
			Str("raw", amb.Raw).
			Msg("panel accepted the submission but returned no order id; refunding")
	}

	// Refund before anything else so the balance is whole even if the
	// order record below fails.
	if err := repo.CreditBalance(settleCtx, s.DB, key.UserID, sess.price); err != nil {
		log.Error().Err(err).
			Int64("user_id", key.UserID).
			Int64("price", sess.price).
			Msg("refund after failed submission did not persist")
		return nil, err
	}
	order.Status = domain.StatusFailed
	if _, err := repo.CreateOrder(settleCtx, s.DB, order); err != nil {
		log.Error().Err(err).
			Int64("user_id", key.UserID).
			Str("service_id", sess.serviceID).
			Msg("failed-order record did not persist")
		return nil, err
	}
	s.Sessions.discard(key)
	ordersPlaced.WithLabelValues("failed").Inc()

	code, prompt := submitFailureReply(submitErr)
	return &Reply{Kind: ReplyFailed, Code: code, Price: sess.price, Order: order, Prompt: prompt}, nil
}

// submitFailureReply maps a gateway error onto a stable machine code and a
// short user-facing line.
func submitFailureReply(err error) (string, string) {
	var (
		rej  *provider.RejectionError
		amb  *provider.AmbiguousResponseError
		perr *provider.ProtocolError
	)
	switch {
	case errors.As(err, &rej):
		if rej.Message != "" {
			return CodeProviderRejected, fmt.Sprintf("Panel: %s. You have been refunded.", rej.Message)
		}
		return CodeProviderRejected, "The panel rejected this order. You have been refunded."
	case errors.As(err, &amb):
		return CodeProviderNoID, "The panel gave no order id. You have been refunded."
	case errors.As(err, &perr):
		return CodeProviderProtocol, "The panel answered in an unexpected format. You have been refunded."
	default:
		return CodeProviderDown, "The panel could not be reached. You have been refunded."
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseUserQuantity reads a user-typed quantity, tolerating "1.000" and
// "1,000" style separators.
func parseUserQuantity(text string) (int64, bool) {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, ",", "")
	if !isDigits(t) {
		return 0, false
	}
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
