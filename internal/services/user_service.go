// Package services – UserService
//
// This file implements balance reads, admin top-ups, and markup overrides.
// Credits are idempotent when the caller supplies an Idempotency-Key: the
// receipt insert and the balance increment commit in one transaction, so a
// replayed key can never apply money twice. Receipt rows are kept past
// their TTL as tombstones; the TTL bounds how long the original receipt is
// echoed back, not how long the key blocks re-application.
package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/repo"
)

// creditReceiptStatus is the response status snapshot stored on receipts.
const creditReceiptStatus = 200

// errCreditReplayed aborts the credit transaction when another request with
// the same key already holds the receipt. Internal control flow only; the
// transaction must roll back rather than commit because on some databases a
// failed insert poisons the whole transaction.
var errCreditReplayed = errors.New("credit already applied for this key")

// defaultReceiptTTL applies when UserService.ReceiptTTL is zero.
const defaultReceiptTTL = 24 * time.Hour

// BalanceSummary is the balance endpoint payload: the ledger row plus a
// small order-history digest.
type BalanceSummary struct {
	UserID        int64
	Balance       int64
	IsSeller      bool
	MarkupPercent *float64
	OrderCount    int64
	LastOrderAt   *time.Time
}

// CreditResult reports the outcome of an admin credit.
type CreditResult struct {
	User     *domain.User
	Replayed bool
	// Receipt is the winning idempotency receipt when a key was supplied
	// and it is still within its TTL.
	Receipt *domain.CreditReceipt
}

// UserService owns user-facing ledger operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// ReceiptTTL is the idempotency window for admin credits.
	ReceiptTTL time.Duration
}

func (s *UserService) receiptTTL() time.Duration {
	if s.ReceiptTTL > 0 {
		return s.ReceiptTTL
	}
	return defaultReceiptTTL
}

// GetBalance returns the user's ledger row and order digest, creating the
// row lazily so unknown users read as zero-balance instead of erroring.
func (s *UserService) GetBalance(ctx context.Context, userID int64) (*BalanceSummary, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "GetBalance",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	if err := repo.EnsureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	count, last, err := repo.OrdersStats(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceSummary{
		UserID:        u.UserID,
		Balance:       u.Balance,
		IsSeller:      u.IsSeller,
		MarkupPercent: u.MarkupPercent,
		OrderCount:    count,
		LastOrderAt:   last,
	}, nil
}

// AdminCredit adds amount to the user's balance, creating the user lazily.
// When idempotencyKey is non-empty, the receipt and the increment commit
// atomically; a key seen before replays (no second increment) and reports
// Replayed.
func (s *UserService) AdminCredit(ctx context.Context, userID, amount int64, idempotencyKey string) (*CreditResult, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "AdminCredit",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.Int64("credit.amount", amount),
		),
	)
	defer span.End()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	key := strings.TrimSpace(idempotencyKey)

	// Fast path: a fresh receipt means the credit already happened.
	if key != "" {
		rec, rerr := repo.GetCreditReceipt(ctx, s.DB, userID, key, time.Now().UTC())
		if rerr == nil {
			u, gerr := repo.GetUser(ctx, s.DB, userID)
			if gerr != nil {
				return nil, gerr
			}
			return &CreditResult{User: u, Replayed: true, Receipt: rec}, nil
		}
		if !errors.Is(rerr, repo.ErrNotFound) {
			return nil, rerr
		}
	}

	res := &CreditResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if key != "" {
			rec, rerr := repo.CreateCreditReceipt(ctx, tx, userID, key, amount, creditReceiptStatus, s.receiptTTL())
			if errors.Is(rerr, repo.ErrDuplicate) {
				return errCreditReplayed
			}
			if rerr != nil {
				return rerr
			}
			res.Receipt = rec
		}
		return repo.CreditBalance(ctx, tx, userID, amount)
	})
	if errors.Is(err, errCreditReplayed) {
		// Lost a race to another request with the same key, or the key's
		// receipt has expired into a tombstone. Either way the money moved
		// at most once; echo the receipt when a fresh one exists.
		res.Replayed = true
		res.Receipt = nil
		if rec, rerr := repo.GetCreditReceipt(ctx, s.DB, userID, key, time.Now().UTC()); rerr == nil {
			res.Receipt = rec
		} else if !errors.Is(rerr, repo.ErrNotFound) {
			return nil, rerr
		}
	} else if err != nil {
		return nil, err
	}

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	res.User = u
	return res, nil
}

// SetMarkup stores a per-user markup override, or clears it when percent is
// nil so the seller/non-seller default applies again.
func (s *UserService) SetMarkup(ctx context.Context, userID int64, percent *float64) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "SetMarkup",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	if percent != nil {
		if *percent < 0 || math.IsNaN(*percent) || math.IsInf(*percent, 0) {
			return ErrInvalidMarkup
		}
	}
	return repo.SetMarkupOverride(ctx, s.DB, userID, percent)
}

// ListOrders returns one page of the user's order history, newest first,
// along with the total row count.
func (s *UserService) ListOrders(ctx context.Context, userID int64, page, pageSize int) ([]domain.Order, int64, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "ListOrders",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total, err := repo.CountOrders(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListOrdersPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
