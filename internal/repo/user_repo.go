// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model,
// which doubles as the balance side of the ledger.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Money rules enforced here:
//   - DebitBalance is a single conditional UPDATE (`balance = balance - ?
//     WHERE balance >= ?`), never a read followed by a write, so concurrent
//     debits/credits for the same user cannot race.
//   - CreditBalance lazily creates the user row, then increments atomically.
//   - ClaimCooldown advances last_action_ts with the same conditional-update
//     pattern, so two near-simultaneous actions cannot both pass.
//
// Error semantics:
//   - A missing user yields ErrNotFound (alias of gorm.ErrRecordNotFound).
//   - An underfunded debit yields ErrInsufficientBalance; this is a normal
//     business outcome, not a retryable failure.
//   - Other DB errors are propagated raw.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrInsufficientBalance is returned by DebitBalance when the user exists but
// holds less than the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// EnsureUser creates the row for userID if it does not exist yet. Existing
// rows are left untouched. Users are created lazily on first interaction and
// start with a zero balance.
func EnsureUser(ctx context.Context, db *gorm.DB, userID int64) error {
	u := &domain.User{UserID: userID}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(u).Error
}

// GetUser fetches a user row or returns ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, userID int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DebitBalance atomically subtracts amount from the user's balance, failing
// with ErrInsufficientBalance when the balance is lower than amount and with
// ErrNotFound when the user row does not exist. The check and the write are
// one UPDATE statement.
func DebitBalance(ctx context.Context, db *gorm.DB, userID, amount int64) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).
			Model(&domain.User{}).
			Where("user_id = ?", userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrInsufficientBalance
	}
	return nil
}

// CreditBalance atomically adds amount to the user's balance, creating the
// row first when needed. Used for refunds and admin top-ups; there is no
// upper bound.
func CreditBalance(ctx context.Context, db *gorm.DB, userID, amount int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureUser(ctx, tx, userID); err != nil {
			return err
		}
		res := tx.Model(&domain.User{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetMarkupOverride sets (or, with nil, clears) the user's explicit markup
// percentage, creating the row first when needed. A cleared override makes
// the user inherit the role default again.
func SetMarkupOverride(ctx context.Context, db *gorm.DB, userID int64, percent *float64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureUser(ctx, tx, userID); err != nil {
			return err
		}
		res := tx.Model(&domain.User{}).
			Where("user_id = ?", userID).
			Update("markup_percent", percent)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ClaimCooldown tries to claim the right to perform an order-triggering
// action at time now. It succeeds (true) when at least cooldown has elapsed
// since the user's previous claim, advancing last_action_ts in the same
// statement; otherwise it returns false and the timestamp stays put. The
// caller must make sure the user row exists.
func ClaimCooldown(ctx context.Context, db *gorm.DB, userID int64, now time.Time, cooldown time.Duration) (bool, error) {
	cutoff := now.Add(-cooldown).Unix()
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ? AND last_action_ts <= ?", userID, cutoff).
		Update("last_action_ts", now.Unix())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
