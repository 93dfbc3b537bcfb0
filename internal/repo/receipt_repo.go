// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the CreditReceipt
// model used to implement safe-retry semantics for admin top-ups.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// ErrDuplicate indicates that a credit receipt already exists for the given
// (user_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetCreditReceipt returns a non-expired receipt or ErrNotFound.
func GetCreditReceipt(ctx context.Context, db *gorm.DB, userID int64, key string, now time.Time) (*domain.CreditReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.CreditReceipt
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateCreditReceipt inserts a receipt and returns ErrDuplicate on unique violation.
func CreateCreditReceipt(ctx context.Context, db *gorm.DB, userID int64, key string, amount int64, status int, ttl time.Duration) (*domain.CreditReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.CreditReceipt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Key:       key,
		Amount:    amount,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
