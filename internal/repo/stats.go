// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for profile-style summaries in the HTTP layer. Each function is
// context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// OrdersStats returns aggregate metadata for a user's orders: the total
// number of rows and the CreatedAt of the most recent one.
//
// It executes two lightweight queries against the orders table scoped to the
// provided userID. When the user has no orders, the returned count is 0 and
// lastCreatedAt is nil.
//
// Return values:
//   - count:         total orders for userID
//   - lastCreatedAt: pointer to the newest CreatedAt, or nil if no rows
//   - err:           database error, if any
func OrdersStats(ctx context.Context, db *gorm.DB, userID int64) (count int64, lastCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Order{}).Where("user_id = ?", userID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
