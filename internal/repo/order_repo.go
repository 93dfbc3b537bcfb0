// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order
// model, the order-record side of the ledger. Order rows are append-only:
// after creation only the status column is ever rewritten.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// CreateOrder appends a new order row and returns the local id the database
// assigned. CreatedAt is stamped here unless the caller set it already.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) (int64, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return 0, err
	}
	return o.ID, nil
}

// GetOrder fetches an order by its local id, or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByProviderID fetches an order by the id the panel assigned to it,
// or ErrNotFound. Rejected/ambiguous orders have no provider id and can only
// be found via GetOrder.
func GetOrderByProviderID(ctx context.Context, db *gorm.DB, providerOrderID string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Where("provider_order_id = ?", providerOrderID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus overwrites the status of the order with the given local
// id. Setting the status an order already has is observably a no-op, so
// callers may repeat themselves safely. Returns ErrNotFound for unknown ids.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int64, status domain.OrderStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateOrderStatusByProviderID is UpdateOrderStatus keyed by the panel's
// order id; used by the status-poll path.
func UpdateOrderStatusByProviderID(ctx context.Context, db *gorm.DB, providerOrderID string, status domain.OrderStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("provider_order_id = ?", providerOrderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOrders returns the total number of orders placed by userID.
func CountOrders(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListOrdersPage returns a paginated slice of the user's orders, newest
// first (CreatedAt DESC, ID DESC for a stable tiebreak).
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListOrdersPage(ctx context.Context, db *gorm.DB, userID int64, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
