// Package domain defines the persistence models for users and orders plus
// the in-memory catalog entry type. The persisted types are mapped with GORM
// and form the ledger's data layer; Service is sourced from the provider on
// every catalog refresh and is never written to the database.
package domain

import "time"

// OrderStatus is the lifecycle state of a local order record.
//
// The engine itself only ever assigns StatusSubmitted or StatusFailed at
// creation time. Later values come from provider status polls and are stored
// verbatim (the panel's vocabulary: "pending", "in_progress", "completed",
// "partial", "canceled", ...); they are deliberately not normalized so the
// record always reflects exactly what the panel last said.
type OrderStatus string

const (
	// StatusCreated is the notional initial state. Rows are persisted only
	// once the terminal verdict of the submission is known, so it appears in
	// the database only if a future flow chooses to persist earlier.
	StatusCreated OrderStatus = "created"

	// StatusSubmitted means the provider accepted the order and returned an id.
	StatusSubmitted OrderStatus = "submitted"

	// StatusFailed means the provider rejected the order, the response was
	// ambiguous, or transport gave out; the charge has been refunded.
	StatusFailed OrderStatus = "failed"
)

// User is a chat-platform account known to the ledger. Rows are created
// lazily on first interaction and never deleted.
//
// Fields:
//   - UserID: the platform's numeric user id; not generated here.
//   - Balance: current balance in integer minor currency units, never negative.
//   - IsSeller: sellers get the lower default markup.
//   - MarkupPercent: explicit per-user markup override; nil = inherit the
//     role default.
//   - LastActionTS: epoch seconds of the last order-triggering action, used
//     for cooldown enforcement.
type User struct {
	UserID        int64     `json:"user_id"        gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Balance       int64     `json:"balance"        gorm:"not null;default:0"`
	IsSeller      bool      `json:"is_seller"      gorm:"not null;default:false"`
	MarkupPercent *float64  `json:"markup_percent" gorm:"column:markup_percent"`
	LastActionTS  int64     `json:"-"              gorm:"column:last_action_ts;not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Order is the local record of one confirmed purchase attempt. Exactly one
// row is created per attempt, whether the provider accepted it or not; rows
// are never deleted. Status is the only field mutated after creation, plus
// ProviderOrderID which is set once and never changed.
//
// Fields:
//   - ID: local order id, assigned monotonically by the database.
//   - UserID: the buyer.
//   - Provider: slug of the panel the order was sent to.
//   - ProviderOrderID: the panel's id for the order; nil when submission was
//     rejected or ambiguous.
//   - ServiceID / ServiceName: snapshot at purchase time; catalog entries can
//     disappear, the record must not.
//   - Target: link or username the order is delivered to.
//   - Quantity: units ordered.
//   - Price: amount actually charged, minor units, fixed at purchase time.
type Order struct {
	ID              int64       `json:"id"                gorm:"primaryKey;autoIncrement"`
	UserID          int64       `json:"user_id"           gorm:"not null;index:idx_user_orders"`
	Provider        string      `json:"provider"          gorm:"type:varchar(64);not null"`
	ProviderOrderID *string     `json:"provider_order_id" gorm:"type:varchar(64);index"`
	ServiceID       string      `json:"service_id"        gorm:"type:varchar(64);not null"`
	ServiceName     string      `json:"service_name"      gorm:"type:varchar(255);not null"`
	Target          string      `json:"target"            gorm:"type:varchar(512);not null"`
	Quantity        int64       `json:"quantity"          gorm:"not null"`
	Price           int64       `json:"price"             gorm:"not null"`
	Status          OrderStatus `json:"status"            gorm:"type:varchar(32);not null"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// Service is one sellable catalog entry as normalized by the provider
// gateway. It lives only in the catalog cache and in session snapshots;
// there is no table for it.
type Service struct {
	// ID is the provider's service identifier. Provider payloads disagree on
	// the field name (sid, id, service) and give no uniqueness guarantee, so
	// it is kept as an opaque string.
	ID string `json:"id"`

	// Category groups services on the panel ("Instagram Likes", ...).
	Category string `json:"category"`

	// Name is the panel's display name for the service.
	Name string `json:"name"`

	// MinQuantity and MaxQuantity bound a single order.
	MinQuantity int64 `json:"min_quantity"`
	MaxQuantity int64 `json:"max_quantity"`

	// RatePer1000 is the panel's cost per 1000 units in provider currency.
	RatePer1000 float64 `json:"rate_per_1000"`
}
