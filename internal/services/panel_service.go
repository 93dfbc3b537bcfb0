package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/repo"
)

// OrderStatusResult pairs the panel's live answer with the local order row
// when one matches the provider id.
type OrderStatusResult struct {
	Info  *provider.StatusInfo
	Order *domain.Order
}

// PanelService answers questions about panel-side state: order status
// lookups and the reseller account profile.
type PanelService struct {
	DB      *gorm.DB
	Gateway Gateway
}

// OrderStatus asks the panel for the current state of a provider order and
// mirrors the reported status onto the local row, verbatim. Orders the
// panel knows but this service never placed are returned without a local
// row.
func (s *PanelService) OrderStatus(ctx context.Context, providerOrderID string) (*OrderStatusResult, error) {
	tr := otel.Tracer("services/PanelService")
	ctx, span := tr.Start(ctx, "OrderStatus",
		trace.WithAttributes(attribute.String("order.provider_id", providerOrderID)),
	)
	defer span.End()

	id := strings.TrimSpace(providerOrderID)
	if id == "" {
		return nil, ErrOrderNotFound
	}

	info, err := s.Gateway.OrderStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &OrderStatusResult{Info: info}
	if info.Status != "" {
		err := repo.UpdateOrderStatusByProviderID(ctx, s.DB, id, domain.OrderStatus(info.Status))
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}
	if order, err := repo.GetOrderByProviderID(ctx, s.DB, id); err == nil {
		res.Order = order
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return res, nil
}

// Profile fetches the reseller account profile from the panel.
func (s *PanelService) Profile(ctx context.Context) (*provider.Profile, error) {
	tr := otel.Tracer("services/PanelService")
	ctx, span := tr.Start(ctx, "Profile")
	defer span.End()

	return s.Gateway.Profile(ctx)
}
