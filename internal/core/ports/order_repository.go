package ports

import (
	"context"
	"time"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// ListOrdersFilter carries the query parameters for listing kitchen orders.
type ListOrdersFilter struct {
	Status    domain.OrderStatus // optional: filter by order status
	DateFrom  time.Time          // optional: created_at >= DateFrom
	DateTo    time.Time          // optional: created_at < DateTo
	Ascending bool               // sort by created_at ascending instead of descending
}

// OrderCounts aggregates order totals for the kitchen dashboard.
type OrderCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Preparing int64 `json:"preparing"`
	Ready     int64 `json:"ready"`
	Today     int64 `json:"today"`
}

// OrderRepository defines persistence operations for kitchen orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// LastOrderNumber returns the highest order number with the given date
	// prefix, or "" when none exists for that day.
	LastOrderNumber(ctx context.Context, datePrefix string) (string, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Counts(ctx context.Context, startOfToday time.Time) (*OrderCounts, error)
}
