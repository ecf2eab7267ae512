package ports

import (
	"context"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// CreateOrderInput carries all data needed to create a kitchen order.
// CreatedBy is the authenticated staff member placing the order.
type CreateOrderInput struct {
	CustomerName string
	TableNumber  string
	Items        []domain.OrderItem
	TotalAmount  float64
	KitchenNotes string
	CreatedBy    int64
}

// UpdateOrderInput carries a partial update; nil fields are left untouched.
type UpdateOrderInput struct {
	ID           int64
	CustomerName *string
	TableNumber  *string
	Items        []domain.OrderItem
	TotalAmount  *float64
	KitchenNotes *string
}

// ListOrdersInput carries the parameters for the list endpoint.
type ListOrdersInput struct {
	Status    string
	TodayOnly bool
}

// OrderService defines use-case operations for kitchen orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) ([]*domain.Order, error)
	// ListPending returns pending orders oldest-first, the kitchen work queue.
	ListPending(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*domain.Order, error)
	// UpdateStatus applies a state machine transition. actorID is assigned to
	// the order on pending→preparing and cleared on served/cancelled.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, actorID int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (*OrderCounts, error)
}
