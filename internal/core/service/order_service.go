package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

// OrderService implements the kitchen order use cases. It is a downstream
// consumer of the authorization middleware: handlers pass in the
// authenticated staff id, the service itself performs no credential checks.
type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder persists a new pending order with a daily-sequential order
// number in the form YYYYMMDD0001.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Message: "at least one item is required"}
	}

	now := s.now()
	number, err := s.nextOrderNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order := &domain.Order{
		OrderNumber:  number,
		CustomerName: input.CustomerName,
		TableNumber:  input.TableNumber,
		Items:        input.Items,
		TotalAmount:  input.TotalAmount,
		KitchenNotes: input.KitchenNotes,
		Status:       domain.OrderPending,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if order.CustomerName == "" {
		order.CustomerName = "Walk-in Customer"
	}
	if order.TableNumber == "" {
		order.TableNumber = "Takeaway"
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_number", created.OrderNumber).Int64("created_by", input.CreatedBy).Msg("order created")
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) ([]*domain.Order, error) {
	filter := ports.ListOrdersFilter{}
	if input.Status != "" {
		status, ok := domain.ParseOrderStatus(input.Status)
		if !ok {
			return nil, &domain.ValidationError{Field: "status", Message: "unknown order status"}
		}
		filter.Status = status
	}
	if input.TodayOnly {
		now := s.now()
		filter.DateFrom = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		filter.DateTo = filter.DateFrom.AddDate(0, 0, 1)
	}
	return s.repo.List(ctx, filter)
}

// ListPending returns the kitchen work queue, oldest order first.
func (s *OrderService) ListPending(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx, ports.ListOrdersFilter{Status: domain.OrderPending, Ascending: true})
}

func (s *OrderService) UpdateOrder(ctx context.Context, input ports.UpdateOrderInput) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		order.CustomerName = *input.CustomerName
	}
	if input.TableNumber != nil {
		order.TableNumber = *input.TableNumber
	}
	if input.Items != nil {
		order.Items = input.Items
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	if input.KitchenNotes != nil {
		order.KitchenNotes = *input.KitchenNotes
	}
	order.UpdatedAt = s.now()

	return s.repo.Update(ctx, order)
}

// UpdateStatus applies a state machine transition. The acting staff member is
// assigned on pending→preparing and the assignment is cleared once the order
// is served or cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, actorID int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, status)
	}

	previous := order.Status
	order.Status = status
	switch status {
	case domain.OrderPreparing:
		order.AssignedTo = &actorID
	case domain.OrderServed, domain.OrderCancelled:
		order.AssignedTo = nil
	}
	order.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_number", updated.OrderNumber).
		Str("from", string(previous)).
		Str("to", string(status)).
		Int64("actor_id", actorID).
		Msg("order status updated")

	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) Dashboard(ctx context.Context) (*ports.OrderCounts, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.Counts(ctx, startOfToday)
}

// nextOrderNumber continues today's sequence from the highest number already
// assigned, starting at 0001.
func (s *OrderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := now.Format("20060102")
	last, err := s.repo.LastOrderNumber(ctx, prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" && len(last) > len(prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
