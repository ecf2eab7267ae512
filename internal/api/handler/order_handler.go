package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/api/metrics"
	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

// OrderHandler handles HTTP requests for kitchen order operations. Every
// route is gated by the Auth + RBAC middleware; the handler only reads the
// identity the middleware injected.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

type createOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	TableNumber  string             `json:"table_number"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount  float64            `json:"total_amount"`
	KitchenNotes string             `json:"kitchen_notes"`
}

type updateOrderRequest struct {
	CustomerName *string            `json:"customer_name"`
	TableNumber  *string            `json:"table_number"`
	Items        []orderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	TotalAmount  *float64           `json:"total_amount"`
	KitchenNotes *string            `json:"kitchen_notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ordersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

func toDomainItems(items []orderItemRequest) []domain.OrderItem {
	if items == nil {
		return nil
	}
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		out[i] = domain.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Notes:    item.Notes,
		}
	}
	return out
}

func orderIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return id, nil
}

// Create handles POST /v1/kitchen/orders.
//
// @Summary      Create a kitchen order
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/kitchen/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		CustomerName: req.CustomerName,
		TableNumber:  req.TableNumber,
		Items:        toDomainItems(req.Items),
		TotalAmount:  req.TotalAmount,
		KitchenNotes: req.KitchenNotes,
		CreatedBy:    caller.UserID,
	})
	if err != nil {
		return orderErrorResponse(c, err)
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// List handles GET /v1/kitchen/orders?status=&today=.
//
// @Summary      List kitchen orders
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by order status"
// @Param        today   query     bool    false  "Only today's orders"
// @Success      200     {object}  ordersResponse
// @Failure      403     {object}  map[string]string
// @Router       /v1/kitchen/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	todayOnly, _ := strconv.ParseBool(c.QueryParam("today"))

	orders, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		Status:    c.QueryParam("status"),
		TodayOnly: todayOnly,
	})
	if err != nil {
		return orderErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

// ListPending handles GET /v1/kitchen/orders/pending — the work queue,
// oldest order first.
//
// @Summary      List pending orders
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ordersResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/kitchen/orders/pending [get]
func (h *OrderHandler) ListPending(c echo.Context) error {
	orders, err := h.service.ListPending(c.Request().Context())
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

// Get handles GET /v1/kitchen/orders/:id.
//
// @Summary      Get an order
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  map[string]string
// @Router       /v1/kitchen/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), id)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Update handles PUT /v1/kitchen/orders/:id — partial field updates.
//
// @Summary      Update an order
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order id"
// @Param        body  body      updateOrderRequest  true  "Fields to update"
// @Success      200   {object}  domain.Order
// @Failure      404   {object}  map[string]string
// @Router       /v1/kitchen/orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	order, err := h.service.UpdateOrder(c.Request().Context(), ports.UpdateOrderInput{
		ID:           id,
		CustomerName: req.CustomerName,
		TableNumber:  req.TableNumber,
		Items:        toDomainItems(req.Items),
		TotalAmount:  req.TotalAmount,
		KitchenNotes: req.KitchenNotes,
	})
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PUT /v1/kitchen/orders/:id/status.
//
// @Summary      Transition an order's status
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Order id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/kitchen/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown order status"})
	}

	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), id, status, caller.UserID)
	if err != nil {
		return orderErrorResponse(c, err)
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /v1/kitchen/orders/:id. Admin only (route RBAC).
//
// @Summary      Delete an order
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/kitchen/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.Request().Context(), id); err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// Dashboard handles GET /v1/kitchen/dashboard.
//
// @Summary      Kitchen dashboard counters
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.OrderCounts
// @Failure      403  {object}  map[string]string
// @Router       /v1/kitchen/dashboard [get]
func (h *OrderHandler) Dashboard(c echo.Context) error {
	counts, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

func orderErrorResponse(c echo.Context, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return err
}
