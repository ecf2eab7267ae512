package domain

import "time"

// OrderStatus represents the lifecycle state of a kitchen order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a wire string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderItem is a single line on a kitchen order.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
	Notes    string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is the kitchen aggregate root. AssignedTo holds the id of the staff
// member preparing the order; it is set on the pending→preparing transition
// and cleared when the order is served or cancelled.
type Order struct {
	ID           int64       `json:"id" bson:"_id"`
	OrderNumber  string      `json:"order_number" bson:"order_number"`
	CustomerName string      `json:"customer_name" bson:"customer_name"`
	TableNumber  string      `json:"table_number" bson:"table_number"`
	Items        []OrderItem `json:"items" bson:"items"`
	TotalAmount  float64     `json:"total_amount" bson:"total_amount"`
	KitchenNotes string      `json:"kitchen_notes,omitempty" bson:"kitchen_notes,omitempty"`
	Status       OrderStatus `json:"status" bson:"status"`
	CreatedBy    int64       `json:"created_by" bson:"created_by"`
	AssignedTo   *int64      `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" bson:"updated_at"`
}
