package models

import "time"

// OrderStatus constants. The lifecycle is a forward-only graph; see
// CanTransition.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// statusTransitions defines the allowed moves. COMPLETED and CANCELLED are
// terminal. Cancellation is reachable from every non-terminal state.
var statusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// IsValidOrderStatus reports whether s is a known status value.
func IsValidOrderStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a denormalized line-item snapshot. Prices are captured at
// order time; later catalog edits never change past orders.
type OrderItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	BasePrice float64  `json:"base_price"`
	Quantity  int      `json:"quantity"`
	Variant   *Variant `json:"variant,omitempty"`
	Addons    []Addon  `json:"addons,omitempty"`
	Total     float64  `json:"total"`
}

// Order is a point-of-sale order. Items and amounts are immutable after
// creation; only Status changes afterwards.
type Order struct {
	ID           string      `json:"id"`
	RestaurantID string      `json:"restaurant_id"`
	CreatedBy    string      `json:"created_by"`
	Items        []OrderItem `json:"items"`
	Subtotal     float64     `json:"subtotal"`
	Tax          float64     `json:"tax"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
	Notes        *string     `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderFilters narrows order listings.
type OrderFilters struct {
	RestaurantID string
	Limit        int
}
