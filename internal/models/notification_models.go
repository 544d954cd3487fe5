package models

import "time"

// Notification types.
const (
	NotificationTypeNewOrder = "NEW_ORDER"
	NotificationTypeLowStock = "LOW_STOCK"
)

// Notification is a pull-based message for a user. Data carries a small
// type-specific payload (e.g. the order id for NEW_ORDER).
type Notification struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	RestaurantID string            `json:"restaurant_id"`
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	Data         map[string]string `json:"data,omitempty"`
	Read         bool              `json:"read"`
	CreatedAt    time.Time         `json:"created_at"`
}
