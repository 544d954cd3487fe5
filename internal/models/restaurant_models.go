package models

import "time"

// Location describes where a restaurant is. Coordinates are optional.
type Location struct {
	Address string   `json:"address"`
	MapURL  *string  `json:"map_url,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Restaurant is a tenant. Owner name and email are denormalized from the
// owner account at creation time for listing without a join.
type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Location    Location  `json:"location"`
	OwnerUserID string    `json:"owner_user_id"`
	OwnerName   string    `json:"owner_name"`
	OwnerEmail  string    `json:"owner_email"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RestaurantPatch carries the updatable restaurant fields. Nil means
// "leave unchanged". Ownership is not reassignable through updates.
type RestaurantPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	IsActive    *bool     `json:"is_active"`
	Location    *Location `json:"location"`
}
