package models

import "time"

// User is an identity account managed by the embedded auth endpoints.
// The password hash never leaves the repository layer in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile carries authorization data for an account. Its ID equals the
// auth user ID. ManagedRestaurantIDs is only meaningful for OWNER profiles.
type UserProfile struct {
	ID                   string    `json:"id"`
	Role                 Role      `json:"role"`
	ManagedRestaurantIDs []string  `json:"managed_restaurant_ids"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ManagesRestaurant reports whether the profile's managed set contains the
// given restaurant id.
func (p *UserProfile) ManagesRestaurant(restaurantID string) bool {
	for _, id := range p.ManagedRestaurantIDs {
		if id == restaurantID {
			return true
		}
	}
	return false
}
