package utils

import "github.com/google/uuid"

// NewID generates a new string identifier for an entity.
func NewID() string {
	return uuid.NewString()
}
