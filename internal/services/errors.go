package services

import (
	"errors"
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
)

// Cross-cutting service errors. Handlers map these onto HTTP responses
// with errors.Is.
var (
	ErrForbidden  = errors.New("operation not permitted for this account")
	ErrValidation = errors.New("validation failed")
)

// ensureRestaurantAccess verifies that the actor may operate on the given
// restaurant. Elevated roles pass unconditionally; owners must own the
// restaurant. The check runs before any side effect.
func ensureRestaurantAccess(actor models.Actor, restaurantID string, restaurantRepo repositories.RestaurantRepository) error {
	if actor.Role.Elevated() {
		return nil
	}
	if actor.Role != models.RoleOwner {
		return fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	owned, err := restaurantRepo.IsOwnedBy(restaurantID, actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to check restaurant ownership: %w", err)
	}
	if !owned {
		return fmt.Errorf("%w: restaurant %s is not managed by this account", ErrForbidden, restaurantID)
	}
	return nil
}
