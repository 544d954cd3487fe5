package services

import (
	"errors"
	"fmt"
	"strings"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/pkg/utils"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// --- Data Transfer Objects (DTOs) ---

// CreateOwnerRestaurantRequest provisions an owner account together with
// their first restaurant.
type CreateOwnerRestaurantRequest struct {
	OwnerName     string           `json:"owner_name" binding:"required"`
	OwnerEmail    string           `json:"owner_email" binding:"required,email"`
	OwnerPassword string           `json:"owner_password" binding:"required,min=8"`
	Restaurant    RestaurantCreate `json:"restaurant" binding:"required"`
}

// RestaurantCreate carries the restaurant fields for creation.
type RestaurantCreate struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Location    models.Location `json:"location"`
}

// OwnerRestaurantResponse is returned after the combined creation flow.
type OwnerRestaurantResponse struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Owner      SessionUser       `json:"owner"`
}

// --- AdminService Interface ---
type AdminService interface {
	CreateOwnerWithRestaurant(actor models.Actor, req CreateOwnerRestaurantRequest) (*OwnerRestaurantResponse, error)
	ListRestaurants(actor models.Actor) ([]models.Restaurant, error)
	UpdateRestaurant(actor models.Actor, restaurantID string, patch models.RestaurantPatch) (*models.Restaurant, error)
}

// --- adminService Implementation ---
type adminService struct {
	restaurantRepo repositories.RestaurantRepository
	userRepo       repositories.UserRepository
	authService    AuthService
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(
	rr repositories.RestaurantRepository,
	ur repositories.UserRepository,
	as AuthService,
) AdminService {
	return &adminService{
		restaurantRepo: rr,
		userRepo:       ur,
		authService:    as,
	}
}

// CreateOwnerWithRestaurant provisions the owner identity, promotes the
// profile to OWNER, creates the restaurant with denormalized owner info
// and records the restaurant in the owner's managed set. The steps are
// independent writes; the account creation goes first so a failure later
// leaves an inert USER account rather than an orphaned restaurant.
func (s *adminService) CreateOwnerWithRestaurant(actor models.Actor, req CreateOwnerRestaurantRequest) (*OwnerRestaurantResponse, error) {
	if !actor.Role.Can(models.OpManageRestaurants) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}

	ownerEmail := strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	if utils.IsEmpty(req.OwnerName) || !utils.IsValidEmail(ownerEmail) {
		return nil, fmt.Errorf("%w: owner name and a valid email are required", ErrValidation)
	}
	if !utils.IsValidPasswordLength(req.OwnerPassword, 8) {
		return nil, fmt.Errorf("%w: owner password must be at least 8 characters", ErrValidation)
	}

	ownerUserID, err := s.authService.CreateAccount(req.OwnerName, ownerEmail, req.OwnerPassword)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create owner account: %w", err)
	}

	restaurant := models.Restaurant{
		ID:          utils.NewID(),
		Name:        req.Restaurant.Name,
		Description: utils.NewNullString(req.Restaurant.Description),
		Image:       utils.NewNullString(req.Restaurant.Image),
		Location:    req.Restaurant.Location,
		OwnerUserID: ownerUserID,
		OwnerName:   req.OwnerName,
		OwnerEmail:  ownerEmail,
		IsActive:    true,
	}
	if err := s.restaurantRepo.Create(&restaurant); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	ownerProfile := models.UserProfile{
		ID:                   ownerUserID,
		Role:                 models.RoleOwner,
		ManagedRestaurantIDs: []string{restaurant.ID},
	}
	if err := s.userRepo.CreateProfile(&ownerProfile); err != nil {
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create owner profile: %w", err)
		}
		// Profile already exists (account creation made a USER one).
		// Promote it by recording the managed restaurant; the role upgrade
		// rides along in the same statement set.
		if err := s.promoteToOwner(ownerUserID, restaurant.ID); err != nil {
			return nil, err
		}
	}

	return &OwnerRestaurantResponse{
		Restaurant: restaurant,
		Owner:      SessionUser{ID: ownerUserID, Name: req.OwnerName, Email: ownerEmail, Role: string(models.RoleOwner)},
	}, nil
}

func (s *adminService) promoteToOwner(userID, restaurantID string) error {
	if err := s.userRepo.AddManagedRestaurant(userID, restaurantID); err != nil {
		return fmt.Errorf("failed to attach restaurant to owner: %w", err)
	}
	profile, err := s.userRepo.GetProfileByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load owner profile: %w", err)
	}
	if profile.Role == models.RoleUser {
		if err := s.userRepo.SetRole(userID, models.RoleOwner); err != nil {
			return fmt.Errorf("failed to promote owner profile: %w", err)
		}
	}
	return nil
}

func (s *adminService) ListRestaurants(actor models.Actor) ([]models.Restaurant, error) {
	if !actor.Role.Can(models.OpManageRestaurants) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	restaurants, err := s.restaurantRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *adminService) UpdateRestaurant(actor models.Actor, restaurantID string, patch models.RestaurantPatch) (*models.Restaurant, error) {
	if !actor.Role.Can(models.OpManageRestaurants) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	restaurant, err := s.restaurantRepo.Update(restaurantID, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, restaurantID)
		}
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return restaurant, nil
}
