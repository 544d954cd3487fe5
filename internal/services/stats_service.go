package services

import (
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
)

// StatsResponse carries role-scoped entity counts. Users is only present
// for elevated roles.
type StatsResponse struct {
	Restaurants int  `json:"restaurants"`
	Products    int  `json:"products"`
	Orders      int  `json:"orders"`
	Users       *int `json:"users,omitempty"`
}

// --- StatsService Interface ---
type StatsService interface {
	Stats(actor models.Actor) (*StatsResponse, error)
}

// --- statsService Implementation ---
type statsService struct {
	restaurantRepo repositories.RestaurantRepository
	productRepo    repositories.ProductRepository
	orderRepo      repositories.OrderRepository
	userRepo       repositories.UserRepository
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	rr repositories.RestaurantRepository,
	pr repositories.ProductRepository,
	or repositories.OrderRepository,
	ur repositories.UserRepository,
) StatsService {
	return &statsService{
		restaurantRepo: rr,
		productRepo:    pr,
		orderRepo:      or,
		userRepo:       ur,
	}
}

// Stats returns global counts for elevated roles and counts scoped to the
// caller's restaurants for owners.
func (s *statsService) Stats(actor models.Actor) (*StatsResponse, error) {
	if !actor.Role.Can(models.OpViewStats) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}

	if actor.Role.Elevated() {
		restaurants, err := s.restaurantRepo.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count restaurants: %w", err)
		}
		products, err := s.productRepo.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
		orders, err := s.orderRepo.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
		users, err := s.userRepo.CountUsers()
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		return &StatsResponse{
			Restaurants: restaurants,
			Products:    products,
			Orders:      orders,
			Users:       &users,
		}, nil
	}

	restaurants, err := s.restaurantRepo.CountByOwner(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count owned restaurants: %w", err)
	}
	products, err := s.productRepo.CountByOwner(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count owned products: %w", err)
	}
	orders, err := s.orderRepo.CountByOwner(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count owned orders: %w", err)
	}
	return &StatsResponse{
		Restaurants: restaurants,
		Products:    products,
		Orders:      orders,
	}, nil
}
