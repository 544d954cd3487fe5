package services

import (
	"errors"
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
)

// SeedSuperAdminRequest bootstraps the first SUPER_ADMIN account.
type SeedSuperAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SeedSuperAdminResponse reports whether the seed happened. Created is
// false when a super admin already exists; the endpoint is then a no-op.
type SeedSuperAdminResponse struct {
	Created bool   `json:"created"`
	UserID  string `json:"user_id,omitempty"`
}

// --- SystemService Interface ---
type SystemService interface {
	SeedSuperAdmin(req SeedSuperAdminRequest) (*SeedSuperAdminResponse, error)
}

// --- systemService Implementation ---
type systemService struct {
	userRepo    repositories.UserRepository
	authService AuthService
}

// NewSystemService creates a new instance of SystemService.
func NewSystemService(ur repositories.UserRepository, as AuthService) SystemService {
	return &systemService{userRepo: ur, authService: as}
}

// SeedSuperAdmin is deliberately public: it only works while no
// SUPER_ADMIN profile exists, which is exactly the window where nobody
// could call an authenticated variant.
func (s *systemService) SeedSuperAdmin(req SeedSuperAdminRequest) (*SeedSuperAdminResponse, error) {
	exists, err := s.userRepo.HasRole(models.RoleSuperAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing super admin: %w", err)
	}
	if exists {
		return &SeedSuperAdminResponse{Created: false}, nil
	}

	userID, err := s.authService.CreateAccount(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create super admin account: %w", err)
	}

	if err := s.userRepo.SetRole(userID, models.RoleSuperAdmin); err != nil {
		return nil, fmt.Errorf("failed to promote super admin profile: %w", err)
	}

	return &SeedSuperAdminResponse{Created: true, UserID: userID}, nil
}
