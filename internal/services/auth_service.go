package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// SignUpRequest DTO
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignInRequest DTO
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionUser is the sanitized account view returned by auth endpoints.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse DTO
type AuthResponse struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

// --- AuthService Interface ---
//
// CreateAccount exists for the admin flow that provisions owner accounts;
// it creates the identity without issuing a session.
type AuthService interface {
	SignUp(req SignUpRequest) (*AuthResponse, error)
	SignIn(req SignInRequest) (*AuthResponse, error)
	GetSession(userID string) (*SessionUser, error)
	CreateAccount(name, email, password string) (string, error)
}

// --- localAuthService Implementation ---
//
// Credentials live in the local users table; sessions are signed tokens.
type localAuthService struct {
	userRepo repositories.UserRepository
}

// NewLocalAuthService creates an AuthService backed by the local user store.
func NewLocalAuthService(userRepo repositories.UserRepository) AuthService {
	return &localAuthService{userRepo: userRepo}
}

func (s *localAuthService) SignUp(req SignUpRequest) (*AuthResponse, error) {
	userID, err := s.CreateAccount(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueSession(userID)
}

func (s *localAuthService) SignIn(req SignInRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user.ID)
}

func (s *localAuthService) GetSession(userID string) (*SessionUser, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	role := s.lookupRole(user.ID)
	return &SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: role}, nil
}

func (s *localAuthService) CreateAccount(name, email, password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
	}

	if err := s.userRepo.CreateUser(&user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	// Every account gets a profile; role defaults to USER until an admin
	// flow assigns something else.
	profile := models.UserProfile{ID: user.ID, Role: models.RoleUser}
	if err := s.userRepo.CreateProfile(&profile); err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	return user.ID, nil
}

func (s *localAuthService) issueSession(userID string) (*AuthResponse, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	role := s.lookupRole(user.ID)

	token, err := utils.GenerateSessionToken(user.ID, user.Email, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		User:  SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: role},
		Token: token,
	}, nil
}

// lookupRole returns the stored role, defaulting to USER when the profile
// is missing. The auth middleware re-reads the profile on every request,
// so the role claim in the token is only a hint.
func (s *localAuthService) lookupRole(userID string) string {
	profile, err := s.userRepo.GetProfileByID(userID)
	if err != nil {
		return string(models.RoleUser)
	}
	return string(profile.Role)
}

// --- remoteAuthService Implementation ---
//
// When AUTH_SERVICE_URL is configured, sign-up/sign-in/get-session are
// reverse-proxied at the handler layer and only account provisioning goes
// through this client.
type remoteAuthService struct {
	baseURL    string
	httpClient *http.Client
	userRepo   repositories.UserRepository
}

// NewRemoteAuthService creates an AuthService that delegates account
// creation to an external identity provider.
func NewRemoteAuthService(baseURL string, userRepo repositories.UserRepository) AuthService {
	return &remoteAuthService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userRepo:   userRepo,
	}
}

func (s *remoteAuthService) SignUp(SignUpRequest) (*AuthResponse, error) {
	return nil, errors.New("sign-up is handled by the external auth service")
}

func (s *remoteAuthService) SignIn(SignInRequest) (*AuthResponse, error) {
	return nil, errors.New("sign-in is handled by the external auth service")
}

func (s *remoteAuthService) GetSession(string) (*SessionUser, error) {
	return nil, errors.New("sessions are handled by the external auth service")
}

func (s *remoteAuthService) CreateAccount(name, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode account payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.baseURL+"/sign-up/email", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", ErrEmailExists
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode auth service response: %w", err)
	}
	if body.User.ID == "" {
		return "", errors.New("auth service response missing user id")
	}

	// Mirror the profile locally; the profile store stays the single
	// authorization source of truth either way.
	profile := models.UserProfile{ID: body.User.ID, Role: models.RoleUser}
	if err := s.userRepo.CreateProfile(&profile); err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	return body.User.ID, nil
}
