package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sijuk_backend/internal/models"

	"github.com/lib/pq"
)

// UserRepository defines the interface for identity account and profile
// persistence.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	CountUsers() (int, error)

	CreateProfile(profile *models.UserProfile) error
	GetProfileByID(userID string) (*models.UserProfile, error)
	AddManagedRestaurant(userID, restaurantID string) error
	SetRole(userID string, role models.Role) error
	HasRole(role models.Role) (bool, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", ErrDuplicateKey, user.Email)
		}
		return fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *userRepository) GetUserByID(userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %s: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

func (r *userRepository) CountUsers() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting users: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *userRepository) CreateProfile(profile *models.UserProfile) error {
	query := `INSERT INTO user_profiles (id, role, managed_restaurant_ids, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}
	if profile.ManagedRestaurantIDs == nil {
		profile.ManagedRestaurantIDs = []string{}
	}

	_, err := r.db.Exec(query,
		profile.ID, string(profile.Role), pq.Array(profile.ManagedRestaurantIDs),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: profile for user %s", ErrDuplicateKey, profile.ID)
		}
		return fmt.Errorf("%w: creating profile: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *userRepository) GetProfileByID(userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	var role string
	query := `SELECT id, role, managed_restaurant_ids, created_at, updated_at
	          FROM user_profiles WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&profile.ID, &role, pq.Array(&profile.ManagedRestaurantIDs),
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting profile for user %s: %v", ErrDatabaseError, userID, err)
	}
	profile.Role = models.Role(role)
	return profile, nil
}

func (r *userRepository) AddManagedRestaurant(userID, restaurantID string) error {
	// array_append inside the database avoids a read-modify-write on the set.
	query := `UPDATE user_profiles
	          SET managed_restaurant_ids = array_append(managed_restaurant_ids, $2),
	              updated_at = NOW()
	          WHERE id = $1 AND NOT ($2 = ANY(managed_restaurant_ids))`
	res, err := r.db.Exec(query, userID, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: adding managed restaurant: %v", ErrDatabaseError, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: adding managed restaurant: %v", ErrDatabaseError, err)
	}
	if rows == 0 {
		// Either the profile is missing or the id is already in the set.
		// Distinguish so callers get ErrNotFound for missing profiles.
		if _, getErr := r.GetProfileByID(userID); getErr != nil {
			return getErr
		}
	}
	return nil
}

func (r *userRepository) SetRole(userID string, role models.Role) error {
	res, err := r.db.Exec(`UPDATE user_profiles SET role = $2, updated_at = NOW() WHERE id = $1`,
		userID, string(role))
	if err != nil {
		return fmt.Errorf("%w: setting role for user %s: %v", ErrDatabaseError, userID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: setting role for user %s: %v", ErrDatabaseError, userID, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) HasRole(role models.Role) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE role = $1)`
	err := r.db.QueryRow(query, string(role)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking for role %s: %v", ErrDatabaseError, role, err)
	}
	return exists, nil
}
