package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sijuk_backend/internal/models"
)

// RestaurantRepository defines the interface for restaurant persistence.
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(restaurantID string) (*models.Restaurant, error)
	List() ([]models.Restaurant, error)
	ListByOwner(ownerUserID string) ([]models.Restaurant, error)
	Update(restaurantID string, patch models.RestaurantPatch) (*models.Restaurant, error)
	IsOwnedBy(restaurantID, ownerUserID string) (bool, error)
	Count() (int, error)
	CountByOwner(ownerUserID string) (int, error)
}

type restaurantRepository struct {
	db *sql.DB
}

// NewRestaurantRepository creates a new instance of RestaurantRepository.
func NewRestaurantRepository(db *sql.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

const restaurantColumns = `id, name, description, image,
	address, map_url, lat, lng,
	owner_user_id, owner_name, owner_email, is_active, created_at, updated_at`

func scanRestaurant(s scanner) (*models.Restaurant, error) {
	rst := &models.Restaurant{}
	err := s.Scan(
		&rst.ID, &rst.Name, &rst.Description, &rst.Image,
		&rst.Location.Address, &rst.Location.MapURL, &rst.Location.Lat, &rst.Location.Lng,
		&rst.OwnerUserID, &rst.OwnerName, &rst.OwnerEmail, &rst.IsActive,
		&rst.CreatedAt, &rst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rst, nil
}

func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	query := `INSERT INTO restaurants
	            (id, name, description, image, address, map_url, lat, lng,
	             owner_user_id, owner_name, owner_email, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if restaurant.CreatedAt.IsZero() {
		restaurant.CreatedAt = now
	}
	if restaurant.UpdatedAt.IsZero() {
		restaurant.UpdatedAt = now
	}

	_, err := r.db.Exec(query,
		restaurant.ID, restaurant.Name, restaurant.Description, restaurant.Image,
		restaurant.Location.Address, restaurant.Location.MapURL, restaurant.Location.Lat, restaurant.Location.Lng,
		restaurant.OwnerUserID, restaurant.OwnerName, restaurant.OwnerEmail, restaurant.IsActive,
		restaurant.CreatedAt, restaurant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: restaurant %s", ErrDuplicateKey, restaurant.ID)
		}
		return fmt.Errorf("%w: creating restaurant: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *restaurantRepository) GetByID(restaurantID string) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	rst, err := scanRestaurant(r.db.QueryRow(query, restaurantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting restaurant %s: %v", ErrDatabaseError, restaurantID, err)
	}
	return rst, nil
}

func (r *restaurantRepository) List() ([]models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY created_at DESC`
	return r.queryRestaurants(query)
}

func (r *restaurantRepository) ListByOwner(ownerUserID string) ([]models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_user_id = $1 ORDER BY created_at DESC`
	return r.queryRestaurants(query, ownerUserID)
}

func (r *restaurantRepository) queryRestaurants(query string, args ...interface{}) ([]models.Restaurant, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing restaurants: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		rst, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning restaurant row: %v", ErrDatabaseError, err)
		}
		restaurants = append(restaurants, *rst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating restaurant rows: %v", ErrDatabaseError, err)
	}
	return restaurants, nil
}

func (r *restaurantRepository) Update(restaurantID string, patch models.RestaurantPatch) (*models.Restaurant, error) {
	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Image != nil {
		addSet("image", *patch.Image)
	}
	if patch.IsActive != nil {
		addSet("is_active", *patch.IsActive)
	}
	if patch.Location != nil {
		addSet("address", patch.Location.Address)
		addSet("map_url", patch.Location.MapURL)
		addSet("lat", patch.Location.Lat)
		addSet("lng", patch.Location.Lng)
	}

	if len(setClauses) == 0 {
		return r.GetByID(restaurantID)
	}

	addSet("updated_at", time.Now())
	args = append(args, restaurantID)

	query := fmt.Sprintf(`UPDATE restaurants SET %s WHERE id = $%d RETURNING `+restaurantColumns,
		strings.Join(setClauses, ", "), argCounter)

	rst, err := scanRestaurant(r.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating restaurant %s: %v", ErrDatabaseError, restaurantID, err)
	}
	return rst, nil
}

func (r *restaurantRepository) IsOwnedBy(restaurantID, ownerUserID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1 AND owner_user_id = $2)`
	err := r.db.QueryRow(query, restaurantID, ownerUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking restaurant ownership: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

func (r *restaurantRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM restaurants`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting restaurants: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *restaurantRepository) CountByOwner(ownerUserID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM restaurants WHERE owner_user_id = $1`, ownerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting restaurants for owner: %v", ErrDatabaseError, err)
	}
	return count, nil
}
