package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"sijuk_backend/internal/models"
)

// StockMovementRepository defines the interface for the append-only stock
// ledger. Movements are never updated or deleted.
type StockMovementRepository interface {
	Create(movement *models.StockMovement) error
	ListByProduct(productID string, limit int) ([]models.StockMovement, error)
	ListByRestaurant(restaurantID string, limit int) ([]models.StockMovement, error)
}

type stockMovementRepository struct {
	db *sql.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository(db *sql.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(movement *models.StockMovement) error {
	query := `INSERT INTO stock_movements
	            (id, restaurant_id, product_id, quantity, reason, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(query,
		movement.ID, movement.RestaurantID, movement.ProductID,
		movement.Quantity, movement.Reason, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *stockMovementRepository) ListByProduct(productID string, limit int) ([]models.StockMovement, error) {
	query := `SELECT id, restaurant_id, product_id, quantity, reason, created_by, created_at
	          FROM stock_movements WHERE product_id = $1
	          ORDER BY created_at DESC LIMIT $2`
	return r.queryMovements(query, productID, limit)
}

func (r *stockMovementRepository) ListByRestaurant(restaurantID string, limit int) ([]models.StockMovement, error) {
	query := `SELECT id, restaurant_id, product_id, quantity, reason, created_by, created_at
	          FROM stock_movements WHERE restaurant_id = $1
	          ORDER BY created_at DESC LIMIT $2`
	return r.queryMovements(query, restaurantID, limit)
}

func (r *stockMovementRepository) queryMovements(query string, args ...interface{}) ([]models.StockMovement, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		m := models.StockMovement{}
		err := rows.Scan(&m.ID, &m.RestaurantID, &m.ProductID, &m.Quantity, &m.Reason, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning stock movement row: %v", ErrDatabaseError, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock movement rows: %v", ErrDatabaseError, err)
	}
	return movements, nil
}
