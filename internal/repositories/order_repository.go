package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sijuk_backend/internal/models"
)

// OrderRepository defines the interface for order persistence. Line items
// are stored as a JSONB document inside the order row, so an order is
// always read and written as one unit.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(orderID string) (*models.Order, error)
	ListByRestaurant(filters models.OrderFilters) ([]models.Order, error)
	UpdateStatus(orderID, newStatus string) (*models.Order, error)
	Count() (int, error)
	CountByOwner(ownerUserID string) (int, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, restaurant_id, created_by, items, subtotal, tax, discount, total,
	status, notes, created_at, updated_at`

func scanOrder(s scanner) (*models.Order, error) {
	o := &models.Order{}
	var itemsJSON []byte
	err := s.Scan(
		&o.ID, &o.RestaurantID, &o.CreatedBy, &itemsJSON,
		&o.Subtotal, &o.Tax, &o.Discount, &o.Total,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decoding items for order %s: %w", o.ID, err)
	}
	return o, nil
}

func (r *orderRepository) Create(order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encoding order items: %w", err)
	}

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	query := `INSERT INTO orders
	            (id, restaurant_id, created_by, items, subtotal, tax, discount, total,
	             status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(query,
		order.ID, order.RestaurantID, order.CreatedBy, itemsJSON,
		order.Subtotal, order.Tax, order.Discount, order.Total,
		order.Status, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order %s", ErrDuplicateKey, order.ID)
		}
		return fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *orderRepository) GetByID(orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order %s: %v", ErrDatabaseError, orderID, err)
	}
	return o, nil
}

func (r *orderRepository) ListByRestaurant(filters models.OrderFilters) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE restaurant_id = $1
	          ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(query, filters.RestaurantID, filters.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order row: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(orderID, newStatus string) (*models.Order, error) {
	query := `UPDATE orders SET status = $2, updated_at = NOW()
	          WHERE id = $1
	          RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(query, orderID, newStatus))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating status for order %s: %v", ErrDatabaseError, orderID, err)
	}
	return o, nil
}

func (r *orderRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting orders: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *orderRepository) CountByOwner(ownerUserID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders o
	          JOIN restaurants r ON o.restaurant_id = r.id
	          WHERE r.owner_user_id = $1`
	err := r.db.QueryRow(query, ownerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting orders for owner: %v", ErrDatabaseError, err)
	}
	return count, nil
}
