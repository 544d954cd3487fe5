package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sijuk_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product persistence.
// Variants and addons round-trip through JSONB columns.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(productID string) (*models.Product, error)
	GetByIDsForRestaurant(restaurantID string, productIDs []string) ([]models.Product, error)
	ListByRestaurant(restaurantID string) ([]models.Product, error)
	Update(productID string, patch models.ProductPatch) (*models.Product, error)
	Delete(productID string) (int64, error)
	AdjustStock(productID string, delta int) (int, error)
	Count() (int, error)
	CountByOwner(ownerUserID string) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, restaurant_id, name, description, image, type, category,
	base_price, variants, addons, stock, is_active, created_at, updated_at`

func scanProduct(s scanner) (*models.Product, error) {
	p := &models.Product{}
	var variantsJSON, addonsJSON []byte
	err := s.Scan(
		&p.ID, &p.RestaurantID, &p.Name, &p.Description, &p.Image, &p.Type, &p.Category,
		&p.BasePrice, &variantsJSON, &addonsJSON, &p.Stock, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
		return nil, fmt.Errorf("decoding variants for product %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(addonsJSON, &p.Addons); err != nil {
		return nil, fmt.Errorf("decoding addons for product %s: %w", p.ID, err)
	}
	return p, nil
}

func marshalOptions(variants []models.Variant, addons []models.Addon) ([]byte, []byte, error) {
	if variants == nil {
		variants = []models.Variant{}
	}
	if addons == nil {
		addons = []models.Addon{}
	}
	variantsJSON, err := json.Marshal(variants)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding variants: %w", err)
	}
	addonsJSON, err := json.Marshal(addons)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding addons: %w", err)
	}
	return variantsJSON, addonsJSON, nil
}

func (r *productRepository) Create(product *models.Product) error {
	variantsJSON, addonsJSON, err := marshalOptions(product.Variants, product.Addons)
	if err != nil {
		return err
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	query := `INSERT INTO products
	            (id, restaurant_id, name, description, image, type, category,
	             base_price, variants, addons, stock, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.Exec(query,
		product.ID, product.RestaurantID, product.Name, product.Description, product.Image,
		product.Type, product.Category, product.BasePrice, variantsJSON, addonsJSON,
		product.Stock, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %s", ErrDuplicateKey, product.ID)
		}
		return fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *productRepository) GetByID(productID string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %s: %v", ErrDatabaseError, productID, err)
	}
	return p, nil
}

// GetByIDsForRestaurant fetches the given products scoped to one restaurant.
// Products belonging to other restaurants are simply absent from the result;
// the caller decides whether that is an error.
func (r *productRepository) GetByIDsForRestaurant(restaurantID string, productIDs []string) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE restaurant_id = $1 AND id = ANY($2)`
	return r.queryProducts(query, restaurantID, pq.Array(productIDs))
}

func (r *productRepository) ListByRestaurant(restaurantID string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE restaurant_id = $1 ORDER BY created_at DESC`
	return r.queryProducts(query, restaurantID)
}

func (r *productRepository) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product row: %v", ErrDatabaseError, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) Update(productID string, patch models.ProductPatch) (*models.Product, error) {
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
	if patch.Type != nil {
		addSet("type", *patch.Type)
	}
	if patch.Category != nil {
		addSet("category", *patch.Category)
	}
	if patch.BasePrice != nil {
		addSet("base_price", *patch.BasePrice)
	}
	if patch.Variants != nil {
		variantsJSON, err := json.Marshal(*patch.Variants)
		if err != nil {
			return nil, fmt.Errorf("encoding variants: %w", err)
		}
		addSet("variants", variantsJSON)
	}
	if patch.Addons != nil {
		addonsJSON, err := json.Marshal(*patch.Addons)
		if err != nil {
			return nil, fmt.Errorf("encoding addons: %w", err)
		}
		addSet("addons", addonsJSON)
	}
	if patch.IsActive != nil {
		addSet("is_active", *patch.IsActive)
	}

	if len(setClauses) == 0 {
		return r.GetByID(productID)
	}

	addSet("updated_at", time.Now())
	args = append(args, productID)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING `+productColumns,
		strings.Join(setClauses, ", "), argCounter)

	p, err := scanProduct(r.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating product %s: %v", ErrDatabaseError, productID, err)
	}
	return p, nil
}

func (r *productRepository) Delete(productID string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting product %s: %v", ErrDatabaseError, productID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: deleting product %s: %v", ErrDatabaseError, productID, err)
	}
	return rows, nil
}

// AdjustStock applies a signed delta to a product's stock in a single
// statement. The clamp at zero happens inside the UPDATE, so concurrent
// adjustments can never drive stock negative.
func (r *productRepository) AdjustStock(productID string, delta int) (int, error) {
	var newStock int
	query := `UPDATE products
	          SET stock = GREATEST(0, stock + $2), updated_at = NOW()
	          WHERE id = $1
	          RETURNING stock`
	err := r.db.QueryRow(query, productID, delta).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for product %s: %v", ErrDatabaseError, productID, err)
	}
	return newStock, nil
}

func (r *productRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *productRepository) CountByOwner(ownerUserID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products p
	          JOIN restaurants r ON p.restaurant_id = r.id
	          WHERE r.owner_user_id = $1`
	err := r.db.QueryRow(query, ownerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products for owner: %v", ErrDatabaseError, err)
	}
	return count, nil
}
