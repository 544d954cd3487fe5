package services

import (
	"errors"
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/pkg/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// --- Data Transfer Objects (DTOs) ---

// CreateProductRequest carries the fields for a new menu product.
type CreateProductRequest struct {
	RestaurantID string           `json:"restaurant_id" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Description  *string          `json:"description"`
	Image        *string          `json:"image"`
	Type         string           `json:"type" binding:"required,oneof=FOOD BEVERAGE"`
	Category     *string          `json:"category"`
	BasePrice    float64          `json:"base_price" binding:"min=0"`
	Variants     []models.Variant `json:"variants"`
	Addons       []models.Addon   `json:"addons"`
	Stock        int              `json:"stock" binding:"min=0"`
}

// AdjustStockRequest applies a signed delta to a product's stock.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Reason    string `json:"reason"`
}

// AdjustStockResponse reports the stock level after the adjustment.
type AdjustStockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// StockMovementsQuery narrows the ledger listing. Exactly one of ProductID
// or RestaurantID selects the scope; ProductID wins when both are set.
type StockMovementsQuery struct {
	RestaurantID string
	ProductID    string
	Limit        int
}

const (
	defaultMovementListLimit = 20
	maxMovementListLimit     = 100
)

// --- CatalogService Interface ---
type CatalogService interface {
	MyRestaurants(actor models.Actor) ([]models.Restaurant, error)
	ListProducts(actor models.Actor, restaurantID string) ([]models.Product, error)
	CreateProduct(actor models.Actor, req CreateProductRequest) (*models.Product, error)
	UpdateProduct(actor models.Actor, productID string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(actor models.Actor, productID string) error
	AdjustStock(actor models.Actor, req AdjustStockRequest) (*AdjustStockResponse, error)
	ListStockMovements(actor models.Actor, query StockMovementsQuery) ([]models.StockMovement, error)
}

// --- catalogService Implementation ---
type catalogService struct {
	restaurantRepo repositories.RestaurantRepository
	productRepo    repositories.ProductRepository
	movementRepo   repositories.StockMovementRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	rr repositories.RestaurantRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
) CatalogService {
	return &catalogService{
		restaurantRepo: rr,
		productRepo:    pr,
		movementRepo:   mr,
	}
}

func (s *catalogService) MyRestaurants(actor models.Actor) ([]models.Restaurant, error) {
	if !actor.Role.Can(models.OpViewRestaurants) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if actor.Role.Elevated() {
		restaurants, err := s.restaurantRepo.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list restaurants: %w", err)
		}
		return restaurants, nil
	}
	restaurants, err := s.restaurantRepo.ListByOwner(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *catalogService) ListProducts(actor models.Actor, restaurantID string) ([]models.Product, error) {
	if !actor.Role.Can(models.OpManageProducts) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if err := ensureRestaurantAccess(actor, restaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListByRestaurant(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *catalogService) CreateProduct(actor models.Actor, req CreateProductRequest) (*models.Product, error) {
	if !actor.Role.Can(models.OpManageProducts) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if err := ensureRestaurantAccess(actor, req.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}

	product := models.Product{
		ID:           utils.NewID(),
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		Type:         req.Type,
		Category:     req.Category,
		BasePrice:    utils.RoundCurrency(req.BasePrice),
		Variants:     req.Variants,
		Addons:       req.Addons,
		Stock:        req.Stock,
		IsActive:     true,
	}
	if err := s.productRepo.Create(&product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *catalogService) UpdateProduct(actor models.Actor, productID string, patch models.ProductPatch) (*models.Product, error) {
	if !actor.Role.Can(models.OpManageProducts) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	existing, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := ensureRestaurantAccess(actor, existing.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}
	if patch.BasePrice != nil {
		rounded := utils.RoundCurrency(*patch.BasePrice)
		patch.BasePrice = &rounded
	}
	product, err := s.productRepo.Update(productID, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product. Deleting something already gone is not
// an error; the end state is the same.
func (s *catalogService) DeleteProduct(actor models.Actor, productID string) error {
	if !actor.Role.Can(models.OpManageProducts) {
		return fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	existing, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load product: %w", err)
	}
	if err := ensureRestaurantAccess(actor, existing.RestaurantID, s.restaurantRepo); err != nil {
		return err
	}
	if _, err := s.productRepo.Delete(productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AdjustStock applies max(0, current + quantity) in one atomic statement
// and appends a ledger entry recording the requested delta.
func (s *catalogService) AdjustStock(actor models.Actor, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if !actor.Role.Can(models.OpAdjustStock) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := ensureRestaurantAccess(actor, product.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}

	newStock, err := s.productRepo.AdjustStock(req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	reason := req.Reason
	if reason == "" {
		reason = models.MovementReasonManual
	}
	movement := models.StockMovement{
		ID:           utils.NewID(),
		RestaurantID: product.RestaurantID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Reason:       reason,
		CreatedBy:    actor.UserID,
	}
	if err := s.movementRepo.Create(&movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	return &AdjustStockResponse{ProductID: req.ProductID, Stock: newStock}, nil
}

// ListStockMovements returns the ledger history for one product or one
// restaurant, newest first.
func (s *catalogService) ListStockMovements(actor models.Actor, query StockMovementsQuery) ([]models.StockMovement, error) {
	if !actor.Role.Can(models.OpAdjustStock) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if query.Limit <= 0 {
		query.Limit = defaultMovementListLimit
	}
	if query.Limit > maxMovementListLimit {
		query.Limit = maxMovementListLimit
	}

	if query.ProductID != "" {
		product, err := s.productRepo.GetByID(query.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, query.ProductID)
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if err := ensureRestaurantAccess(actor, product.RestaurantID, s.restaurantRepo); err != nil {
			return nil, err
		}
		movements, err := s.movementRepo.ListByProduct(query.ProductID, query.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list stock movements: %w", err)
		}
		return movements, nil
	}

	if query.RestaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant_id or product_id is required", ErrValidation)
	}
	if err := ensureRestaurantAccess(actor, query.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByRestaurant(query.RestaurantID, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}
