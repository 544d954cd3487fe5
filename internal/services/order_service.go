package services

import (
	"errors"
	"fmt"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/pkg/utils"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderProductNotFound    = errors.New("product not found in this restaurant")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
)

const (
	defaultOrderListLimit = 20
	maxOrderListLimit     = 100
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest selects a product plus its options. Variant and
// addons are referenced by name and resolved against the product at order
// time.
type CreateOrderItemRequest struct {
	ProductID string   `json:"product_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,gt=0"`
	Variant   *string  `json:"variant"`
	Addons    []string `json:"addons"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	RestaurantID string                   `json:"restaurant_id" binding:"required"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes        *string                  `json:"notes"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(actor models.Actor, req CreateOrderRequest) (*models.Order, error)
	GetOrders(actor models.Actor, filters models.OrderFilters) ([]models.Order, error)
	GetOrderByID(actor models.Actor, orderID string) (*models.Order, error)
	UpdateOrderStatus(actor models.Actor, orderID string, req UpdateOrderStatusRequest) (*models.Order, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo        repositories.OrderRepository
	productRepo      repositories.ProductRepository
	restaurantRepo   repositories.RestaurantRepository
	movementRepo     repositories.StockMovementRepository
	notificationRepo repositories.NotificationRepository
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	pr repositories.ProductRepository,
	rr repositories.RestaurantRepository,
	mr repositories.StockMovementRepository,
	nr repositories.NotificationRepository,
) OrderService {
	return &orderService{
		orderRepo:        or,
		productRepo:      pr,
		restaurantRepo:   rr,
		movementRepo:     mr,
		notificationRepo: nr,
	}
}

// CreateOrder runs the order placement pipeline: authorization, catalog
// lookup, pricing, the order write, clamped stock decrements with ledger
// entries, and a best-effort owner notification. Validation and pricing
// complete before the first write, so a rejected order leaves no trace.
func (s *orderService) CreateOrder(actor models.Actor, req CreateOrderRequest) (*models.Order, error) {
	if !actor.Role.Can(models.OpCreateOrder) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if err := ensureRestaurantAccess(actor, req.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be positive", ErrValidation, item.ProductID)
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetByIDsForRestaurant(req.RestaurantID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productsByID := make(map[string]*models.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product, ok := productsByID[itemReq.ProductID]
		if !ok {
			// A single foreign or unknown product id rejects the whole order.
			return nil, fmt.Errorf("%w: %s", ErrOrderProductNotFound, itemReq.ProductID)
		}

		unitPrice := product.BasePrice

		var variant *models.Variant
		if itemReq.Variant != nil && *itemReq.Variant != "" {
			variant = product.FindVariant(*itemReq.Variant)
			if variant == nil {
				return nil, fmt.Errorf("%w: product %s has no variant %q", ErrValidation, product.ID, *itemReq.Variant)
			}
			unitPrice = utils.RoundCurrency(unitPrice + variant.PriceDelta)
		}

		addons := make([]models.Addon, 0, len(itemReq.Addons))
		for _, addonName := range itemReq.Addons {
			addon := product.FindAddon(addonName)
			if addon == nil {
				return nil, fmt.Errorf("%w: product %s has no addon %q", ErrValidation, product.ID, addonName)
			}
			addons = append(addons, *addon)
			unitPrice = utils.RoundCurrency(unitPrice + addon.Price)
		}

		itemTotal := utils.RoundCurrency(unitPrice * float64(itemReq.Quantity))
		subtotal = utils.RoundCurrency(subtotal + itemTotal)

		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			BasePrice: product.BasePrice,
			Quantity:  itemReq.Quantity,
			Variant:   variant,
			Addons:    addons,
			Total:     itemTotal,
		})
	}

	order := models.Order{
		ID:           utils.NewID(),
		RestaurantID: req.RestaurantID,
		CreatedBy:    actor.UserID,
		Items:        orderItems,
		Subtotal:     subtotal,
		Tax:          0,
		Discount:     0,
		Total:        subtotal,
		Status:       models.OrderStatusPending,
		Notes:        req.Notes,
	}
	if err := s.orderRepo.Create(&order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Stock updates and notifications run after the order is committed.
	// Each decrement is atomic and clamped at zero; failures here are
	// logged but never fail the already-placed order.
	for _, item := range orderItems {
		newStock, err := s.productRepo.AdjustStock(item.ProductID, -item.Quantity)
		if err != nil {
			utils.LogError(err, "CreateOrder: stock decrement failed for product "+item.ProductID)
			continue
		}
		movement := models.StockMovement{
			ID:           utils.NewID(),
			RestaurantID: order.RestaurantID,
			ProductID:    item.ProductID,
			Quantity:     -item.Quantity,
			Reason:       models.MovementReasonOrder,
			CreatedBy:    actor.UserID,
		}
		if err := s.movementRepo.Create(&movement); err != nil {
			utils.LogError(err, "CreateOrder: stock movement record failed for product "+item.ProductID)
		}
		if newStock == 0 {
			s.notifyLowStock(order.RestaurantID, item.ProductID, item.Name)
		}
	}

	s.notifyNewOrder(&order)

	return &order, nil
}

// notifyNewOrder sends the NEW_ORDER notification to the restaurant owner.
// Best effort: errors are logged and swallowed.
func (s *orderService) notifyNewOrder(order *models.Order) {
	restaurant, err := s.restaurantRepo.GetByID(order.RestaurantID)
	if err != nil {
		utils.LogError(err, "CreateOrder: could not load restaurant for notification")
		return
	}
	notification := models.Notification{
		ID:           utils.NewID(),
		UserID:       restaurant.OwnerUserID,
		RestaurantID: order.RestaurantID,
		Type:         models.NotificationTypeNewOrder,
		Title:        fmt.Sprintf("New order #%s", order.ID),
		Message:      fmt.Sprintf("%d items", len(order.Items)),
		Data:         map[string]string{"orderId": order.ID},
	}
	if err := s.notificationRepo.Create(&notification); err != nil {
		utils.LogError(err, "CreateOrder: owner notification failed for order "+order.ID)
	}
}

// notifyLowStock tells the owner a product just hit zero stock.
func (s *orderService) notifyLowStock(restaurantID, productID, productName string) {
	restaurant, err := s.restaurantRepo.GetByID(restaurantID)
	if err != nil {
		utils.LogError(err, "CreateOrder: could not load restaurant for low-stock notification")
		return
	}
	notification := models.Notification{
		ID:           utils.NewID(),
		UserID:       restaurant.OwnerUserID,
		RestaurantID: restaurantID,
		Type:         models.NotificationTypeLowStock,
		Title:        fmt.Sprintf("%s is out of stock", productName),
		Message:      fmt.Sprintf("Stock for %s reached zero", productName),
		Data:         map[string]string{"productId": productID},
	}
	if err := s.notificationRepo.Create(&notification); err != nil {
		utils.LogError(err, "CreateOrder: low-stock notification failed for product "+productID)
	}
}

func (s *orderService) GetOrders(actor models.Actor, filters models.OrderFilters) ([]models.Order, error) {
	if !actor.Role.Can(models.OpViewOrders) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if filters.RestaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant_id is required", ErrValidation)
	}
	if err := ensureRestaurantAccess(actor, filters.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultOrderListLimit
	}
	if filters.Limit > maxOrderListLimit {
		filters.Limit = maxOrderListLimit
	}
	orders, err := s.orderRepo.ListByRestaurant(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(actor models.Actor, orderID string) (*models.Order, error) {
	if !actor.Role.Can(models.OpViewOrders) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if err := ensureRestaurantAccess(actor, order.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(actor models.Actor, orderID string, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !actor.Role.Can(models.OpUpdateOrderStatus) {
		return nil, fmt.Errorf("%w: role %s", ErrForbidden, actor.Role)
	}
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if err := ensureRestaurantAccess(actor, order.RestaurantID, s.restaurantRepo); err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, req.Status)
	}

	updated, err := s.orderRepo.UpdateStatus(orderID, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return updated, nil
}
