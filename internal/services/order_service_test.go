package services

import (
	"testing"

	"sijuk_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	orders        *fakeOrderRepo
	products      *fakeProductRepo
	restaurants   *fakeRestaurantRepo
	movements     *fakeMovementRepo
	notifications *fakeNotificationRepo
	service       OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orders:        newFakeOrderRepo(),
		products:      newFakeProductRepo(),
		restaurants:   newFakeRestaurantRepo(),
		movements:     newFakeMovementRepo(),
		notifications: newFakeNotificationRepo(),
	}
	f.service = NewOrderService(f.orders, f.products, f.restaurants, f.movements, f.notifications)

	f.restaurants.Create(&models.Restaurant{
		ID:          "rest-1",
		Name:        "Warung Satu",
		OwnerUserID: "owner-1",
		OwnerName:   "Owner One",
		OwnerEmail:  "owner1@example.com",
		IsActive:    true,
	})
	f.restaurants.Create(&models.Restaurant{
		ID:          "rest-2",
		Name:        "Warung Dua",
		OwnerUserID: "owner-2",
		OwnerName:   "Owner Two",
		OwnerEmail:  "owner2@example.com",
		IsActive:    true,
	})
	return f
}

func (f *orderServiceFixture) addProduct(id, restaurantID string, price float64, stock int) {
	f.products.Create(&models.Product{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         "Product " + id,
		Type:         models.ProductTypeFood,
		BasePrice:    price,
		Stock:        stock,
		IsActive:     true,
	})
}

var ownerActor = models.Actor{UserID: "owner-1", Role: models.RoleOwner}

func TestCreateOrderPricingAndStock(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 9.99, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-1", Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 9.99 * 3 must be exactly 29.97 at currency precision.
	assert.Equal(t, 29.97, order.Total)
	assert.Equal(t, 29.97, order.Subtotal)
	assert.Equal(t, 0.0, order.Tax)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 29.97, order.Items[0].Total)
	assert.Equal(t, 9.99, order.Items[0].BasePrice)

	product, err := f.products.GetByID("prod-1")
	require.NoError(t, err)
	assert.Equal(t, 7, product.Stock)

	movements, _ := f.movements.ListByProduct("prod-1", 10)
	require.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Quantity)
	assert.Equal(t, models.MovementReasonOrder, movements[0].Reason)
	assert.Equal(t, "owner-1", movements[0].CreatedBy)
}

func TestCreateOrderVariantAndAddonPricing(t *testing.T) {
	f := newOrderServiceFixture()
	f.products.Create(&models.Product{
		ID:           "prod-combo",
		RestaurantID: "rest-1",
		Name:         "Nasi Goreng",
		Type:         models.ProductTypeFood,
		BasePrice:    5.00,
		Variants:     []models.Variant{{Name: "Large", PriceDelta: 1.50}},
		Addons:       []models.Addon{{Name: "Egg", Price: 0.75}, {Name: "Crackers", Price: 0.25}},
		Stock:        20,
		IsActive:     true,
	})

	large := "Large"
	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-combo", Quantity: 2, Variant: &large, Addons: []string{"Egg", "Crackers"}},
		},
	})
	require.NoError(t, err)

	// unit = 5.00 + 1.50 + 0.75 + 0.25 = 7.50; total = 7.50 * 2 = 15.00
	require.Len(t, order.Items, 1)
	assert.Equal(t, 15.00, order.Items[0].Total)
	assert.Equal(t, 15.00, order.Total)
	require.NotNil(t, order.Items[0].Variant)
	assert.Equal(t, "Large", order.Items[0].Variant.Name)
	assert.Len(t, order.Items[0].Addons, 2)
}

func TestCreateOrderUnknownVariantRejected(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 4.00, 5)

	missing := "Mega"
	_, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-1", Quantity: 1, Variant: &missing},
		},
	})
	assert.ErrorIs(t, err, ErrValidation)
	count, _ := f.orders.Count()
	assert.Zero(t, count)
}

func TestCreateOrderOversellClampsToZero(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-low", "rest-1", 2.50, 2)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-low", Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 12.50, order.Total)

	product, _ := f.products.GetByID("prod-low")
	assert.Equal(t, 0, product.Stock)

	// Hitting zero emits a LOW_STOCK notification alongside NEW_ORDER.
	owner, _ := f.notifications.ListByUser("owner-1", 10)
	types := []string{}
	for _, n := range owner {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, models.NotificationTypeLowStock)
	assert.Contains(t, types, models.NotificationTypeNewOrder)
}

func TestCreateOrderForeignProductRejectsWholeOrder(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 3.00, 10)
	f.addProduct("prod-foreign", "rest-2", 3.00, 10)

	_, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-1", Quantity: 1},
			{ProductID: "prod-foreign", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrOrderProductNotFound)

	// No partial writes: no order, no stock change, no ledger, no notifications.
	count, _ := f.orders.Count()
	assert.Zero(t, count)
	product, _ := f.products.GetByID("prod-1")
	assert.Equal(t, 10, product.Stock)
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.notifications.notifications)
}

func TestCreateOrderOwnerOutsideManagedSetForbidden(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-2", "rest-2", 3.00, 10)

	_, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-2",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-2", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrForbidden)
	count, _ := f.orders.Count()
	assert.Zero(t, count)
}

func TestCreateOrderUserRoleForbidden(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 3.00, 10)

	_, err := f.service.CreateOrder(models.Actor{UserID: "user-1", Role: models.RoleUser}, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateOrderAdminBypassesOwnership(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-2", "rest-2", 4.00, 10)

	order, err := f.service.CreateOrder(models.Actor{UserID: "admin-1", Role: models.RoleAdmin}, CreateOrderRequest{
		RestaurantID: "rest-2",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-2", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8.00, order.Total)
}

func TestCreateOrderNotifiesRestaurantOwner(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 9.99, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items: []CreateOrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
		},
	})
	require.NoError(t, err)

	owner, _ := f.notifications.ListByUser("owner-1", 10)
	require.Len(t, owner, 1)
	n := owner[0]
	assert.Equal(t, models.NotificationTypeNewOrder, n.Type)
	assert.Equal(t, "New order #"+order.ID, n.Title)
	assert.Equal(t, "1 items", n.Message)
	assert.Equal(t, order.ID, n.Data["orderId"])
	assert.False(t, n.Read)
}

func TestCreateOrderSucceedsWhenNotificationFails(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 9.99, 10)
	f.notifications.failCreate = true

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	fetched, err := f.service.GetOrderByID(ownerActor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestGetOrderByIDIsIdempotent(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 9.99, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 3}},
	})
	require.NoError(t, err)

	first, err := f.service.GetOrderByID(ownerActor, order.ID)
	require.NoError(t, err)
	second, err := f.service.GetOrderByID(ownerActor, order.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Total, second.Total)
}

func TestGetOrdersRequiresRestaurantAndClampsLimit(t *testing.T) {
	f := newOrderServiceFixture()

	_, err := f.service.GetOrders(ownerActor, models.OrderFilters{})
	assert.ErrorIs(t, err, ErrValidation)

	f.addProduct("prod-1", "rest-1", 1.00, 1000)
	for i := 0; i < 25; i++ {
		_, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
			RestaurantID: "rest-1",
			Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	orders, err := f.service.GetOrders(ownerActor, models.OrderFilters{RestaurantID: "rest-1"})
	require.NoError(t, err)
	assert.Len(t, orders, defaultOrderListLimit)

	orders, err = f.service.GetOrders(ownerActor, models.OrderFilters{RestaurantID: "rest-1", Limit: 500})
	require.NoError(t, err)
	assert.Len(t, orders, 25)
}

func TestUpdateOrderStatusFollowsTransitionGraph(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 5.00, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)

	// PENDING -> READY skips a step and is rejected.
	_, err = f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusReady})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// PENDING -> CANCELLED is allowed.
	updated, err := f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	// CANCELLED is terminal.
	_, err = f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusPending})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateOrderStatusTerminalCompleted(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 5.00, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusCompleted,
	} {
		_, err := f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: status})
		require.NoError(t, err, "transition to %s", status)
	}

	_, err = f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusPending})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-1", "rest-1", 5.00, 10)

	order, err := f.service.CreateOrder(ownerActor, CreateOrderRequest{
		RestaurantID: "rest-1",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: "SHIPPED"})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestGetOrderOwnerOutsideManagedSetForbidden(t *testing.T) {
	f := newOrderServiceFixture()
	f.addProduct("prod-2", "rest-2", 5.00, 10)

	admin := models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	order, err := f.service.CreateOrder(admin, CreateOrderRequest{
		RestaurantID: "rest-2",
		Items:        []CreateOrderItemRequest{{ProductID: "prod-2", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.service.GetOrderByID(ownerActor, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.GetOrders(ownerActor, models.OrderFilters{RestaurantID: "rest-2"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.UpdateOrderStatus(ownerActor, order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	assert.ErrorIs(t, err, ErrForbidden)
}
