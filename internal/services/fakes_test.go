package services

import (
	"errors"
	"sort"
	"time"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
)

// In-memory repository fakes. They mirror the semantics the SQL
// implementations get from the database (clamped stock updates,
// recipient-scoped notification updates) so service tests exercise the
// same behavior end to end.

// --- fakeUserRepo ---

type fakeUserRepo struct {
	users    map[string]*models.User
	profiles map[string]*models.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[string]*models.User{},
		profiles: map[string]*models.UserProfile{},
	}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByID(userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) CountUsers() (int, error) { return len(f.users), nil }

func (f *fakeUserRepo) CreateProfile(profile *models.UserProfile) error {
	if _, ok := f.profiles[profile.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	cp := *profile
	if cp.ManagedRestaurantIDs == nil {
		cp.ManagedRestaurantIDs = []string{}
	}
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetProfileByID(userID string) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUserRepo) AddManagedRestaurant(userID, restaurantID string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	if !p.ManagesRestaurant(restaurantID) {
		p.ManagedRestaurantIDs = append(p.ManagedRestaurantIDs, restaurantID)
	}
	return nil
}

func (f *fakeUserRepo) SetRole(userID string, role models.Role) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Role = role
	return nil
}

func (f *fakeUserRepo) HasRole(role models.Role) (bool, error) {
	for _, p := range f.profiles {
		if p.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// --- fakeRestaurantRepo ---

type fakeRestaurantRepo struct {
	restaurants map[string]*models.Restaurant
}

func newFakeRestaurantRepo() *fakeRestaurantRepo {
	return &fakeRestaurantRepo{restaurants: map[string]*models.Restaurant{}}
}

func (f *fakeRestaurantRepo) Create(r *models.Restaurant) error {
	if _, ok := f.restaurants[r.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	cp := *r
	f.restaurants[r.ID] = &cp
	return nil
}

func (f *fakeRestaurantRepo) GetByID(id string) (*models.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRestaurantRepo) List() ([]models.Restaurant, error) {
	out := []models.Restaurant{}
	for _, r := range f.restaurants {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRestaurantRepo) ListByOwner(ownerUserID string) ([]models.Restaurant, error) {
	out := []models.Restaurant{}
	for _, r := range f.restaurants {
		if r.OwnerUserID == ownerUserID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRestaurantRepo) Update(id string, patch models.RestaurantPatch) (*models.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Description != nil {
		r.Description = patch.Description
	}
	if patch.Image != nil {
		r.Image = patch.Image
	}
	if patch.IsActive != nil {
		r.IsActive = *patch.IsActive
	}
	if patch.Location != nil {
		r.Location = *patch.Location
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeRestaurantRepo) IsOwnedBy(restaurantID, ownerUserID string) (bool, error) {
	r, ok := f.restaurants[restaurantID]
	if !ok {
		return false, nil
	}
	return r.OwnerUserID == ownerUserID, nil
}

func (f *fakeRestaurantRepo) Count() (int, error) { return len(f.restaurants), nil }

func (f *fakeRestaurantRepo) CountByOwner(ownerUserID string) (int, error) {
	count := 0
	for _, r := range f.restaurants {
		if r.OwnerUserID == ownerUserID {
			count++
		}
	}
	return count, nil
}

// --- fakeProductRepo ---

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*models.Product{}}
}

func (f *fakeProductRepo) Create(p *models.Product) error {
	if _, ok := f.products[p.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByIDsForRestaurant(restaurantID string, productIDs []string) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range productIDs {
		p, ok := f.products[id]
		if ok && p.RestaurantID == restaurantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListByRestaurant(restaurantID string) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.RestaurantID == restaurantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(id string, patch models.ProductPatch) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.BasePrice != nil {
		p.BasePrice = *patch.BasePrice
	}
	if patch.Variants != nil {
		p.Variants = *patch.Variants
	}
	if patch.Addons != nil {
		p.Addons = *patch.Addons
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) Delete(id string) (int64, error) {
	if _, ok := f.products[id]; !ok {
		return 0, nil
	}
	delete(f.products, id)
	return 1, nil
}

func (f *fakeProductRepo) AdjustStock(id string, delta int) (int, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	return p.Stock, nil
}

func (f *fakeProductRepo) Count() (int, error) { return len(f.products), nil }

func (f *fakeProductRepo) CountByOwner(string) (int, error) { return 0, nil }

// --- fakeMovementRepo ---

type fakeMovementRepo struct {
	movements []models.StockMovement
	lastLimit int
}

func newFakeMovementRepo() *fakeMovementRepo { return &fakeMovementRepo{} }

func (f *fakeMovementRepo) Create(m *models.StockMovement) error {
	f.movements = append(f.movements, *m)
	return nil
}

func (f *fakeMovementRepo) ListByProduct(productID string, limit int) ([]models.StockMovement, error) {
	f.lastLimit = limit
	out := []models.StockMovement{}
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByRestaurant(restaurantID string, limit int) ([]models.StockMovement, error) {
	f.lastLimit = limit
	out := []models.StockMovement{}
	for _, m := range f.movements {
		if m.RestaurantID == restaurantID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- fakeOrderRepo ---

type fakeOrderRepo struct {
	orders map[string]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}}
}

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}

func (f *fakeOrderRepo) Create(o *models.Order) error {
	if _, ok := f.orders[o.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	f.orders[o.ID] = copyOrder(o)
	return nil
}

func (f *fakeOrderRepo) GetByID(id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOrder(o), nil
}

func (f *fakeOrderRepo) ListByRestaurant(filters models.OrderFilters) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.RestaurantID == filters.RestaurantID {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(id, newStatus string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (f *fakeOrderRepo) Count() (int, error) { return len(f.orders), nil }

func (f *fakeOrderRepo) CountByOwner(string) (int, error) { return 0, nil }

// --- fakeNotificationRepo ---

type fakeNotificationRepo struct {
	notifications []models.Notification
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	if f.failCreate {
		return errors.New("notification store unavailable")
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(userID string, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(notificationID, userID string) (*models.Notification, error) {
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			cp := f.notifications[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}
