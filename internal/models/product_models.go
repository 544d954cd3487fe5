package models

import "time"

// Product types.
const (
	ProductTypeFood     = "FOOD"
	ProductTypeBeverage = "BEVERAGE"
)

// Variant is a named size/preparation option that shifts the base price by
// PriceDelta (may be negative).
type Variant struct {
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// Addon is an optional extra with its own price.
type Addon struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Product is a menu item belonging to exactly one restaurant. Variants and
// addons are embedded documents, stored as JSONB.
type Product struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Type         string    `json:"type"`
	Category     *string   `json:"category,omitempty"`
	BasePrice    float64   `json:"base_price"`
	Variants     []Variant `json:"variants"`
	Addons       []Addon   `json:"addons"`
	Stock        int       `json:"stock"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FindVariant returns the variant with the given name, or nil.
func (p *Product) FindVariant(name string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i]
		}
	}
	return nil
}

// FindAddon returns the addon with the given name, or nil.
func (p *Product) FindAddon(name string) *Addon {
	for i := range p.Addons {
		if p.Addons[i].Name == name {
			return &p.Addons[i]
		}
	}
	return nil
}

// ProductPatch carries updatable product fields. Nil means "leave unchanged".
// Stock is deliberately absent: stock changes go through the adjustment
// endpoint so every change lands in the movement ledger.
type ProductPatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	Type        *string    `json:"type"`
	Category    *string    `json:"category"`
	BasePrice   *float64   `json:"base_price"`
	Variants    *[]Variant `json:"variants"`
	Addons      *[]Addon   `json:"addons"`
	IsActive    *bool      `json:"is_active"`
}

// Stock movement reasons written by the service layer.
const (
	MovementReasonOrder  = "order"
	MovementReasonManual = "manual"
)

// StockMovement is an append-only ledger entry. Quantity is the signed
// delta that was requested; the applied stock change may be smaller when
// the clamp at zero kicks in.
type StockMovement struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}
