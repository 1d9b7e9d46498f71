package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is an independent lookup entity products are grouped under.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Product is a sellable item owned by exactly one farmer. Quantity is live
// stock and is decremented atomically when an order is placed.
type Product struct {
	ID          uuid.UUID
	FarmerID    uuid.UUID // Foreign key to the owning FarmerProfile.
	CategoryID  uuid.UUID
	Name        string
	Price       decimal.Decimal // Current unit price; orders snapshot it at placement time.
	Quantity    int             // Remaining stock, never negative.
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the product belongs to the given farmer profile.
func (p *Product) OwnedBy(farmerID uuid.UUID) bool {
	return p.FarmerID == farmerID
}
