// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput defines the data required to place an order. DeclaredAmount
// is the total the client believes it owes; the server recomputes the total
// from current prices and rejects a mismatch rather than trusting the client.
type CreateOrderInput struct {
	Items          []OrderItemInput
	DeclaredAmount decimal.Decimal
}

// OrderUsecase defines the interface for order lifecycle operations.
type OrderUsecase interface {
	// CreateOrder places an order for the authenticated buyer, snapshotting
	// prices and decrementing stock atomically.
	CreateOrder(ctx context.Context, identity *entity.Identity, input *CreateOrderInput) (*entity.Order, error)

	// GetOrder returns an order visible to its buyer, an involved farmer, or
	// an admin.
	GetOrder(ctx context.Context, identity *entity.Identity, orderID uuid.UUID) (*entity.Order, error)

	// UpdateOrderStatus advances an order through its lifecycle. Only admins
	// and farmers owning at least one of the order's products may call it.
	UpdateOrderStatus(ctx context.Context, identity *entity.Identity, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error)

	// ListBuyerOrders returns the authenticated buyer's orders.
	ListBuyerOrders(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error)

	// ListFarmerOrders returns orders containing the authenticated farmer's
	// products.
	ListFarmerOrders(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error)
}
