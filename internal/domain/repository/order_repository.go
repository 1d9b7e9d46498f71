package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when no order matches the given ID.
var ErrOrderNotFound = errors.New("order not found")

// ErrVersionMismatch is returned when an optimistic-concurrency write finds
// the order's version column changed since it was read.
var ErrVersionMismatch = errors.New("order version mismatch")

// OrderRepository defines persistence for the order ledger.
type OrderRepository interface {
	// Create persists a new order together with its line items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with its line items attached.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// UpdateStatus overwrites the order's status iff the stored version equals
	// expectedVersion, incrementing the version in the same write. A stale
	// expectedVersion fails with ErrVersionMismatch.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus, expectedVersion int) error

	// ListByBuyer returns all orders owned by the given buyer profile.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	// ListByFarmer returns all orders containing at least one line item whose
	// product belongs to the given farmer profile.
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Order, error)
}
