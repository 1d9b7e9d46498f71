package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of states an order moves through. The status
// column is free text at the storage layer but every write passes through
// CanTransitionTo first.
type OrderStatus string

const (
	// OrderStatusPending is the initial state set at creation.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessed is set when the order has been fully paid.
	OrderStatusProcessed OrderStatus = "processed"
	// OrderStatusShipped is set by the farmer once goods are on their way.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered is terminal.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled is terminal and reachable from any non-terminal state.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave this state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Terminal states permit nothing, and an order only advances forward:
// pending -> processed -> shipped -> delivered, with cancellation allowed from
// every non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}

	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessed
	case OrderStatusProcessed:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// Order is the aggregate root of the ledger: one buyer's purchase with its
// line items. Version implements optimistic concurrency; every status or
// payment write checks and increments it.
type Order struct {
	ID       uuid.UUID
	BuyerID  uuid.UUID // Foreign key to the owning BuyerProfile.
	Status   OrderStatus
	Amount   decimal.Decimal // Total recomputed server-side at creation.
	PlacedAt time.Time
	Version  int
	Items    []*OrderItem
}

// OrderItem is a line item referencing a product snapshot. Price is captured
// at order time and is immune to later product price changes.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal // Unit price at placement time.
}

// ReferencesFarmer reports whether any line item's product belongs to the
// given farmer. Callers supply the product ownership map since items only
// carry product IDs.
func (o *Order) ReferencesFarmer(farmerID uuid.UUID, productOwners map[uuid.UUID]uuid.UUID) bool {
	for _, item := range o.Items {
		if productOwners[item.ProductID] == farmerID {
			return true
		}
	}

	return false
}
