package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the recorded state of a payment.
type PaymentStatus string

const (
	// PaymentStatusProcessed is stamped on every accepted payment.
	PaymentStatusProcessed PaymentStatus = "processed"
)

// Payment records money received against an order. Reference is the caller's
// deduplication key: processing the same reference twice returns the original
// record and creates nothing.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Reference string
	Amount    decimal.Decimal
	Method    string
	Status    PaymentStatus
	PaidAt    time.Time
}

// DeliveryStatus is the recorded state of a delivery.
type DeliveryStatus string

const (
	// DeliveryStatusPending is the initial state set when payment completes.
	DeliveryStatusPending DeliveryStatus = "pending"
	// DeliveryStatusInTransit is set while goods are being moved.
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	// DeliveryStatusDelivered is terminal.
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

// Delivery is created as a side effect of an order becoming fully paid, never
// requested independently. The address is inherited from the buyer's
// registered address at payment time.
type Delivery struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    DeliveryStatus
	Address   string
	CreatedAt time.Time
}
