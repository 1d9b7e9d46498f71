package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrPaymentNotFound is returned when no payment matches the given reference.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository defines persistence for payments.
type PaymentRepository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByReference retrieves the payment recorded under the caller's
	// deduplication reference, if any.
	FindByReference(ctx context.Context, reference string) (*entity.Payment, error)

	// SumByOrder returns the total amount already paid against an order.
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// ListByOrder returns all payments recorded against an order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error)
}
