// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessPaymentInput defines the data required to record a payment.
// Reference is the caller's deduplication key: replays with the same reference
// return the originally recorded result and write nothing.
type ProcessPaymentInput struct {
	OrderID   uuid.UUID
	Reference string
	Amount    decimal.Decimal
	Method    string
}

// ProcessPaymentOutput returns the recorded payment and, when the payment
// completed the order, the delivery scheduled for it.
type ProcessPaymentOutput struct {
	Payment  *entity.Payment
	Delivery *entity.Delivery
}

// PaymentUsecase defines the interface for payment operations.
type PaymentUsecase interface {
	// ProcessPayment records money against an order. When the order becomes
	// fully paid it schedules exactly one delivery and moves the order to
	// processed, all within one transaction.
	ProcessPayment(ctx context.Context, identity *entity.Identity, input *ProcessPaymentInput) (*ProcessPaymentOutput, error)
}
