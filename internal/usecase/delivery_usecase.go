// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// DeliveryUsecase defines the interface for delivery tracking operations.
type DeliveryUsecase interface {
	// TrackDelivery returns the delivery scheduled for an order. The NotFound
	// detail distinguishes a missing order from an order not yet paid for.
	TrackDelivery(ctx context.Context, orderID uuid.UUID) (*entity.Delivery, error)

	// TrackingQRCode renders the delivery's tracking URL as a PNG QR code.
	TrackingQRCode(ctx context.Context, orderID uuid.UUID) ([]byte, error)
}
