package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDeliveryNotFound is returned when no delivery exists for an order.
var ErrDeliveryNotFound = errors.New("delivery not found")

// DeliveryRepository defines persistence for deliveries.
type DeliveryRepository interface {
	// Create persists a new delivery record.
	Create(ctx context.Context, delivery *entity.Delivery) error

	// FindByOrderID retrieves the delivery created for an order.
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Delivery, error)
}
