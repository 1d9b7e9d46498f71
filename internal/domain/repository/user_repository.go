// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrFarmerNotFound is returned when no farmer profile matches the given ID.
var ErrFarmerNotFound = errors.New("farmer not found")

// UserRepository defines the standard operations for user persistence,
// including the 1:1 farmer/buyer profile extensions which are loaded and
// stored together with the user row.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, profiles attached.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address, profiles attached.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByFarmerID retrieves the user owning the given farmer profile.
	FindByFarmerID(ctx context.Context, farmerID uuid.UUID) (*entity.User, error)

	// FindByBuyerID retrieves the user owning the given buyer profile.
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID) (*entity.User, error)

	// Create persists a new user entity with its profile extensions (and the
	// farmer's farms) in one write.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity and its profiles.
	Update(ctx context.Context, user *entity.User) error

	// Delete hard-deletes a user; profile rows cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteFarmerProfile removes only the farmer extension (admin rejection).
	// The base user row survives.
	DeleteFarmerProfile(ctx context.Context, farmerID uuid.UUID) error

	// ListPendingFarmers returns users whose farmer profile awaits approval.
	ListPendingFarmers(ctx context.Context) ([]*entity.User, error)

	// ListNonAdmins returns all users without the admin flag.
	ListNonAdmins(ctx context.Context) ([]*entity.User, error)
}
