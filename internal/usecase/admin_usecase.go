// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// AdminUsecase defines the interface for administrative operations.
// Every method requires the caller's identity to carry the admin role.
type AdminUsecase interface {
	// ListPendingFarmers returns farmers awaiting approval.
	ListPendingFarmers(ctx context.Context, identity *entity.Identity) ([]*entity.User, error)

	// ApproveFarmer clears the pending flag so the farmer can log in.
	// Approving an already-approved farmer is a no-op.
	ApproveFarmer(ctx context.Context, identity *entity.Identity, farmerID uuid.UUID) error

	// RejectFarmer deletes the farmer profile together with its farms and
	// products. The base user record survives.
	RejectFarmer(ctx context.Context, identity *entity.Identity, farmerID uuid.UUID, reason string) error

	// ListUsers returns every non-admin user.
	ListUsers(ctx context.Context, identity *entity.Identity) ([]*entity.User, error)

	// DisableUser blocks the user from authenticating without touching any
	// rows they own.
	DisableUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error

	// EnableUser lifts a previous disable.
	EnableUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error

	// DeleteUser hard-deletes the user; profile rows cascade.
	DeleteUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error
}
