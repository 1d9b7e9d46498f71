package impl

import (
	"context"
	"log/slog"

	deliverycontext "market/internal/delivery/context"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireAdmin gates every administrative operation on the caller's identity.
func requireAdmin(identity *entity.Identity) error {
	if identity == nil || !identity.IsAdmin() {
		return errors.Wrap(domainerrors.ErrForbidden, "administrator role required")
	}

	return nil
}

// ListPendingFarmers returns farmers awaiting approval.
func (srv *adminService) ListPendingFarmers(ctx context.Context, identity *entity.Identity) ([]*entity.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	var farmers []*entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().ListPendingFarmers(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list pending farmers")
		}
		farmers = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute pending farmers query")
	}

	return farmers, nil
}

// ApproveFarmer clears the pending flag so the farmer can log in. Approving
// an already-approved farmer changes nothing and succeeds.
func (srv *adminService) ApproveFarmer(ctx context.Context, identity *entity.Identity, farmerID uuid.UUID) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}

	srv.log(ctx).Info("Approving farmer", slog.Any("farmerID", farmerID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByFarmerID(ctx, farmerID)
		if err != nil {
			if errors.Is(err, repository.ErrFarmerNotFound) {
				return errors.Wrap(domainerrors.ErrFarmerNotFound, "no farmer profile to approve")
			}

			return errors.Wrap(err, "failed to find farmer")
		}

		if !user.FarmerProfile.Pending {
			return nil
		}

		user.FarmerProfile.Pending = false
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist farmer approval")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to approve farmer", slog.Any("farmerID", farmerID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute farmer approval transaction")
	}

	return nil
}

// RejectFarmer deletes the farmer profile together with its farms and
// products, all in one transaction. The base user record survives, so the
// email can still register or act in other roles.
func (srv *adminService) RejectFarmer(ctx context.Context, identity *entity.Identity, farmerID uuid.UUID, reason string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}

	srv.log(ctx).Info("Rejecting farmer", slog.Any("farmerID", farmerID), slog.String("reason", reason))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.CatalogRepo().DeleteProductsByFarmer(ctx, farmerID); err != nil {
			return errors.Wrap(err, "failed to delete rejected farmer's products")
		}

		if err := repoFactory.UserRepo().DeleteFarmerProfile(ctx, farmerID); err != nil {
			if errors.Is(err, repository.ErrFarmerNotFound) {
				return errors.Wrap(domainerrors.ErrFarmerNotFound, "no farmer profile to reject")
			}

			return errors.Wrap(err, "failed to delete farmer profile")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to reject farmer", slog.Any("farmerID", farmerID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute farmer rejection transaction")
	}

	return nil
}

// ListUsers returns every non-admin user.
func (srv *adminService) ListUsers(ctx context.Context, identity *entity.Identity) ([]*entity.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	var users []*entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().ListNonAdmins(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}
		users = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute users query")
	}

	return users, nil
}

// DisableUser blocks the user from authenticating. Nothing the user owns is
// touched; their products and orders remain visible.
func (srv *adminService) DisableUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error {
	return srv.setUserActive(ctx, identity, userID, false)
}

// EnableUser lifts a previous disable.
func (srv *adminService) EnableUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error {
	return srv.setUserActive(ctx, identity, userID, true)
}

func (srv *adminService) setUserActive(ctx context.Context, identity *entity.Identity, userID uuid.UUID, active bool) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}

	srv.log(ctx).Info("Changing user active flag", slog.Any("userID", userID), slog.Bool("active", active))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "no user to update")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if user.Active == active {
			return nil
		}

		user.Active = active
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist active flag")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to change user active flag", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute user update transaction")
	}

	return nil
}

// DeleteUser hard-deletes the user; profile rows cascade at the database.
func (srv *adminService) DeleteUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}

	srv.log(ctx).Info("Deleting user", slog.Any("userID", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Delete(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "no user to delete")
			}

			return errors.Wrap(err, "failed to delete user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute user deletion transaction")
	}

	return nil
}
