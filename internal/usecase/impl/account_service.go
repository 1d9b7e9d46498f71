// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "market/internal/delivery/context"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterFarmer creates a user with a pending farmer profile and their first
// farm in one transaction. The account cannot log in as a farmer until an
// admin approves it.
func (srv *accountService) RegisterFarmer(ctx context.Context, input *usecase.RegisterFarmerInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting farmer registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Phone:        input.Phone,
		Active:       true,
		FarmerProfile: &entity.FarmerProfile{
			Pending: true,
			Farms: []*entity.Farm{{
				Address: input.FarmAddress,
				Size:    input.FarmSize,
			}},
		},
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create farmer account")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute farmer registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute farmer registration transaction")
	}

	srv.log(ctx).Debug("Farmer registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// RegisterBuyer creates a user with a buyer profile. Buyers are active
// immediately; there is no approval gate.
func (srv *accountService) RegisterBuyer(ctx context.Context, input *usecase.RegisterBuyerInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting buyer registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Phone:        input.Phone,
		Active:       true,
		BuyerProfile: &entity.BuyerProfile{
			Address:       input.Address,
			PaymentMethod: input.PaymentMethod,
		},
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create buyer account")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute buyer registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute buyer registration transaction")
	}

	srv.log(ctx).Debug("Buyer registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login authenticates an email/password pair into one role and issues an
// access token for it. Lookup failure and password mismatch are reported
// identically so the response never reveals whether the email exists.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Login attempt", slog.String("email", input.Email), slog.Any("role", input.Role))

	if !input.Role.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown login role")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		foundUser, err := repoFactory.UserRepo().FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "no account for email")
			}

			return errors.Wrap(err, "failed to find user by email")
		}
		user = foundUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	if err := checkRoleAccess(user, input.Role); err != nil {
		srv.log(ctx).Warn("Role gate refused login", slog.String("email", input.Email), slog.Any("role", input.Role), slog.Any("error", err))

		return nil, err
	}

	accessToken, err := srv.tokenService.Generate(user.Email, input.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to generate access token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("userID", user.ID), slog.Any("role", input.Role))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		User:        user,
		Role:        input.Role,
	}, nil
}

// checkRoleAccess enforces the role gates shared by login and token
// verification: the account must be active, must hold the requested role, and
// a farmer must be approved.
func checkRoleAccess(user *entity.User, role entity.Role) error {
	if !user.Active {
		return errors.Wrap(domainerrors.ErrForbidden, "account is disabled")
	}

	if !user.HasRole(role) {
		return errors.Wrapf(domainerrors.ErrNotMember, "account holds no %s role", role)
	}

	if role == entity.RoleFarmer && user.FarmerProfile.Pending {
		return errors.Wrap(domainerrors.ErrPendingApproval, "farmer awaiting approval")
	}

	return nil
}
