// Package middleware contains the HTTP middleware for the application.
package middleware

import (
	"strings"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// keyIdentity is the echo.Context key carrying the resolved caller identity.
const keyIdentity = "identity"

// AuthMiddleware validates access tokens and resolves the caller's identity.
// The token's subject is re-resolved against the database on every request,
// so a deleted, disabled, or demoted account stops working immediately even
// inside the token's expiry window.
type AuthMiddleware struct {
	tokenSvc  service.TokenService
	txManager repository.TransactionManager
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, txManager repository.TransactionManager) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, txManager: txManager}
}

// Authenticate validates the bearer token and stores the caller's Identity on
// the request context for handlers and RequireRole to use.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return errors.Wrap(domainerrors.ErrUnauthorized, "authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return errors.Wrap(domainerrors.ErrUnauthorized, "authorization header must be a bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return errors.Wrap(domainerrors.ErrUnauthorized, "invalid or expired token")
		}

		identity, err := m.resolveIdentity(c, claims)
		if err != nil {
			return err
		}

		c.Set(keyIdentity, identity)

		return next(c)
	}
}

// resolveIdentity loads the token's subject fresh from storage and re-applies
// the role gates the login applied when the token was issued.
func (m *AuthMiddleware) resolveIdentity(c echo.Context, claims *service.Claims) (*entity.Identity, error) {
	ctx := c.Request().Context()

	var user *entity.User
	err := m.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		foundUser, err := repoFactory.UserRepo().FindByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUnauthorized, "token subject no longer exists")
			}

			return errors.Wrap(err, "failed to resolve token subject")
		}
		user = foundUser

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "account is disabled")
	}
	if !user.HasRole(claims.Role) {
		return nil, errors.Wrapf(domainerrors.ErrNotMember, "account no longer holds the %s role", claims.Role)
	}
	if claims.Role == entity.RoleFarmer && user.FarmerProfile.Pending {
		return nil, errors.Wrap(domainerrors.ErrPendingApproval, "farmer awaiting approval")
	}

	return &entity.Identity{User: user, Role: claims.Role}, nil
}

// RequireRole refuses requests whose identity was not issued for the given
// role. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := GetIdentity(c)
			if err != nil {
				return err
			}

			if identity.Role != requiredRole {
				return errors.Wrapf(domainerrors.ErrForbidden, "operation requires the %s role", requiredRole)
			}

			return next(c)
		}
	}
}

// GetIdentity extracts the identity stored by Authenticate.
func GetIdentity(c echo.Context) (*entity.Identity, error) {
	identity, ok := c.Get(keyIdentity).(*entity.Identity)
	if !ok || identity == nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "request carries no identity")
	}

	return identity, nil
}
