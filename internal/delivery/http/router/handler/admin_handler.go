package handler

import (
	"net/http"

	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/response"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for administrative handlers.
type AdminHandler struct {
	uc usecase.AdminUsecase
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type rejectFarmerRequest struct {
	Reason string `json:"reason"`
}

// ListPendingFarmers returns farmers awaiting approval.
func (h *AdminHandler) ListPendingFarmers(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	farmers, err := h.uc.ListPendingFarmers(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserViews(farmers), "")
}

// ApproveFarmer clears a farmer's pending flag.
func (h *AdminHandler) ApproveFarmer(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	farmerID, err := uuid.Parse(c.Param("farmerID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid farmer ID")
	}

	if err := h.uc.ApproveFarmer(c.Request().Context(), identity, farmerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Farmer approved")
}

// RejectFarmer deletes a farmer profile with its farms and products.
func (h *AdminHandler) RejectFarmer(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	farmerID, err := uuid.Parse(c.Param("farmerID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid farmer ID")
	}

	var req rejectFarmerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}

	if err := h.uc.RejectFarmer(c.Request().Context(), identity, farmerID, req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Farmer rejected")
}

// ListUsers returns every non-admin user.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.uc.ListUsers(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserViews(users), "")
}

// DisableUser blocks a user from authenticating.
func (h *AdminHandler) DisableUser(c echo.Context) error {
	return h.setActive(c, false, "User disabled")
}

// EnableUser lifts a previous disable.
func (h *AdminHandler) EnableUser(c echo.Context) error {
	return h.setActive(c, true, "User enabled")
}

func (h *AdminHandler) setActive(c echo.Context, active bool, message string) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user ID")
	}

	ctx := c.Request().Context()
	if active {
		err = h.uc.EnableUser(ctx, identity, userID)
	} else {
		err = h.uc.DisableUser(ctx, identity, userID)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, message)
}

// DeleteUser hard-deletes a user account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.uc.DeleteUser(c.Request().Context(), identity, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted")
}
