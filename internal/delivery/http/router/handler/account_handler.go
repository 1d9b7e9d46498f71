package handler

import (
	"net/http"

	"market/internal/delivery/http/response"
	"market/internal/domain/entity"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for registration and login handlers.
type AccountHandler struct {
	uc usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

type registerFarmerRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Phone       string  `json:"phone"`
	FarmAddress string  `json:"farm_address" validate:"required"`
	FarmSize    float64 `json:"farm_size" validate:"gte=0"`
}

type registerBuyerRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Phone         string `json:"phone"`
	Address       string `json:"address" validate:"required"`
	PaymentMethod string `json:"payment_method"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	Role        string    `json:"role"`
	User        *userView `json:"user"`
}

// RegisterFarmer handles the farmer registration request.
func (h *AccountHandler) RegisterFarmer(c echo.Context) error {
	var req registerFarmerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterFarmer(c.Request().Context(), &usecase.RegisterFarmerInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		FarmAddress: req.FarmAddress,
		FarmSize:    req.FarmSize,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(output.User), "Farmer registered, awaiting approval")
}

// RegisterBuyer handles the buyer registration request.
func (h *AccountHandler) RegisterBuyer(c echo.Context) error {
	var req registerBuyerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterBuyer(c.Request().Context(), &usecase.RegisterBuyerInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(output.User), "Buyer registered successfully")
}

// LoginFarmer handles farmer login.
func (h *AccountHandler) LoginFarmer(c echo.Context) error {
	return h.login(c, entity.RoleFarmer)
}

// LoginBuyer handles buyer login.
func (h *AccountHandler) LoginBuyer(c echo.Context) error {
	return h.login(c, entity.RoleBuyer)
}

// LoginAdmin handles administrator login.
func (h *AccountHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, entity.RoleAdmin)
}

func (h *AccountHandler) login(c echo.Context, role entity.Role) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &loginResponse{
		AccessToken: output.AccessToken,
		Role:        output.Role.String(),
		User:        toUserView(output.User),
	}, "Login successful")
}
