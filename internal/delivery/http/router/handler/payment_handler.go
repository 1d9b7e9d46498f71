package handler

import (
	"net/http"

	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/response"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PaymentHandler holds dependencies for payment handlers.
type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type processPaymentRequest struct {
	Reference string          `json:"reference" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Method    string          `json:"method"`
}

type processPaymentResponse struct {
	Payment  *paymentView  `json:"payment"`
	Delivery *deliveryView `json:"delivery,omitempty"`
}

// ProcessPayment records a payment against the caller's order.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ProcessPayment(c.Request().Context(), identity, &usecase.ProcessPaymentInput{
		OrderID:   orderID,
		Reference: req.Reference,
		Amount:    req.Amount,
		Method:    req.Method,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, &processPaymentResponse{
		Payment:  toPaymentView(output.Payment),
		Delivery: toDeliveryView(output.Delivery),
	}, "Payment processed")
}
