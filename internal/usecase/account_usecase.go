// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"market/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterFarmerInput defines the data required to register a new farmer.
// The account starts in the pending state until an admin approves it.
type RegisterFarmerInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	FarmAddress string
	FarmSize    float64
}

// RegisterBuyerInput defines the data required to register a new buyer.
type RegisterBuyerInput struct {
	Name          string
	Email         string
	Password      string
	Phone         string
	Address       string
	PaymentMethod string
}

// LoginInput defines the data required to log in under one role.
type LoginInput struct {
	Email    string
	Password string
	Role     entity.Role
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated access token after a successful login.
type LoginOutput struct {
	AccessToken string
	User        *entity.User
	Role        entity.Role
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	RegisterFarmer(ctx context.Context, input *RegisterFarmerInput) (*RegisterOutput, error)
	RegisterBuyer(ctx context.Context, input *RegisterBuyerInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
