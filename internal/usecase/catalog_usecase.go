// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// CreateProductInput defines the data required to list a new product.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Description string
	ImageURL    string
}

// UpdateProductInput carries partial product changes; nil fields stay untouched.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// FilterProductsInput narrows the public catalog listing; nil fields mean
// "no constraint".
type FilterProductsInput struct {
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *uuid.UUID
}

// CatalogUsecase defines the interface for product and category operations.
// Write operations require a farmer identity; reads are open to anyone.
type CatalogUsecase interface {
	CreateProduct(ctx context.Context, identity *entity.Identity, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, identity *entity.Identity, productID uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, identity *entity.Identity, productID uuid.UUID) error
	ListFarmerProducts(ctx context.Context, identity *entity.Identity) ([]*entity.Product, error)

	GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error)
	ListAvailableProducts(ctx context.Context) ([]*entity.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*entity.Product, error)
	FilterProducts(ctx context.Context, input *FilterProductsInput) ([]*entity.Product, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
}
