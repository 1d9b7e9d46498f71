package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when no product matches the given ID.
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when no category matches the given ID.
var ErrCategoryNotFound = errors.New("category not found")

// ErrInsufficientStock is returned when a stock decrement would push a
// product's quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductFilter narrows catalog queries; zero values mean "no constraint".
type ProductFilter struct {
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *uuid.UUID
}

// CatalogRepository defines persistence for products and categories.
type CatalogRepository interface {
	// CreateProduct persists a new product owned by a farmer.
	CreateProduct(ctx context.Context, product *entity.Product) error

	// FindProductByID retrieves a single product.
	FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// UpdateProduct overwrites an existing product's mutable fields.
	UpdateProduct(ctx context.Context, product *entity.Product) error

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// ListProductsByFarmer returns all products owned by the given farmer profile.
	ListProductsByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Product, error)

	// DeleteProductsByFarmer removes every product owned by the given farmer
	// profile, used when an admin rejects the farmer.
	DeleteProductsByFarmer(ctx context.Context, farmerID uuid.UUID) error

	// ListAvailableProducts returns products with stock remaining.
	ListAvailableProducts(ctx context.Context) ([]*entity.Product, error)

	// SearchProducts returns products whose name matches the query, case-insensitively.
	SearchProducts(ctx context.Context, query string) ([]*entity.Product, error)

	// FilterProducts returns products satisfying every set filter field.
	FilterProducts(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// DecrementStock atomically subtracts quantity from a product's stock,
	// failing with ErrInsufficientStock when not enough remains.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// FindCategoryByID retrieves a single category.
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]*entity.Category, error)
}
