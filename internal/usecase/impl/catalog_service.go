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

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireFarmer extracts the caller's farmer profile or refuses the call.
func requireFarmer(identity *entity.Identity) (*entity.FarmerProfile, error) {
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "farmer role required")
	}

	farmer, ok := identity.Farmer()
	if !ok {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "farmer role required")
	}

	return farmer, nil
}

// CreateProduct lists a new product owned by the authenticated farmer.
func (srv *catalogService) CreateProduct(ctx context.Context, identity *entity.Identity, input *usecase.CreateProductInput) (*entity.Product, error) {
	farmer, err := requireFarmer(identity)
	if err != nil {
		return nil, err
	}

	if !input.Price.IsPositive() {
		return nil, errors.Wrap(domainerrors.ErrInvalidAmount, "product price must be positive")
	}
	if input.Quantity < 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "product quantity must be non-negative")
	}

	srv.log(ctx).Info("Creating product", slog.Any("farmerID", farmer.ID), slog.String("name", input.Name))

	product := &entity.Product{
		FarmerID:    farmer.ID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.CatalogRepo()

		if _, err := catalogRepo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return errors.Wrap(domainerrors.ErrCategoryNotFound, "unknown product category")
			}

			return errors.Wrap(err, "failed to find category")
		}

		if err := catalogRepo.CreateProduct(ctx, product); err != nil {
			return errors.Wrap(err, "failed to create product")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create product", slog.Any("farmerID", farmer.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product creation transaction")
	}

	return product, nil
}

// UpdateProduct applies partial changes to a product the caller owns.
func (srv *catalogService) UpdateProduct(ctx context.Context, identity *entity.Identity, productID uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	farmer, err := requireFarmer(identity)
	if err != nil {
		return nil, err
	}

	if input.Price != nil && !input.Price.IsPositive() {
		return nil, errors.Wrap(domainerrors.ErrInvalidAmount, "product price must be positive")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "product quantity must be non-negative")
	}

	srv.log(ctx).Info("Updating product", slog.Any("farmerID", farmer.ID), slog.Any("productID", productID))

	var product *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.CatalogRepo()

		found, err := catalogRepo.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "no product to update")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if !found.OwnedBy(farmer.ID) {
			return errors.Wrap(domainerrors.ErrForbidden, "product belongs to another farmer")
		}

		if input.CategoryID != nil {
			if _, err := catalogRepo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return errors.Wrap(domainerrors.ErrCategoryNotFound, "unknown product category")
				}

				return errors.Wrap(err, "failed to find category")
			}
			found.CategoryID = *input.CategoryID
		}
		if input.Name != nil {
			found.Name = *input.Name
		}
		if input.Price != nil {
			found.Price = *input.Price
		}
		if input.Quantity != nil {
			found.Quantity = *input.Quantity
		}
		if input.Description != nil {
			found.Description = *input.Description
		}
		if input.ImageURL != nil {
			found.ImageURL = *input.ImageURL
		}

		if err := catalogRepo.UpdateProduct(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update product")
		}
		product = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product update transaction")
	}

	return product, nil
}

// DeleteProduct removes a product the caller owns.
func (srv *catalogService) DeleteProduct(ctx context.Context, identity *entity.Identity, productID uuid.UUID) error {
	farmer, err := requireFarmer(identity)
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Deleting product", slog.Any("farmerID", farmer.ID), slog.Any("productID", productID))

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.CatalogRepo()

		found, err := catalogRepo.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "no product to delete")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if !found.OwnedBy(farmer.ID) {
			return errors.Wrap(domainerrors.ErrForbidden, "product belongs to another farmer")
		}

		if err := catalogRepo.DeleteProduct(ctx, productID); err != nil {
			return errors.Wrap(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("productID", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute product deletion transaction")
	}

	return nil
}

// ListFarmerProducts returns the authenticated farmer's own listings.
func (srv *catalogService) ListFarmerProducts(ctx context.Context, identity *entity.Identity) ([]*entity.Product, error) {
	farmer, err := requireFarmer(identity)
	if err != nil {
		return nil, err
	}

	var products []*entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().ListProductsByFarmer(ctx, farmer.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list farmer products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute farmer products query")
	}

	return products, nil
}

// GetProduct returns one product by ID, regardless of stock.
func (srv *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	var product *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "no such product")
			}

			return errors.Wrap(err, "failed to find product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute product query")
	}

	return product, nil
}

// ListAvailableProducts returns every product with stock remaining.
func (srv *catalogService) ListAvailableProducts(ctx context.Context) ([]*entity.Product, error) {
	var products []*entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().ListAvailableProducts(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list available products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute available products query")
	}

	return products, nil
}

// SearchProducts matches the query against in-stock product names.
func (srv *catalogService) SearchProducts(ctx context.Context, query string) ([]*entity.Product, error) {
	var products []*entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().SearchProducts(ctx, query)
		if err != nil {
			return errors.Wrap(err, "failed to search products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute product search")
	}

	return products, nil
}

// FilterProducts narrows in-stock products by price bounds and category.
func (srv *catalogService) FilterProducts(ctx context.Context, input *usecase.FilterProductsInput) ([]*entity.Product, error) {
	if input.MinPrice != nil && input.MaxPrice != nil && input.MinPrice.GreaterThan(*input.MaxPrice) {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "minimum price exceeds maximum price")
	}

	filter := repository.ProductFilter{
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		CategoryID: input.CategoryID,
	}

	var products []*entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().FilterProducts(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to filter products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute product filter")
	}

	return products, nil
}

// ListCategories returns all product categories.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CatalogRepo().ListCategories(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}
		categories = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute categories query")
	}

	return categories, nil
}
