package impl

import (
	"context"
	"testing"

	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCatalogService(t *testing.T) (usecase.CatalogUsecase, *fakeStore) {
	t.Helper()
	store, txManager := newTestStore(t)
	svc := NewCatalogService(CatalogServiceParams{
		TxManager: txManager,
		Logger:    testLogger(),
	})

	return svc, store
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	category := seedCategory(store, "Vegetables")

	product, err := svc.CreateProduct(context.Background(), farmer, &usecase.CreateProductInput{
		CategoryID:  category.ID,
		Name:        "Tomatoes",
		Price:       decimal.RequireFromString("2.50"),
		Quantity:    10,
		Description: "Vine ripened",
	})
	require.NoError(t, err)
	assert.Equal(t, farmer.User.FarmerProfile.ID, product.FarmerID)
	assert.Contains(t, store.products, product.ID)
}

func TestCatalogService_CreateProduct_NonPositivePrice(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	category := seedCategory(store, "Vegetables")

	_, err := svc.CreateProduct(context.Background(), farmer, &usecase.CreateProductInput{
		CategoryID: category.ID,
		Name:       "Tomatoes",
		Price:      decimal.Zero,
		Quantity:   10,
	})
	requireErrCode(t, err, domainerrors.ErrInvalidAmount)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")

	_, err := svc.CreateProduct(context.Background(), farmer, &usecase.CreateProductInput{
		CategoryID: uuid.New(),
		Name:       "Tomatoes",
		Price:      decimal.RequireFromString("2.50"),
		Quantity:   10,
	})
	requireErrCode(t, err, domainerrors.ErrCategoryNotFound)
}

func TestCatalogService_CreateProduct_BuyerForbidden(t *testing.T) {
	svc, store := createTestCatalogService(t)
	buyer := seedBuyer(store, "bob@buyer.test", "4 Market Street")
	category := seedCategory(store, "Vegetables")

	_, err := svc.CreateProduct(context.Background(), buyer, &usecase.CreateProductInput{
		CategoryID: category.ID,
		Name:       "Tomatoes",
		Price:      decimal.RequireFromString("2.50"),
		Quantity:   10,
	})
	requireErrCode(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_UpdateProduct_AppliesPartialChanges(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	product := seedProduct(store, farmer.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	newPrice := decimal.RequireFromString("3.25")
	newQuantity := 20
	updated, err := svc.UpdateProduct(context.Background(), farmer, product.ID, &usecase.UpdateProductInput{
		Price:    &newPrice,
		Quantity: &newQuantity,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, "Tomatoes", updated.Name)
}

func TestCatalogService_UpdateProduct_OtherFarmersProductForbidden(t *testing.T) {
	svc, store := createTestCatalogService(t)
	owner := seedFarmer(store, "owner@farm.test")
	intruder := seedFarmer(store, "intruder@farm.test")
	product := seedProduct(store, owner.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	newName := "Stolen Tomatoes"
	_, err := svc.UpdateProduct(context.Background(), intruder, product.ID, &usecase.UpdateProductInput{
		Name: &newName,
	})
	requireErrCode(t, err, domainerrors.ErrForbidden)
	assert.Equal(t, "Tomatoes", store.products[product.ID].Name)
}

func TestCatalogService_DeleteProduct_OtherFarmersProductForbidden(t *testing.T) {
	svc, store := createTestCatalogService(t)
	owner := seedFarmer(store, "owner@farm.test")
	intruder := seedFarmer(store, "intruder@farm.test")
	product := seedProduct(store, owner.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	err := svc.DeleteProduct(context.Background(), intruder, product.ID)
	requireErrCode(t, err, domainerrors.ErrForbidden)
	assert.Contains(t, store.products, product.ID)
}

func TestCatalogService_DeleteProduct_Success(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	product := seedProduct(store, farmer.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	err := svc.DeleteProduct(context.Background(), farmer, product.ID)
	require.NoError(t, err)
	assert.NotContains(t, store.products, product.ID)
}

func TestCatalogService_ListAvailableProducts_SkipsOutOfStock(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	inStock := seedProduct(store, farmer.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)
	seedProduct(store, farmer.User.FarmerProfile.ID, "Cucumbers", "1.80", 0)

	products, err := svc.ListAvailableProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, inStock.ID, products[0].ID)
}

func TestCatalogService_SearchProducts_CaseInsensitive(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	seedProduct(store, farmer.User.FarmerProfile.ID, "Cherry Tomatoes", "4.00", 3)
	seedProduct(store, farmer.User.FarmerProfile.ID, "Cucumbers", "1.80", 5)

	products, err := svc.SearchProducts(context.Background(), "tomato")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cherry Tomatoes", products[0].Name)
}

func TestCatalogService_FilterProducts_PriceBounds(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	seedProduct(store, farmer.User.FarmerProfile.ID, "Cheap", "1.00", 5)
	mid := seedProduct(store, farmer.User.FarmerProfile.ID, "Mid", "5.00", 5)
	seedProduct(store, farmer.User.FarmerProfile.ID, "Dear", "9.00", 5)

	minPrice := decimal.RequireFromString("2.00")
	maxPrice := decimal.RequireFromString("6.00")
	products, err := svc.FilterProducts(context.Background(), &usecase.FilterProductsInput{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, mid.ID, products[0].ID)
}

func TestCatalogService_FilterProducts_InvertedBounds(t *testing.T) {
	svc, _ := createTestCatalogService(t)

	minPrice := decimal.RequireFromString("6.00")
	maxPrice := decimal.RequireFromString("2.00")
	_, err := svc.FilterProducts(context.Background(), &usecase.FilterProductsInput{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	requireErrCode(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	svc, store := createTestCatalogService(t)
	farmer := seedFarmer(store, "alice@farm.test")
	product := seedProduct(store, farmer.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	found, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	err = svc.DeleteProduct(context.Background(), farmer, product.ID)
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), product.ID)
	requireErrCode(t, err, domainerrors.ErrProductNotFound)
}
