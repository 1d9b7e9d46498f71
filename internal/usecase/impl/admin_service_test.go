package impl

import (
	"context"
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAdminService(t *testing.T) (usecase.AdminUsecase, *fakeStore) {
	t.Helper()
	store, txManager := newTestStore(t)
	svc := NewAdminService(AdminServiceParams{
		TxManager: txManager,
		Logger:    testLogger(),
	})

	return svc, store
}

func TestAdminService_ListPendingFarmers_Success(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	pending := seedFarmer(store, "pending@farm.test")
	pending.User.FarmerProfile.Pending = true
	seedFarmer(store, "approved@farm.test")

	farmers, err := svc.ListPendingFarmers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, farmers, 1)
	assert.Equal(t, "pending@farm.test", farmers[0].Email)
}

func TestAdminService_ListPendingFarmers_NonAdminForbidden(t *testing.T) {
	svc, store := createTestAdminService(t)
	farmer := seedFarmer(store, "farmer@farm.test")

	_, err := svc.ListPendingFarmers(context.Background(), farmer)
	requireErrCode(t, err, domainerrors.ErrForbidden)

	_, err = svc.ListPendingFarmers(context.Background(), nil)
	requireErrCode(t, err, domainerrors.ErrForbidden)
}

func TestAdminService_ApproveFarmer_ClearsPending(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	farmer := seedFarmer(store, "pending@farm.test")
	farmer.User.FarmerProfile.Pending = true

	err := svc.ApproveFarmer(context.Background(), admin, farmer.User.FarmerProfile.ID)
	require.NoError(t, err)
	assert.False(t, store.users[farmer.User.ID].FarmerProfile.Pending)
}

func TestAdminService_ApproveFarmer_Idempotent(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	farmer := seedFarmer(store, "approved@farm.test")

	err := svc.ApproveFarmer(context.Background(), admin, farmer.User.FarmerProfile.ID)
	require.NoError(t, err)
	assert.False(t, store.users[farmer.User.ID].FarmerProfile.Pending)
}

func TestAdminService_ApproveFarmer_UnknownFarmer(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)

	err := svc.ApproveFarmer(context.Background(), admin, uuid.New())
	requireErrCode(t, err, domainerrors.ErrFarmerNotFound)
}

func TestAdminService_RejectFarmer_DeletesProfileAndProducts(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	farmer := seedFarmer(store, "rejected@farm.test")
	farmer.User.FarmerProfile.Pending = true
	farmerID := farmer.User.FarmerProfile.ID
	seedProduct(store, farmerID, "Tomatoes", "2.50", 10)
	seedProduct(store, farmerID, "Cucumbers", "1.80", 5)
	other := seedFarmer(store, "other@farm.test")
	kept := seedProduct(store, other.User.FarmerProfile.ID, "Apples", "3.00", 7)

	err := svc.RejectFarmer(context.Background(), admin, farmerID, "incomplete documents")
	require.NoError(t, err)

	assert.Nil(t, store.users[farmer.User.ID].FarmerProfile)
	require.Len(t, store.products, 1)
	assert.Contains(t, store.products, kept.ID)
}

func TestAdminService_RejectFarmer_ThenFarmerLoginRefused(t *testing.T) {
	store, txManager := newTestStore(t)
	adminSvc := NewAdminService(AdminServiceParams{TxManager: txManager, Logger: testLogger()})
	accountSvc := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		Hasher:       fakeHasher{},
		TokenService: fakeTokenService{},
		Logger:       testLogger(),
	})
	admin := seedAdmin(store)

	out, err := accountSvc.RegisterFarmer(context.Background(), &usecase.RegisterFarmerInput{
		Name:     "Alice",
		Email:    "alice@farm.test",
		Password: "growing-things",
	})
	require.NoError(t, err)

	err = adminSvc.RejectFarmer(context.Background(), admin, out.User.FarmerProfile.ID, "not a real farm")
	require.NoError(t, err)

	_, err = accountSvc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@farm.test",
		Password: "growing-things",
		Role:     entity.RoleFarmer,
	})
	requireErrCode(t, err, domainerrors.ErrNotMember)
}

func TestAdminService_DisableUser_KeepsOwnedRows(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	farmer := seedFarmer(store, "farmer@farm.test")
	product := seedProduct(store, farmer.User.FarmerProfile.ID, "Tomatoes", "2.50", 10)

	err := svc.DisableUser(context.Background(), admin, farmer.User.ID)
	require.NoError(t, err)

	assert.False(t, store.users[farmer.User.ID].Active)
	assert.Contains(t, store.products, product.ID)
	assert.NotNil(t, store.users[farmer.User.ID].FarmerProfile)
}

func TestAdminService_EnableUser_LiftsDisable(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	buyer := seedBuyer(store, "bob@buyer.test", "4 Market Street")
	buyer.User.Active = false

	err := svc.EnableUser(context.Background(), admin, buyer.User.ID)
	require.NoError(t, err)
	assert.True(t, store.users[buyer.User.ID].Active)
}

func TestAdminService_DisableUser_UnknownUser(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)

	err := svc.DisableUser(context.Background(), admin, uuid.New())
	requireErrCode(t, err, domainerrors.ErrUserNotFound)
}

func TestAdminService_DeleteUser_Success(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	buyer := seedBuyer(store, "bob@buyer.test", "4 Market Street")

	err := svc.DeleteUser(context.Background(), admin, buyer.User.ID)
	require.NoError(t, err)
	assert.NotContains(t, store.users, buyer.User.ID)
}

func TestAdminService_ListUsers_ExcludesAdmins(t *testing.T) {
	svc, store := createTestAdminService(t)
	admin := seedAdmin(store)
	seedBuyer(store, "bob@buyer.test", "4 Market Street")
	seedFarmer(store, "alice@farm.test")

	users, err := svc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
