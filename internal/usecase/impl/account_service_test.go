package impl

import (
	"context"
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAccountService(t *testing.T) (usecase.AccountUsecase, *fakeStore) {
	t.Helper()
	store, txManager := newTestStore(t)
	svc := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		Hasher:       fakeHasher{},
		TokenService: fakeTokenService{},
		Logger:       testLogger(),
	})

	return svc, store
}

func TestAccountService_RegisterFarmer_StartsPending(t *testing.T) {
	svc, _ := createTestAccountService(t)

	out, err := svc.RegisterFarmer(context.Background(), &usecase.RegisterFarmerInput{
		Name:        "Alice",
		Email:       "alice@farm.test",
		Password:    "growing-things",
		FarmAddress: "12 Orchard Lane",
		FarmSize:    3.5,
	})
	require.NoError(t, err)
	require.NotNil(t, out.User.FarmerProfile)
	assert.True(t, out.User.FarmerProfile.Pending)
	assert.True(t, out.User.Active)
	require.Len(t, out.User.FarmerProfile.Farms, 1)
	assert.Equal(t, "12 Orchard Lane", out.User.FarmerProfile.Farms[0].Address)
}

func TestAccountService_RegisterFarmer_DuplicateEmail(t *testing.T) {
	svc, _ := createTestAccountService(t)

	input := &usecase.RegisterFarmerInput{
		Name:     "Alice",
		Email:    "alice@farm.test",
		Password: "growing-things",
	}
	_, err := svc.RegisterFarmer(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.RegisterFarmer(context.Background(), input)
	requireErrCode(t, err, domainerrors.ErrAlreadyExists)
}

func TestAccountService_RegisterBuyer_Success(t *testing.T) {
	svc, _ := createTestAccountService(t)

	out, err := svc.RegisterBuyer(context.Background(), &usecase.RegisterBuyerInput{
		Name:          "Bob",
		Email:         "bob@buyer.test",
		Password:      "grocery-run",
		Address:       "4 Market Street",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.NotNil(t, out.User.BuyerProfile)
	assert.Equal(t, "4 Market Street", out.User.BuyerProfile.Address)
	assert.Nil(t, out.User.FarmerProfile)
}

func TestAccountService_Login_PendingFarmerRefused(t *testing.T) {
	svc, _ := createTestAccountService(t)

	_, err := svc.RegisterFarmer(context.Background(), &usecase.RegisterFarmerInput{
		Name:     "Alice",
		Email:    "alice@farm.test",
		Password: "growing-things",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@farm.test",
		Password: "growing-things",
		Role:     entity.RoleFarmer,
	})
	requireErrCode(t, err, domainerrors.ErrPendingApproval)
}

func TestAccountService_Login_FarmerAfterApproval(t *testing.T) {
	svc, store := createTestAccountService(t)

	out, err := svc.RegisterFarmer(context.Background(), &usecase.RegisterFarmerInput{
		Name:     "Alice",
		Email:    "alice@farm.test",
		Password: "growing-things",
	})
	require.NoError(t, err)

	store.users[out.User.ID].FarmerProfile.Pending = false

	loginOut, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@farm.test",
		Password: "growing-things",
		Role:     entity.RoleFarmer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loginOut.AccessToken)
	assert.Equal(t, entity.RoleFarmer, loginOut.Role)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	svc, _ := createTestAccountService(t)

	_, err := svc.RegisterBuyer(context.Background(), &usecase.RegisterBuyerInput{
		Name:     "Bob",
		Email:    "bob@buyer.test",
		Password: "grocery-run",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "bob@buyer.test",
		Password: "wrong",
		Role:     entity.RoleBuyer,
	})
	requireErrCode(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc, _ := createTestAccountService(t)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@nowhere.test",
		Password: "whatever",
		Role:     entity.RoleBuyer,
	})
	requireErrCode(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_RoleNotHeld(t *testing.T) {
	svc, _ := createTestAccountService(t)

	_, err := svc.RegisterBuyer(context.Background(), &usecase.RegisterBuyerInput{
		Name:     "Bob",
		Email:    "bob@buyer.test",
		Password: "grocery-run",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "bob@buyer.test",
		Password: "grocery-run",
		Role:     entity.RoleFarmer,
	})
	requireErrCode(t, err, domainerrors.ErrNotMember)
}

func TestAccountService_Login_DisabledAccount(t *testing.T) {
	svc, store := createTestAccountService(t)

	out, err := svc.RegisterBuyer(context.Background(), &usecase.RegisterBuyerInput{
		Name:     "Bob",
		Email:    "bob@buyer.test",
		Password: "grocery-run",
	})
	require.NoError(t, err)

	store.users[out.User.ID].Active = false

	_, err = svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "bob@buyer.test",
		Password: "grocery-run",
		Role:     entity.RoleBuyer,
	})
	requireErrCode(t, err, domainerrors.ErrForbidden)
}

func TestAccountService_Login_InvalidRole(t *testing.T) {
	svc, _ := createTestAccountService(t)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "bob@buyer.test",
		Password: "grocery-run",
		Role:     entity.Role("wizard"),
	})
	requireErrCode(t, err, domainerrors.ErrValidationFailed)
}
