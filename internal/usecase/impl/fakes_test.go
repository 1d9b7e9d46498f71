package impl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The services are tested against an in-memory store implementing the
// repository interfaces, so the orchestration logic runs unchanged while
// persistence behaves deterministically. The fake transaction manager
// restores the store's row membership when the callback errors, mirroring a
// rollback closely enough for the atomicity tests.

type fakeStore struct {
	users      map[uuid.UUID]*entity.User
	categories map[uuid.UUID]*entity.Category
	products   map[uuid.UUID]*entity.Product
	orders     map[uuid.UUID]*entity.Order
	payments   map[string]*entity.Payment
	deliveries map[uuid.UUID]*entity.Delivery

	// failDeliveryCreate forces delivery inserts to fail, for rollback tests.
	failDeliveryCreate error

	// onOrderRead runs after an order lookup, so tests can interleave a
	// concurrent writer between a service's read and its version-checked write.
	onOrderRead func(stored *entity.Order)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uuid.UUID]*entity.User),
		categories: make(map[uuid.UUID]*entity.Category),
		products:   make(map[uuid.UUID]*entity.Product),
		orders:     make(map[uuid.UUID]*entity.Order),
		payments:   make(map[string]*entity.Payment),
		deliveries: make(map[uuid.UUID]*entity.Delivery),
	}
}

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	snapshot := m.snapshot()
	if err := fn(&fakeRepoFactory{store: m.store}); err != nil {
		m.restore(snapshot)

		return err
	}

	return nil
}

func (m *fakeTxManager) snapshot() *fakeStore {
	copied := newFakeStore()
	for k, v := range m.store.users {
		copied.users[k] = v
	}
	for k, v := range m.store.categories {
		copied.categories[k] = v
	}
	for k, v := range m.store.products {
		copied.products[k] = v
	}
	for k, v := range m.store.orders {
		copied.orders[k] = v
	}
	for k, v := range m.store.payments {
		copied.payments[k] = v
	}
	for k, v := range m.store.deliveries {
		copied.deliveries[k] = v
	}

	return copied
}

func (m *fakeTxManager) restore(snapshot *fakeStore) {
	m.store.users = snapshot.users
	m.store.categories = snapshot.categories
	m.store.products = snapshot.products
	m.store.orders = snapshot.orders
	m.store.payments = snapshot.payments
	m.store.deliveries = snapshot.deliveries
}

type fakeRepoFactory struct {
	store *fakeStore
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository {
	return &fakeUserRepo{store: f.store}
}

func (f *fakeRepoFactory) CatalogRepo() repository.CatalogRepository {
	return &fakeCatalogRepo{store: f.store}
}

func (f *fakeRepoFactory) OrderRepo() repository.OrderRepository {
	return &fakeOrderRepo{store: f.store}
}

func (f *fakeRepoFactory) PaymentRepo() repository.PaymentRepository {
	return &fakePaymentRepo{store: f.store}
}

func (f *fakeRepoFactory) DeliveryRepo() repository.DeliveryRepository {
	return &fakeDeliveryRepo{store: f.store}
}

// --- user repository ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByFarmerID(_ context.Context, farmerID uuid.UUID) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.FarmerProfile != nil && user.FarmerProfile.ID == farmerID {
			return user, nil
		}
	}

	return nil, repository.ErrFarmerNotFound
}

func (r *fakeUserRepo) FindByBuyerID(_ context.Context, buyerID uuid.UUID) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.BuyerProfile != nil && user.BuyerProfile.ID == buyerID {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return domainerrors.ErrAlreadyExists.WrapMessage("email already registered")
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	if user.FarmerProfile != nil {
		user.FarmerProfile.ID = uuid.New()
		user.FarmerProfile.UserID = user.ID
		for _, farm := range user.FarmerProfile.Farms {
			farm.ID = uuid.New()
			farm.FarmerID = user.FarmerProfile.ID
		}
	}
	if user.BuyerProfile != nil {
		user.BuyerProfile.ID = uuid.New()
		user.BuyerProfile.UserID = user.ID
	}
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)

	return nil
}

func (r *fakeUserRepo) DeleteFarmerProfile(_ context.Context, farmerID uuid.UUID) error {
	for _, user := range r.store.users {
		if user.FarmerProfile != nil && user.FarmerProfile.ID == farmerID {
			user.FarmerProfile = nil

			return nil
		}
	}

	return repository.ErrFarmerNotFound
}

func (r *fakeUserRepo) ListPendingFarmers(_ context.Context) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range r.store.users {
		if user.FarmerProfile != nil && user.FarmerProfile.Pending {
			users = append(users, user)
		}
	}

	return users, nil
}

func (r *fakeUserRepo) ListNonAdmins(_ context.Context) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range r.store.users {
		if !user.Admin {
			users = append(users, user)
		}
	}

	return users, nil
}

// --- catalog repository ---

type fakeCatalogRepo struct {
	store *fakeStore
}

func (r *fakeCatalogRepo) CreateProduct(_ context.Context, product *entity.Product) error {
	product.ID = uuid.New()
	r.store.products[product.ID] = product

	return nil
}

func (r *fakeCatalogRepo) FindProductByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

func (r *fakeCatalogRepo) UpdateProduct(_ context.Context, product *entity.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.store.products[product.ID] = product

	return nil
}

func (r *fakeCatalogRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.store.products, id)

	return nil
}

func (r *fakeCatalogRepo) ListProductsByFarmer(_ context.Context, farmerID uuid.UUID) ([]*entity.Product, error) {
	var products []*entity.Product
	for _, product := range r.store.products {
		if product.FarmerID == farmerID {
			products = append(products, product)
		}
	}

	return products, nil
}

func (r *fakeCatalogRepo) DeleteProductsByFarmer(_ context.Context, farmerID uuid.UUID) error {
	for id, product := range r.store.products {
		if product.FarmerID == farmerID {
			delete(r.store.products, id)
		}
	}

	return nil
}

func (r *fakeCatalogRepo) ListAvailableProducts(_ context.Context) ([]*entity.Product, error) {
	var products []*entity.Product
	for _, product := range r.store.products {
		if product.Quantity > 0 {
			products = append(products, product)
		}
	}

	return products, nil
}

func (r *fakeCatalogRepo) SearchProducts(_ context.Context, query string) ([]*entity.Product, error) {
	var products []*entity.Product
	for _, product := range r.store.products {
		if product.Quantity > 0 && strings.Contains(strings.ToLower(product.Name), strings.ToLower(query)) {
			products = append(products, product)
		}
	}

	return products, nil
}

func (r *fakeCatalogRepo) FilterProducts(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var products []*entity.Product
	for _, product := range r.store.products {
		if product.Quantity <= 0 {
			continue
		}
		if filter.MinPrice != nil && product.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && product.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *fakeCatalogRepo) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if product.Quantity < quantity {
		return repository.ErrInsufficientStock
	}
	product.Quantity -= quantity

	return nil
}

func (r *fakeCatalogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	category, ok := r.store.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}

	return category, nil
}

func (r *fakeCatalogRepo) ListCategories(_ context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	for _, category := range r.store.categories {
		categories = append(categories, category)
	}

	return categories, nil
}

// --- order repository ---

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	order.ID = uuid.New()
	for _, item := range order.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
	}
	r.store.orders[order.ID] = order

	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	// Return a row copy the way a real query would, so a caller's stale
	// version is detectable by UpdateStatus.
	copied := *order
	if r.store.onOrderRead != nil {
		r.store.onOrderRead(order)
	}

	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status entity.OrderStatus, expectedVersion int) error {
	order, ok := r.store.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Version != expectedVersion {
		return repository.ErrVersionMismatch
	}
	order.Status = status
	order.Version++

	return nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.BuyerID == buyerID {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

func (r *fakeOrderRepo) ListByFarmer(_ context.Context, farmerID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range r.store.orders {
		for _, item := range order.Items {
			if product, ok := r.store.products[item.ProductID]; ok && product.FarmerID == farmerID {
				orders = append(orders, order)

				break
			}
		}
	}

	return orders, nil
}

// --- payment repository ---

type fakePaymentRepo struct {
	store *fakeStore
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	if _, ok := r.store.payments[payment.Reference]; ok {
		return domainerrors.ErrAlreadyExists.WrapMessage("payment reference already recorded")
	}
	payment.ID = uuid.New()
	r.store.payments[payment.Reference] = payment

	return nil
}

func (r *fakePaymentRepo) FindByReference(_ context.Context, reference string) (*entity.Payment, error) {
	payment, ok := r.store.payments[reference]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}

	return payment, nil
}

func (r *fakePaymentRepo) SumByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, payment := range r.store.payments {
		if payment.OrderID == orderID {
			total = total.Add(payment.Amount)
		}
	}

	return total, nil
}

func (r *fakePaymentRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	for _, payment := range r.store.payments {
		if payment.OrderID == orderID {
			payments = append(payments, payment)
		}
	}

	return payments, nil
}

// --- delivery repository ---

type fakeDeliveryRepo struct {
	store *fakeStore
}

func (r *fakeDeliveryRepo) Create(_ context.Context, delivery *entity.Delivery) error {
	if r.store.failDeliveryCreate != nil {
		return r.store.failDeliveryCreate
	}
	if _, ok := r.store.deliveries[delivery.OrderID]; ok {
		return domainerrors.ErrAlreadyExists.WrapMessage("delivery already scheduled for order")
	}
	delivery.ID = uuid.New()
	delivery.CreatedAt = time.Now()
	r.store.deliveries[delivery.OrderID] = delivery

	return nil
}

func (r *fakeDeliveryRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*entity.Delivery, error) {
	delivery, ok := r.store.deliveries[orderID]
	if !ok {
		return nil, repository.ErrDeliveryNotFound
	}

	return delivery, nil
}

// --- shared fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*fakeStore, repository.TransactionManager) {
	t.Helper()
	store := newFakeStore()

	return store, &fakeTxManager{store: store}
}

// seedAdmin inserts an admin user and returns their identity.
func seedAdmin(store *fakeStore) *entity.Identity {
	admin := &entity.User{
		ID:     uuid.New(),
		Email:  "admin@market.test",
		Name:   "Admin",
		Admin:  true,
		Active: true,
	}
	store.users[admin.ID] = admin

	return &entity.Identity{User: admin, Role: entity.RoleAdmin}
}

// seedFarmer inserts an approved farmer and returns their identity.
func seedFarmer(store *fakeStore, email string) *entity.Identity {
	user := &entity.User{
		ID:     uuid.New(),
		Email:  email,
		Name:   "Farmer",
		Active: true,
		FarmerProfile: &entity.FarmerProfile{
			ID:      uuid.New(),
			Pending: false,
		},
	}
	user.FarmerProfile.UserID = user.ID
	store.users[user.ID] = user

	return &entity.Identity{User: user, Role: entity.RoleFarmer}
}

// seedBuyer inserts a buyer and returns their identity.
func seedBuyer(store *fakeStore, email, address string) *entity.Identity {
	user := &entity.User{
		ID:     uuid.New(),
		Email:  email,
		Name:   "Buyer",
		Active: true,
		BuyerProfile: &entity.BuyerProfile{
			ID:      uuid.New(),
			Address: address,
		},
	}
	user.BuyerProfile.UserID = user.ID
	store.users[user.ID] = user

	return &entity.Identity{User: user, Role: entity.RoleBuyer}
}

// seedProduct inserts a product owned by the given farmer profile.
func seedProduct(store *fakeStore, farmerID uuid.UUID, name string, price string, quantity int) *entity.Product {
	product := &entity.Product{
		ID:         uuid.New(),
		FarmerID:   farmerID,
		CategoryID: uuid.New(),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   quantity,
	}
	store.products[product.ID] = product

	return product
}

// seedCategory inserts a category.
func seedCategory(store *fakeStore, name string) *entity.Category {
	category := &entity.Category{ID: uuid.New(), Name: name}
	store.categories[category.ID] = category

	return category
}

// --- domain service fakes ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokenService struct{}

func (fakeTokenService) Generate(subject string, role entity.Role) (string, error) {
	return "token:" + subject + ":" + role.String(), nil
}

func (fakeTokenService) Validate(tokenString string) (*service.Claims, error) {
	parts := strings.Split(tokenString, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, domainerrors.ErrUnauthorized
	}

	return &service.Claims{Subject: parts[1], Role: entity.Role(parts[2])}, nil
}

func (fakeTokenService) AccessTokenDuration() time.Duration {
	return time.Hour
}

type fakeQRCodeService struct {
	lastURL string
}

func (s *fakeQRCodeService) GenerateTrackingQR(trackingURL string) ([]byte, error) {
	s.lastURL = trackingURL

	return []byte("png:" + trackingURL), nil
}

// requireErrCode asserts err carries the same business error code as want.
// Comparing codes instead of sentinels keeps the assertion stable across
// WithDetails copies, which break pointer identity.
func requireErrCode(t *testing.T, err error, want domainerrors.AppError) {
	t.Helper()
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an application error, got %v", err)
	require.Equal(t, want.ErrorCode(), appErr.ErrorCode())
}
