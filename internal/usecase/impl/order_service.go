package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "market/internal/delivery/context"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireBuyer extracts the caller's buyer profile or refuses the call.
func requireBuyer(identity *entity.Identity) (*entity.BuyerProfile, error) {
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "buyer role required")
	}

	buyer, ok := identity.Buyer()
	if !ok {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "buyer role required")
	}

	return buyer, nil
}

// CreateOrder places an order for the authenticated buyer. Within one
// transaction it snapshots the current unit price into each line item,
// recomputes the total server-side, verifies the client's declared amount
// against it, and decrements stock. The client's amount never becomes the
// order total; it only has to agree with the recomputed one.
func (srv *orderService) CreateOrder(ctx context.Context, identity *entity.Identity, input *usecase.CreateOrderInput) (*entity.Order, error) {
	buyer, err := requireBuyer(identity)
	if err != nil {
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "order needs at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed, "item quantity must be positive")
		}
	}

	srv.log(ctx).Info("Creating order", slog.Any("buyerID", buyer.ID), slog.Int("items", len(input.Items)))

	order := &entity.Order{
		BuyerID:  buyer.ID,
		Status:   entity.OrderStatusPending,
		PlacedAt: time.Now(),
		Version:  1,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.CatalogRepo()

		total := decimal.Zero
		items := make([]*entity.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			product, err := catalogRepo.FindProductByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return errors.Wrapf(domainerrors.ErrProductNotFound, "product %s does not exist", line.ProductID)
				}

				return errors.Wrap(err, "failed to find product")
			}

			items = append(items, &entity.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if !total.Equal(input.DeclaredAmount) {
			return errors.Wrapf(domainerrors.ErrInvalidAmount,
				"declared amount %s does not match computed total %s", input.DeclaredAmount, total)
		}

		for _, line := range input.Items {
			if err := catalogRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return errors.Wrapf(domainerrors.ErrInsufficientStock, "product %s is short on stock", line.ProductID)
				}
				if errors.Is(err, repository.ErrProductNotFound) {
					return errors.Wrapf(domainerrors.ErrProductNotFound, "product %s does not exist", line.ProductID)
				}

				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		order.Amount = total
		order.Items = items
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create order", slog.Any("buyerID", buyer.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order creation transaction")
	}

	srv.log(ctx).Debug("Order created", slog.Any("orderID", order.ID), slog.String("amount", order.Amount.String()))

	return order, nil
}

// GetOrder returns an order visible to its buyer, an involved farmer, or an admin.
func (srv *orderService) GetOrder(ctx context.Context, identity *entity.Identity, orderID uuid.UUID) (*entity.Order, error) {
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "authentication required")
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "no such order")
			}

			return errors.Wrap(err, "failed to find order")
		}

		allowed, err := srv.mayAccessOrder(ctx, repoFactory, identity, found)
		if err != nil {
			return err
		}
		if !allowed {
			return errors.Wrap(domainerrors.ErrForbidden, "order belongs to someone else")
		}
		order = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute order query")
	}

	return order, nil
}

// UpdateOrderStatus advances an order through its lifecycle. Admins may move
// any order; a farmer may move orders containing at least one of their
// products. The write is version-checked, so a concurrent modification
// surfaces as a conflict rather than a lost update.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, identity *entity.Identity, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error) {
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "authentication required")
	}
	if !newStatus.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition, "unknown status %q", newStatus)
	}

	srv.log(ctx).Info("Updating order status", slog.Any("orderID", orderID), slog.Any("newStatus", newStatus))

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		found, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "no order to update")
			}

			return errors.Wrap(err, "failed to find order")
		}

		if !identity.IsAdmin() {
			farmer, ok := identity.Farmer()
			if !ok {
				return errors.Wrap(domainerrors.ErrForbidden, "only admins and involved farmers may update orders")
			}

			owners, err := srv.productOwners(ctx, repoFactory, found)
			if err != nil {
				return err
			}
			if !found.ReferencesFarmer(farmer.ID, owners) {
				return errors.Wrap(domainerrors.ErrForbidden, "order contains none of the farmer's products")
			}
			if partial := srv.ownsOnlySome(farmer.ID, owners); partial {
				srv.log(ctx).Warn("Farmer updating multi-farmer order",
					slog.Any("orderID", orderID), slog.Any("farmerID", farmer.ID))
			}
		}

		if !found.Status.CanTransitionTo(newStatus) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot move order from %s to %s", found.Status, newStatus)
		}

		if err := orderRepo.UpdateStatus(ctx, orderID, newStatus, found.Version); err != nil {
			if errors.Is(err, repository.ErrVersionMismatch) {
				return errors.Wrap(domainerrors.ErrConflict, "order was modified concurrently")
			}
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "no order to update")
			}

			return errors.Wrap(err, "failed to update order status")
		}

		found.Status = newStatus
		found.Version++
		order = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update order status", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order status transaction")
	}

	return order, nil
}

// ListBuyerOrders returns the authenticated buyer's orders.
func (srv *orderService) ListBuyerOrders(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error) {
	buyer, err := requireBuyer(identity)
	if err != nil {
		return nil, err
	}

	var orders []*entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().ListByBuyer(ctx, buyer.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list buyer orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute buyer orders query")
	}

	return orders, nil
}

// ListFarmerOrders returns orders containing the authenticated farmer's products.
func (srv *orderService) ListFarmerOrders(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error) {
	farmer, err := requireFarmer(identity)
	if err != nil {
		return nil, err
	}

	var orders []*entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().ListByFarmer(ctx, farmer.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list farmer orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute farmer orders query")
	}

	return orders, nil
}

// mayAccessOrder decides order visibility: the owning buyer, any farmer with
// a product among the items, and admins.
func (srv *orderService) mayAccessOrder(ctx context.Context, repoFactory repository.RepositoryFactory, identity *entity.Identity, order *entity.Order) (bool, error) {
	if identity.IsAdmin() {
		return true, nil
	}
	if buyer, ok := identity.Buyer(); ok {
		return buyer.ID == order.BuyerID, nil
	}
	if farmer, ok := identity.Farmer(); ok {
		owners, err := srv.productOwners(ctx, repoFactory, order)
		if err != nil {
			return false, err
		}

		return order.ReferencesFarmer(farmer.ID, owners), nil
	}

	return false, nil
}

// productOwners loads the farmer owning each product referenced by the order.
// Products deleted since the order was placed simply drop out of the map.
func (srv *orderService) productOwners(ctx context.Context, repoFactory repository.RepositoryFactory, order *entity.Order) (map[uuid.UUID]uuid.UUID, error) {
	catalogRepo := repoFactory.CatalogRepo()

	owners := make(map[uuid.UUID]uuid.UUID, len(order.Items))
	for _, item := range order.Items {
		product, err := catalogRepo.FindProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}

			return nil, errors.Wrap(err, "failed to resolve product owner")
		}
		owners[item.ProductID] = product.FarmerID
	}

	return owners, nil
}

// ownsOnlySome reports whether the order spans products of other farmers too.
func (srv *orderService) ownsOnlySome(farmerID uuid.UUID, owners map[uuid.UUID]uuid.UUID) bool {
	for _, owner := range owners {
		if owner != farmerID {
			return true
		}
	}

	return false
}
