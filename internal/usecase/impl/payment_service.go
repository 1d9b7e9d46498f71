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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// PaymentServiceParams holds dependencies for paymentService, injected by Fx.
type PaymentServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	return &paymentService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ProcessPayment records money against an order. The reference deduplicates
// retries: a reference seen before returns the originally recorded payment
// (and its delivery, if one was scheduled) without writing anything. When the
// payment settles the order in full, the same transaction schedules exactly
// one delivery to the buyer's registered address and moves the order from
// pending to processed; any failure along the way rolls the payment back too.
func (srv *paymentService) ProcessPayment(ctx context.Context, identity *entity.Identity, input *usecase.ProcessPaymentInput) (*usecase.ProcessPaymentOutput, error) {
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "authentication required")
	}
	if !input.Amount.IsPositive() {
		return nil, errors.Wrap(domainerrors.ErrInvalidAmount, "payment amount must be positive")
	}
	if input.Reference == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "payment reference is required")
	}

	srv.log(ctx).Info("Processing payment",
		slog.Any("orderID", input.OrderID),
		slog.String("reference", input.Reference),
		slog.String("amount", input.Amount.String()))

	output := &usecase.ProcessPaymentOutput{}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()
		paymentRepo := repoFactory.PaymentRepo()
		deliveryRepo := repoFactory.DeliveryRepo()

		order, err := orderRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "no order to pay")
			}

			return errors.Wrap(err, "failed to find order")
		}

		if !identity.IsAdmin() {
			buyer, ok := identity.Buyer()
			if !ok || buyer.ID != order.BuyerID {
				return errors.Wrap(domainerrors.ErrForbidden, "order belongs to someone else")
			}
		}

		// Replay detection before any write.
		existing, err := paymentRepo.FindByReference(ctx, input.Reference)
		if err != nil && !errors.Is(err, repository.ErrPaymentNotFound) {
			return errors.Wrap(err, "failed to look up payment reference")
		}
		if existing != nil {
			if existing.OrderID != order.ID {
				return errors.Wrap(domainerrors.ErrConflict, "payment reference used for a different order")
			}
			output.Payment = existing

			delivery, err := deliveryRepo.FindByOrderID(ctx, order.ID)
			if err != nil && !errors.Is(err, repository.ErrDeliveryNotFound) {
				return errors.Wrap(err, "failed to look up delivery for replayed payment")
			}
			output.Delivery = delivery

			srv.log(ctx).Debug("Payment reference replayed", slog.String("reference", input.Reference))

			return nil
		}

		// A terminal order takes no further money, partial or not.
		if order.Status.IsTerminal() {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"order is %s and no longer accepts payments", order.Status)
		}

		paid, err := paymentRepo.SumByOrder(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to sum prior payments")
		}

		outstanding := order.Amount.Sub(paid)
		if input.Amount.GreaterThan(outstanding) {
			return errors.Wrapf(domainerrors.ErrInvalidAmount,
				"payment %s exceeds outstanding balance %s", input.Amount, outstanding)
		}

		payment := &entity.Payment{
			OrderID:   order.ID,
			Reference: input.Reference,
			Amount:    input.Amount,
			Method:    input.Method,
			Status:    entity.PaymentStatusProcessed,
			PaidAt:    time.Now(),
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to record payment")
		}
		output.Payment = payment

		if !input.Amount.Equal(outstanding) {
			return nil
		}

		// Fully paid: schedule the delivery and advance the order together.
		if !order.Status.CanTransitionTo(entity.OrderStatusProcessed) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot move order from %s to %s", order.Status, entity.OrderStatusProcessed)
		}

		buyerUser, err := repoFactory.UserRepo().FindByBuyerID(ctx, order.BuyerID)
		if err != nil {
			return errors.Wrap(err, "failed to resolve buyer address for delivery")
		}

		delivery := &entity.Delivery{
			OrderID: order.ID,
			Status:  entity.DeliveryStatusPending,
			Address: buyerUser.BuyerProfile.Address,
		}
		if err := deliveryRepo.Create(ctx, delivery); err != nil {
			return errors.Wrap(err, "failed to schedule delivery")
		}
		output.Delivery = delivery

		if err := orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusProcessed, order.Version); err != nil {
			if errors.Is(err, repository.ErrVersionMismatch) {
				return errors.Wrap(domainerrors.ErrConflict, "order was modified concurrently")
			}

			return errors.Wrap(err, "failed to advance paid order")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to process payment",
			slog.Any("orderID", input.OrderID), slog.String("reference", input.Reference), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute payment transaction")
	}

	return output, nil
}
