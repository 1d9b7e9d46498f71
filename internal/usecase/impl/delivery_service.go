package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"market/config"
	deliverycontext "market/internal/delivery/context"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// deliveryService implements the DeliveryUsecase interface.
type deliveryService struct {
	txManager       repository.TransactionManager
	qrcodeService   service.QRCodeService
	trackingBaseURL string
	logger          *slog.Logger
}

// DeliveryServiceParams holds dependencies for deliveryService, injected by Fx.
type DeliveryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	QRCodeService service.QRCodeService
	Config        *config.Config
	Logger        *slog.Logger
}

// NewDeliveryService is the constructor for deliveryService.
func NewDeliveryService(params DeliveryServiceParams) usecase.DeliveryUsecase {
	trackingBaseURL := ""
	if params.Config != nil && params.Config.Delivery != nil {
		trackingBaseURL = strings.TrimRight(params.Config.Delivery.TrackingBaseURL, "/")
	}

	return &deliveryService{
		txManager:       params.TxManager,
		qrcodeService:   params.QRCodeService,
		trackingBaseURL: trackingBaseURL,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *deliveryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// TrackDelivery returns the delivery scheduled for an order. The not-found
// detail tells a missing order apart from an order still awaiting payment.
func (srv *deliveryService) TrackDelivery(ctx context.Context, orderID uuid.UUID) (*entity.Delivery, error) {
	var delivery *entity.Delivery
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.DeliveryRepo().FindByOrderID(ctx, orderID)
		if err == nil {
			delivery = found

			return nil
		}
		if !errors.Is(err, repository.ErrDeliveryNotFound) {
			return errors.Wrap(err, "failed to find delivery")
		}

		if _, err := repoFactory.OrderRepo().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "no such order")
			}

			return errors.Wrap(err, "failed to find order")
		}

		return errors.Wrap(
			domainerrors.ErrDeliveryNotFound.WithDetails("order exists but has no delivery scheduled yet"),
			"order not yet paid for")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute delivery query")
	}

	return delivery, nil
}

// TrackingQRCode renders the delivery's public tracking URL as a PNG QR code.
func (srv *deliveryService) TrackingQRCode(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	delivery, err := srv.TrackDelivery(ctx, orderID)
	if err != nil {
		return nil, err
	}

	trackingURL := fmt.Sprintf("%s/deliveries/%s", srv.trackingBaseURL, delivery.OrderID)

	png, err := srv.qrcodeService.GenerateTrackingQR(trackingURL)
	if err != nil {
		srv.log(ctx).Error("Failed to render tracking QR code", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to render tracking QR code")
	}

	return png, nil
}
