package impl

import (
	"context"
	"fmt"
	"testing"

	"market/config"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDeliveryService(t *testing.T) (usecase.DeliveryUsecase, *fakeStore, *fakeQRCodeService) {
	t.Helper()
	store, txManager := newTestStore(t)
	qr := &fakeQRCodeService{}
	svc := NewDeliveryService(DeliveryServiceParams{
		TxManager:     txManager,
		QRCodeService: qr,
		Config: &config.Config{
			Delivery: &config.DeliveryConfig{TrackingBaseURL: "https://track.example.com/"},
		},
		Logger: testLogger(),
	})

	return svc, store, qr
}

func seedDelivery(store *fakeStore, orderID uuid.UUID, address string) *entity.Delivery {
	delivery := &entity.Delivery{
		ID:      uuid.New(),
		OrderID: orderID,
		Status:  entity.DeliveryStatusPending,
		Address: address,
	}
	store.deliveries[orderID] = delivery

	return delivery
}

func TestDeliveryService_TrackDelivery_Success(t *testing.T) {
	svc, store, _ := createTestDeliveryService(t)
	orderID := uuid.New()
	store.orders[orderID] = &entity.Order{ID: orderID, Status: entity.OrderStatusProcessed, Version: 2}
	seeded := seedDelivery(store, orderID, "4 Market Street")

	delivery, err := svc.TrackDelivery(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, delivery.ID)
	assert.Equal(t, "4 Market Street", delivery.Address)
}

func TestDeliveryService_TrackDelivery_UnpaidOrder(t *testing.T) {
	svc, store, _ := createTestDeliveryService(t)
	orderID := uuid.New()
	store.orders[orderID] = &entity.Order{ID: orderID, Status: entity.OrderStatusPending, Version: 1}

	_, err := svc.TrackDelivery(context.Background(), orderID)
	requireErrCode(t, err, domainerrors.ErrDeliveryNotFound)
}

func TestDeliveryService_TrackDelivery_UnknownOrder(t *testing.T) {
	svc, _, _ := createTestDeliveryService(t)

	_, err := svc.TrackDelivery(context.Background(), uuid.New())
	requireErrCode(t, err, domainerrors.ErrOrderNotFound)
}

func TestDeliveryService_TrackingQRCode_EncodesTrackingURL(t *testing.T) {
	svc, store, qr := createTestDeliveryService(t)
	orderID := uuid.New()
	store.orders[orderID] = &entity.Order{ID: orderID, Status: entity.OrderStatusProcessed, Version: 2}
	seedDelivery(store, orderID, "4 Market Street")

	png, err := svc.TrackingQRCode(context.Background(), orderID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.Equal(t, fmt.Sprintf("https://track.example.com/deliveries/%s", orderID), qr.lastURL)
}

func TestDeliveryService_TrackingQRCode_NoDelivery(t *testing.T) {
	svc, _, qr := createTestDeliveryService(t)

	_, err := svc.TrackingQRCode(context.Background(), uuid.New())
	requireErrCode(t, err, domainerrors.ErrOrderNotFound)
	assert.Empty(t, qr.lastURL)
}
