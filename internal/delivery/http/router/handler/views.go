// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View structs shape what leaves the API. Password hashes and other internal
// columns never appear here.

type userView struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone,omitempty"`
	Active  bool        `json:"active"`
	Farmer  *farmerView `json:"farmer,omitempty"`
	Buyer   *buyerView  `json:"buyer,omitempty"`
	Created time.Time   `json:"created_at"`
}

type farmerView struct {
	ID      uuid.UUID  `json:"id"`
	Pending bool       `json:"pending"`
	Farms   []farmView `json:"farms,omitempty"`
}

type farmView struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
	Size    float64   `json:"size"`
}

type buyerView struct {
	ID            uuid.UUID `json:"id"`
	Address       string    `json:"address"`
	PaymentMethod string    `json:"payment_method,omitempty"`
}

type productView struct {
	ID          uuid.UUID       `json:"id"`
	FarmerID    uuid.UUID       `json:"farmer_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type categoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type orderView struct {
	ID       uuid.UUID       `json:"id"`
	BuyerID  uuid.UUID       `json:"buyer_id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	PlacedAt time.Time       `json:"placed_at"`
	Items    []orderItemView `json:"items"`
}

type orderItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type paymentView struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Status    string          `json:"status"`
	PaidAt    time.Time       `json:"paid_at"`
}

type deliveryView struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(user *entity.User) *userView {
	if user == nil {
		return nil
	}

	view := &userView{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Active:  user.Active,
		Created: user.CreatedAt,
	}
	if user.FarmerProfile != nil {
		farms := make([]farmView, 0, len(user.FarmerProfile.Farms))
		for _, farm := range user.FarmerProfile.Farms {
			farms = append(farms, farmView{ID: farm.ID, Address: farm.Address, Size: farm.Size})
		}
		view.Farmer = &farmerView{
			ID:      user.FarmerProfile.ID,
			Pending: user.FarmerProfile.Pending,
			Farms:   farms,
		}
	}
	if user.BuyerProfile != nil {
		view.Buyer = &buyerView{
			ID:            user.BuyerProfile.ID,
			Address:       user.BuyerProfile.Address,
			PaymentMethod: user.BuyerProfile.PaymentMethod,
		}
	}

	return view
}

func toUserViews(users []*entity.User) []*userView {
	views := make([]*userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}

	return views
}

func toProductView(product *entity.Product) *productView {
	if product == nil {
		return nil
	}

	return &productView{
		ID:          product.ID,
		FarmerID:    product.FarmerID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
		ImageURL:    product.ImageURL,
	}
}

func toProductViews(products []*entity.Product) []*productView {
	views := make([]*productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	return views
}

func toCategoryViews(categories []*entity.Category) []*categoryView {
	views := make([]*categoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, &categoryView{ID: category.ID, Name: category.Name})
	}

	return views
}

func toOrderView(order *entity.Order) *orderView {
	if order == nil {
		return nil
	}

	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &orderView{
		ID:       order.ID,
		BuyerID:  order.BuyerID,
		Status:   order.Status.String(),
		Amount:   order.Amount,
		PlacedAt: order.PlacedAt,
		Items:    items,
	}
}

func toOrderViews(orders []*entity.Order) []*orderView {
	views := make([]*orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}

	return views
}

func toPaymentView(payment *entity.Payment) *paymentView {
	if payment == nil {
		return nil
	}

	return &paymentView{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		Reference: payment.Reference,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    string(payment.Status),
		PaidAt:    payment.PaidAt,
	}
}

func toDeliveryView(delivery *entity.Delivery) *deliveryView {
	if delivery == nil {
		return nil
	}

	return &deliveryView{
		ID:        delivery.ID,
		OrderID:   delivery.OrderID,
		Status:    string(delivery.Status),
		Address:   delivery.Address,
		CreatedAt: delivery.CreatedAt,
	}
}
