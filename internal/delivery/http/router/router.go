// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/router/handler"
	"market/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	AdminHandler    *handler.AdminHandler
	ProductHandler  *handler.ProductHandler
	OrderHandler    *handler.OrderHandler
	PaymentHandler  *handler.PaymentHandler
	DeliveryHandler *handler.DeliveryHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	adminHandler    *handler.AdminHandler
	productHandler  *handler.ProductHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	deliveryHandler *handler.DeliveryHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		adminHandler:    params.AdminHandler,
		productHandler:  params.ProductHandler,
		orderHandler:    params.OrderHandler,
		paymentHandler:  params.PaymentHandler,
		deliveryHandler: params.DeliveryHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/farmer", r.accountHandler.RegisterFarmer)
		authGroup.POST("/register/buyer", r.accountHandler.RegisterBuyer)
		authGroup.POST("/login/farmer", r.accountHandler.LoginFarmer)
		authGroup.POST("/login/buyer", r.accountHandler.LoginBuyer)
		authGroup.POST("/login/admin", r.accountHandler.LoginAdmin)
	}

	// Public catalog and delivery tracking, no authentication
	e.GET("/products", r.productHandler.ListProducts)
	e.GET("/products/search", r.productHandler.SearchProducts)
	e.GET("/products/filter", r.productHandler.FilterProducts)
	e.GET("/products/:productID", r.productHandler.GetProduct)
	e.GET("/categories", r.productHandler.ListCategories)
	e.GET("/deliveries/:orderID", r.deliveryHandler.TrackDelivery)
	e.GET("/deliveries/:orderID/qrcode", r.deliveryHandler.TrackingQRCode)

	// Farmer routes: authenticated, approved farmers only
	farmerGroup := e.Group("/farmer")
	farmerGroup.Use(r.authMiddleware.Authenticate)
	farmerGroup.Use(r.authMiddleware.RequireRole(entity.RoleFarmer))
	{
		farmerGroup.POST("/products", r.productHandler.CreateProduct)
		farmerGroup.GET("/products", r.productHandler.ListFarmerProducts)
		farmerGroup.PUT("/products/:productID", r.productHandler.UpdateProduct)
		farmerGroup.DELETE("/products/:productID", r.productHandler.DeleteProduct)
		farmerGroup.GET("/orders", r.orderHandler.ListFarmerOrders)
		farmerGroup.GET("/orders/:orderID", r.orderHandler.GetOrder)
		farmerGroup.PATCH("/orders/:orderID/status", r.orderHandler.UpdateOrderStatus)
	}

	// Buyer routes: authenticated buyers only
	buyerGroup := e.Group("/buyer")
	buyerGroup.Use(r.authMiddleware.Authenticate)
	buyerGroup.Use(r.authMiddleware.RequireRole(entity.RoleBuyer))
	{
		buyerGroup.POST("/orders", r.orderHandler.CreateOrder)
		buyerGroup.GET("/orders", r.orderHandler.ListBuyerOrders)
		buyerGroup.GET("/orders/:orderID", r.orderHandler.GetOrder)
		buyerGroup.POST("/orders/:orderID/payments", r.paymentHandler.ProcessPayment)
	}

	// Admin routes: authenticated administrators only
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/farmers/pending", r.adminHandler.ListPendingFarmers)
		adminGroup.POST("/farmers/:farmerID/approve", r.adminHandler.ApproveFarmer)
		adminGroup.POST("/farmers/:farmerID/reject", r.adminHandler.RejectFarmer)
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.POST("/users/:userID/disable", r.adminHandler.DisableUser)
		adminGroup.POST("/users/:userID/enable", r.adminHandler.EnableUser)
		adminGroup.DELETE("/users/:userID", r.adminHandler.DeleteUser)
		adminGroup.GET("/orders/:orderID", r.orderHandler.GetOrder)
		adminGroup.PATCH("/orders/:orderID/status", r.orderHandler.UpdateOrderStatus)
		adminGroup.POST("/orders/:orderID/payments", r.paymentHandler.ProcessPayment)
	}
}
