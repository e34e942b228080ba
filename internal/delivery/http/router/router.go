// Package router contains routing setup for the HTTP delivery.
package router

import (
	"orderdesk/internal/delivery/http/middleware"
	"orderdesk/internal/delivery/http/router/handler"
	"orderdesk/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	OrderHandler    *handler.OrderHandler
	CustomerHandler *handler.CustomerHandler
	StatsHandler    *handler.StatsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	orderHandler    *handler.OrderHandler
	customerHandler *handler.CustomerHandler
	statsHandler    *handler.StatsHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		userHandler:     params.UserHandler,
		orderHandler:    params.OrderHandler,
		customerHandler: params.CustomerHandler,
		statsHandler:    params.StatsHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/verify-email", r.authHandler.VerifyEmail)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// Auth routes that require a valid access token
	sessionGroup := e.Group("/auth")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.POST("/logout", r.authHandler.Logout)
		sessionGroup.POST("/send-verification", r.authHandler.SendVerificationCode)
	}

	// User routes
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("", r.userHandler.List, r.authMiddleware.RequireRole(entity.RoleAdmin))
		userGroup.GET("/:id", r.userHandler.Get)
		userGroup.PATCH("/:id", r.userHandler.Update)
		userGroup.POST("/change-password", r.userHandler.ChangePassword)
		userGroup.DELETE("/:id", r.userHandler.Delete, r.authMiddleware.RequireRole(entity.RoleAdmin))

		userGroup.GET("/:id/stats/orders", r.statsHandler.OrderStats)
	}

	// Order routes
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Create)
		orderGroup.GET("", r.orderHandler.List)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.PATCH("/:id", r.orderHandler.Update)
		orderGroup.PATCH("/:id/status", r.orderHandler.SetStatus)
		orderGroup.DELETE("/:id", r.orderHandler.Delete)
	}

	// Customer routes
	customerGroup := e.Group("/customers")
	customerGroup.Use(r.authMiddleware.Authenticate)
	{
		customerGroup.POST("", r.customerHandler.Create)
		customerGroup.GET("", r.customerHandler.List)
		customerGroup.GET("/:id", r.customerHandler.Get)
		customerGroup.PATCH("/:id", r.customerHandler.Update)
		customerGroup.POST("/:id/orders", r.customerHandler.AttachOrders)
		customerGroup.DELETE("/:id", r.customerHandler.Delete)
	}
}
