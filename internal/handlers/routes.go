package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"orders-backend/internal/middleware"
	"orders-backend/internal/session"
)

type Handlers struct {
	Health    *HealthHandler
	Orders    *OrdersHandler
	Users     *UsersHandler
	Products  *ProductsHandler
	Elements  *ElementsHandler
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Actions   *ActionsHandler
}

// RegisterRoutes mounts every endpoint on router. Sessions are resolved
// leniently for all routes; handlers decide whether a user is required.
func RegisterRoutes(router gin.IRouter, h Handlers, resolver session.Resolver, logger *zap.Logger) {
	router.GET("/health", h.Health.Check)

	app := router.Group("")
	app.Use(middleware.RequestScope())
	app.Use(middleware.Session(resolver, logger))

	api := app.Group("/api")

	api.GET("/order", h.Orders.ListOrders)
	api.POST("/order", h.Orders.CreateOrder)
	api.GET("/order/:id", h.Orders.GetOrder)
	api.PUT("/order/:id", h.Orders.UpdateOrder)
	api.DELETE("/order/:id", h.Orders.DeleteOrder)

	api.GET("/user", h.Users.ListUsers)
	api.POST("/user", h.Users.CreateUser)
	api.GET("/user/:id", h.Users.GetUser)
	api.PUT("/user/:id", h.Users.UpdateUser)
	api.DELETE("/user/:id", h.Users.DeleteUser)

	api.GET("/product", h.Products.ListProducts)
	api.GET("/product/:id", h.Products.GetProduct)
	api.PUT("/product/:id/image", h.Products.UploadImage)

	api.GET("/element", h.Elements.ListElements)
	api.GET("/element/:symbol", h.Elements.GetElement)

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", middleware.RequireAuth(), h.Auth.Me)

	api.GET("/dashboard", h.Dashboard.GetDashboard)

	actions := app.Group("/actions")
	actions.POST("/orders", h.Actions.CreateOrder)
	actions.PUT("/orders/:id", h.Actions.UpdateOrder)
	actions.DELETE("/orders/:id", h.Actions.DeleteOrder)
}
