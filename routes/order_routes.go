package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/repositories"
	"github.com/DavidAtikpo/firsty/services"
)

// RegisterOrderRoutes sets up checkout and order management routes
func RegisterOrderRoutes(e *echo.Echo, db *mongo.Database, userRepo *repositories.UserRepository, affiliate *services.AffiliateService) {
	orderController := controllers.NewOrderController(db, userRepo, affiliate)

	orders := e.Group("/api/orders")
	orders.Use(middleware.RequireAuth())
	orders.GET("", orderController.GetOrders)
	orders.POST("", orderController.CreateOrder)
	orders.PUT("/:id", orderController.UpdateOrderStatus, middleware.RequireRole(models.RoleAdmin))
}
