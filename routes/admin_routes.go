package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
)

// RegisterAdminRoutes sets up the back-office routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Database, affiliate *services.AffiliateService) {
	adminController := controllers.NewAdminController(db, affiliate)

	admin := e.Group("/api/admin")
	admin.Use(middleware.RequireAuth())
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/merchants", adminController.GetMerchants)
	admin.GET("/commissions", adminController.GetCommissions)
	admin.PUT("/commissions/:id", adminController.SetCommissionPaid)
}
