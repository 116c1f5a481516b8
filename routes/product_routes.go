package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
)

// RegisterProductRoutes sets up catalog routes. Reads are public, mutations
// are admin only.
func RegisterProductRoutes(e *echo.Echo, db *mongo.Database) {
	productController := controllers.NewProductController(db)

	e.GET("/api/products", productController.GetProducts)
	e.GET("/api/products/:id", productController.GetProduct)

	admin := e.Group("/api/products")
	admin.Use(middleware.RequireAuth())
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("", productController.CreateProduct)
	admin.PUT("/:id", productController.UpdateProduct)
	admin.DELETE("/:id", productController.DeleteProduct)
}
