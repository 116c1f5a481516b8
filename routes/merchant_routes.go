package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
	"github.com/DavidAtikpo/firsty/websocket"
)

// RegisterMerchantRoutes sets up the merchant dashboard routes and the
// notification websocket
func RegisterMerchantRoutes(e *echo.Echo, db *mongo.Database, sessions *services.SessionService, hub *websocket.Hub) {
	merchantController := controllers.NewMerchantController(db)

	merchants := e.Group("/api/merchants")
	merchants.Use(middleware.RequireAuth())
	merchants.Use(middleware.RequireRole(models.RoleMerchant))
	merchants.GET("/stats", merchantController.GetStats)
	merchants.GET("/chart-data", merchantController.GetChartData)
	merchants.GET("/notifications", merchantController.GetNotifications)
	merchants.GET("/payments", merchantController.GetPayments)
	merchants.GET("/export", merchantController.Export)

	// The websocket authenticates itself with an AUTH:<token> message, so no
	// middleware gate here.
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, sessions.Resolve)
	})
}
