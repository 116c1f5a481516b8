package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/services"
)

// RegisterAffiliateRoutes sets up the public referral tracking route
func RegisterAffiliateRoutes(e *echo.Echo, db *mongo.Database, affiliate *services.AffiliateService) {
	affiliateController := controllers.NewAffiliateController(db, affiliate)

	e.GET("/api/affiliate/track", affiliateController.Track)
}
