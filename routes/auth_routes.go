package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/controllers"
	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/repositories"
	"github.com/DavidAtikpo/firsty/services"
)

// RegisterAuthRoutes sets up registration and session routes
func RegisterAuthRoutes(e *echo.Echo, client *mongo.Client, userRepo *repositories.UserRepository, sessions *services.SessionService) {
	authController := controllers.NewAuthController(client, userRepo, sessions)

	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/logout", authController.Logout)
	e.GET("/api/auth/me", authController.Me, middleware.RequireAuth())
}
