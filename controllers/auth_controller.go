package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/repositories"
	"github.com/DavidAtikpo/firsty/services"
	"github.com/DavidAtikpo/firsty/utils"
)

// AuthController contains registration and session logic
type AuthController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
	sessions *services.SessionService
	logger   *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, userRepo *repositories.UserRepository, sessions *services.SessionService) *AuthController {
	return &AuthController{
		DB:       db,
		userRepo: userRepo,
		sessions: sessions,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Register creates a new account. Merchant signups get an affiliate code.
// No session is created; the user logs in afterwards.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Tous les champs sont requis",
		})
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user, err := ac.userRepo.Create(ctx, req.Email, req.Password, req.Name, role)
	if err == repositories.ErrEmailTaken {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Cet email est déjà utilisé",
		})
	}
	if err != nil {
		ac.logger.Printf("register failed for %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de l'inscription",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Compte créé avec succès",
		Data: models.AuthUser{
			ID:    user.ID.Hex(),
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

// Login verifies credentials and opens a server-side session.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email et mot de passe requis",
		})
	}

	user, err := ac.userRepo.FindByEmail(ctx, req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Email ou mot de passe incorrect",
		})
	}

	authUser := models.AuthUser{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if user.Role == models.RoleMerchant {
		if merchant, err := ac.userRepo.MerchantByUserID(ctx, user.ID); err == nil {
			authUser.MerchantID = merchant.ID.Hex()
			authUser.AffiliateCode = merchant.AffiliateCode
		}
	}

	token, err := ac.sessions.Create(ctx, authUser)
	if err != nil {
		ac.logger.Printf("session creation failed for %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la connexion",
		})
	}

	c.SetCookie(sessionCookie(token, int(services.SessionTTL/time.Second)))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Connexion réussie",
		Data:    authUser,
	})
}

// Logout destroys the session and clears the cookie.
func (ac *AuthController) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		if err := ac.sessions.Destroy(ctx, cookie.Value); err != nil {
			ac.logger.Printf("session destroy failed: %v", err)
		}
	}

	c.SetCookie(sessionCookie("", -1))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Déconnexion réussie",
	})
}

// Me returns the current session user.
func (ac *AuthController) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Non authentifié",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   user,
	})
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     services.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	}
}
