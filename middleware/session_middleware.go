// middleware/session_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
)

const authUserKey = "authUser"

// Session resolves the session cookie into the request context. It never
// fails the request; RequireAuth and RequireRole enforce access on top.
func Session(sessions *services.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(services.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := sessions.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return next(c)
			}

			c.Set(authUserKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Non authentifié",
				})
			}
			return next(c)
		}
	}
}

// RequireRole rejects requests whose session user has none of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Non authentifié",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Non autorisé",
			})
		}
	}
}

// CurrentUser returns the session user set by Session, or nil.
func CurrentUser(c echo.Context) *models.AuthUser {
	user, ok := c.Get(authUserKey).(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}
