package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
)

func setupEcho(t *testing.T, sessions *services.SessionService, mw ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	handlers := append([]echo.MiddlewareFunc{Session(sessions)}, mw...)
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{Status: http.StatusOK})
	}, handlers...)
	return e
}

func loginAs(t *testing.T, sessions *services.SessionService, role string) *http.Cookie {
	t.Helper()
	token, err := sessions.Create(context.Background(), models.AuthUser{
		ID:   "665f1f77bcf86cd799439011",
		Role: role,
	})
	if err != nil {
		t.Fatalf("session create: %v", err)
	}
	return &http.Cookie{Name: services.SessionCookieName, Value: token}
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	sessions := services.NewSessionService(nil, "test-secret")
	e := setupEcho(t, sessions, RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthWithSession(t *testing.T) {
	sessions := services.NewSessionService(nil, "test-secret")
	e := setupEcho(t, sessions, RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(loginAs(t, sessions, models.RoleCustomer))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuthWithGarbageToken(t *testing.T) {
	sessions := services.NewSessionService(nil, "test-secret")
	e := setupEcho(t, sessions, RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleForbidden(t *testing.T) {
	sessions := services.NewSessionService(nil, "test-secret")
	e := setupEcho(t, sessions, RequireAuth(), RequireRole(models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(loginAs(t, sessions, models.RoleCustomer))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	sessions := services.NewSessionService(nil, "test-secret")
	e := setupEcho(t, sessions, RequireAuth(), RequireRole(models.RoleMerchant, models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(loginAs(t, sessions, models.RoleMerchant))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
