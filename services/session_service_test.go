package services

import (
	"context"
	"testing"
	"time"

	"github.com/DavidAtikpo/firsty/models"
)

func testUser() models.AuthUser {
	return models.AuthUser{
		ID:    "665f1f77bcf86cd799439011",
		Email: "marchand@example.com",
		Name:  "Marchand Test",
		Role:  models.RoleMerchant,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(nil, "test-secret")

	token, err := sessions.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Email != "marchand@example.com" || user.Role != models.RoleMerchant {
		t.Errorf("resolved user = %+v", user)
	}
}

func TestSessionTamperedTokenRejected(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(nil, "test-secret")

	token, err := sessions.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := sessions.Resolve(ctx, token+"x"); err == nil {
		t.Error("tampered token should not resolve")
	}
}

func TestSessionWrongSecretRejected(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(nil, "test-secret")
	other := NewSessionService(nil, "other-secret")

	token, err := sessions.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := other.Resolve(ctx, token); err == nil {
		t.Error("token signed with another secret should not resolve")
	}
}

func TestSessionDestroy(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(nil, "test-secret")

	token, err := sessions.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sessions.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := sessions.Resolve(ctx, token); err != ErrSessionNotFound {
		t.Errorf("Resolve after destroy = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if err := store.Set(ctx, "id", testUser(), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := store.Get(ctx, "id"); err != ErrSessionNotFound {
		t.Errorf("expired session Get = %v, want ErrSessionNotFound", err)
	}
}
