// services/session_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/DavidAtikpo/firsty/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionTTL is how long a session lives after login.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds session records server-side. The cookie only carries a
// signed token whose subject is the record's ID, so a client can neither read
// nor forge its session content.
type SessionStore interface {
	Set(ctx context.Context, id string, user models.AuthUser, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.AuthUser, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps session records in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Set(ctx context.Context, id string, user models.AuthUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(id), data, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.AuthUser, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var user models.AuthUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// MemorySessionStore is the fallback used when Redis is unavailable.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memorySession
}

type memorySession struct {
	user      models.AuthUser
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Set(ctx context.Context, id string, user models.AuthUser, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memorySession{user: user, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.AuthUser, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	user := entry.user
	return &user, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// SessionService creates, resolves and destroys sessions. Tokens are HS256
// JWTs whose subject is the opaque session ID.
type SessionService struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
}

// NewSessionService builds a session service backed by Redis, or by the
// in-memory store when no Redis client is available.
func NewSessionService(client *redis.Client, secret string) *SessionService {
	var store SessionStore
	if client != nil {
		store = NewRedisSessionStore(client)
	} else {
		store = NewMemorySessionStore()
	}
	return &SessionService{store: store, secret: []byte(secret), ttl: SessionTTL}
}

// Create stores a session record for user and returns the signed cookie token.
func (s *SessionService) Create(ctx context.Context, user models.AuthUser) (string, error) {
	id := uuid.NewString()
	if err := s.store.Set(ctx, id, user, s.ttl); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   id,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Resolve verifies the token signature and looks up the referenced session.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*models.AuthUser, error) {
	id, err := s.sessionID(tokenString)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Destroy deletes the session referenced by the token. An invalid token is
// not an error here; the session it pointed at no longer matters.
func (s *SessionService) Destroy(ctx context.Context, tokenString string) error {
	id, err := s.sessionID(tokenString)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, id)
}

func (s *SessionService) sessionID(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrSessionNotFound
	}
	return claims.Subject, nil
}
