package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"authd/internal/auth"
	"authd/internal/model"
	"authd/internal/repository"
)

const sessionCacheTTL = 5 * time.Minute

// Cache is the subset of cache.Client session resolution uses. Implementations
// must fail safe: a Get error behaves like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionService issues, resolves, and destroys opaque session tokens.
// Each user holds at most one active session; issuing a new one replaces the
// previous token.
type SessionService interface {
	CreateSession(ctx context.Context, email string) (string, error)
	ResolveSession(ctx context.Context, sessionID string) (*model.User, error)
	DestroySession(ctx context.Context, userID uint) error
}

type sessionService struct {
	repo  repository.UserRepository
	cache Cache
}

// NewSessionService builds a SessionService with repository and cache. The
// cache may be nil; resolution then always hits the store.
func NewSessionService(repo repository.UserRepository, cache Cache) SessionService {
	return &sessionService{repo: repo, cache: cache}
}

func sessionCacheKey(sessionID string) string {
	return "session:" + sessionID
}

// sessionCacheEntry serializes every record field. The model's own JSON shape
// hides credentials with `json:"-"`, so caching it directly would round-trip
// an incomplete record.
type sessionCacheEntry struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	SessionID      string    `json:"session_id"`
	ResetToken     string    `json:"reset_token"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newSessionCacheEntry(u *model.User) sessionCacheEntry {
	return sessionCacheEntry{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		SessionID:      u.SessionID,
		ResetToken:     u.ResetToken,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (e sessionCacheEntry) user() *model.User {
	return &model.User{
		ID:             e.ID,
		Email:          e.Email,
		HashedPassword: e.HashedPassword,
		SessionID:      e.SessionID,
		ResetToken:     e.ResetToken,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// CreateSession generates a fresh token and stores it as the user's session
// ID, invalidating any prior session. An unknown email returns ("", nil);
// callers treat the empty token as failure.
func (s *sessionService) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token := auth.NewToken()
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"session_id": token}); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if s.cache != nil && user.SessionID != "" {
		_ = s.cache.Delete(ctx, sessionCacheKey(user.SessionID))
	}
	return token, nil
}

// ResolveSession returns the user owning sessionID, or (nil, nil) when the
// token is empty or resolves to nothing.
func (s *sessionService) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, sessionCacheKey(sessionID)); data != nil {
			var cached sessionCacheEntry
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached.user(), nil
			}
		}
	}

	user, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(newSessionCacheEntry(user)); err == nil {
			_ = s.cache.Set(ctx, sessionCacheKey(sessionID), payload, sessionCacheTTL)
		}
	}
	return user, nil
}

// DestroySession clears the user's session token. Destroying a session that
// does not exist, or for a user that does not exist, is a no-op.
func (s *sessionService) DestroySession(ctx context.Context, userID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.SessionID == "" {
		return nil
	}

	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"session_id": ""}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, sessionCacheKey(user.SessionID))
	}
	return nil
}
