package repository

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	apperrors "authd/internal/errors"
	"authd/internal/model"
)

// memoryRepository is a map-backed UserRepository for tests and local runs
// without MySQL. It honours the same contract as the GORM implementation:
// gorm.ErrRecordNotFound on missing records, unique emails, lookups in
// insertion order, and all-or-nothing UpdateFields.
type memoryRepository struct {
	mu     sync.Mutex
	nextID uint
	users  []*model.User
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() UserRepository {
	return &memoryRepository{nextID: 1}
}

func (r *memoryRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			// Mirrors the unique index on users.email.
			return apperrors.ErrEmailRegistered
		}
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.ID == id })
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Email == email })
}

func (r *memoryRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.SessionID == sessionID })
}

func (r *memoryRepository) FindByResetToken(ctx context.Context, resetToken string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.ResetToken == resetToken })
}

func (r *memoryRepository) findBy(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	// Validate names and types up front so a bad entry aborts the whole
	// update instead of landing a destructive zero-value write.
	values := make(map[string]string, len(fields))
	for name, value := range fields {
		if _, ok := validUpdateFields[name]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidField, name)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string", apperrors.ErrInvalidField, name)
		}
		values[name] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		for name, s := range values {
			switch name {
			case "email":
				u.Email = s
			case "hashed_password":
				u.HashedPassword = s
			case "session_id":
				u.SessionID = s
			case "reset_token":
				u.ResetToken = s
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}
