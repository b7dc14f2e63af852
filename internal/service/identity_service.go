package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/model"
	"authd/internal/repository"
)

// IdentityService handles registration and login verification.
type IdentityService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	ValidateLogin(ctx context.Context, email, password string) (bool, error)
}

type identityService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewIdentityService creates a new identity service.
func NewIdentityService(repo repository.UserRepository, hasher auth.PasswordHasher) IdentityService {
	return &identityService{repo: repo, hasher: hasher}
}

// Register creates a new user with a hashed password. The existence check and
// the insert are not one atomic step; the unique index on email backstops the
// race, so a concurrent duplicate surfaces as ErrEmailRegistered either way.
func (s *identityService) Register(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailRegistered
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		HashedPassword: hashed,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsDuplicateEntry(err) || errors.Is(err, apperrors.ErrEmailRegistered) {
			return nil, apperrors.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// ValidateLogin reports whether the email exists and the password matches its
// stored hash. An unknown email is false, not an error.
func (s *identityService) ValidateLogin(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return s.hasher.Verify(user.HashedPassword, password), nil
}
