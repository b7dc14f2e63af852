package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/repository"
)

// ResetService issues single-use password-reset tokens and consumes them to
// rotate the password.
type ResetService interface {
	IssueToken(ctx context.Context, email string) (string, error)
	ConsumeToken(ctx context.Context, resetToken, newPassword string) error
}

type resetService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewResetService creates a new reset-token service.
func NewResetService(repo repository.UserRepository, hasher auth.PasswordHasher) ResetService {
	return &resetService{repo: repo, hasher: hasher}
}

// IssueToken generates a reset token for the user, replacing any pending one.
func (s *resetService) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUnknownEmail
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token := auth.NewToken()
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"reset_token": token}); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ConsumeToken rotates the password for the user holding resetToken. The new
// hash and the token clear land in one update, so the token cannot be reused
// even if the caller retries after a failure: either both applied or neither.
func (s *resetService) ConsumeToken(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		// The cleared-token sentinel is the empty string; letting it through
		// would match the first user with no pending reset.
		return apperrors.ErrInvalidResetToken
	}

	user, err := s.repo.FindByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"hashed_password": hashed,
		"reset_token":     "",
	}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
