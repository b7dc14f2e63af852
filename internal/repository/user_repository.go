package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "authd/internal/errors"
	"authd/internal/model"
)

// Column names accepted by UpdateFields. Anything else aborts the whole
// update with ErrInvalidField before a single column is written.
var validUpdateFields = map[string]struct{}{
	"email":           {},
	"hashed_password": {},
	"session_id":      {},
	"reset_token":     {},
}

// UserRepository defines persistence operations over user records.
// Lookups return gorm.ErrRecordNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.User, error)
	FindByResetToken(ctx context.Context, resetToken string) (*model.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

// IsDuplicateEntry reports whether err is a MySQL unique-constraint violation.
// The unique index on users.email turns concurrent registrations of the same
// email into one success and one of these.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *userRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	return r.findBy(ctx, "session_id = ?", sessionID)
}

func (r *userRepository) FindByResetToken(ctx context.Context, resetToken string) (*model.User, error) {
	return r.findBy(ctx, "reset_token = ?", resetToken)
}

// findBy returns the first match in insertion order.
func (r *userRepository) findBy(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).Order("id").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	for name := range fields {
		if _, ok := validUpdateFields[name]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidField, name)
		}
	}

	// A single UPDATE statement keeps the change atomic per record.
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing record from a no-op write on identical values.
		if err := r.db.WithContext(ctx).Select("id").First(&model.User{}, id).Error; err != nil {
			return err
		}
	}
	return nil
}
