package repository

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, uid int64) (*model.User, error)
	UpdateDisplayName(ctx context.Context, uid int64, displayName string) error
	UpdatePasswordHash(ctx context.Context, uid int64, hash string) error
}
