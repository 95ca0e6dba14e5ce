package postgres

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

type userRepository struct {
	q querier
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (email, display_name, password_hash) VALUES ($1, $2, $3) RETURNING uid, created_at`
	err := r.q.QueryRow(ctx, query, user.Email, user.DisplayName, user.PasswordHash).Scan(&user.UID, &user.CreatedAt)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, uid int64) (*model.User, error) {
	const query = `SELECT uid, email, display_name, password_hash, created_at FROM users WHERE uid=$1`
	var u model.User
	err := r.q.QueryRow(ctx, query, uid).Scan(&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) UpdateDisplayName(ctx context.Context, uid int64, displayName string) error {
	return execOne(ctx, r.q, `UPDATE users SET display_name=$1 WHERE uid=$2`, displayName, uid)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, uid int64, hash string) error {
	return execOne(ctx, r.q, `UPDATE users SET password_hash=$1 WHERE uid=$2`, hash, uid)
}
