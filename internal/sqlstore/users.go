package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fefrre/ferweb/internal/models"
)

type UserRepo struct {
	s *Store
}

// FindByEmail returns nil, nil when no user matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepo) findOne(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT id, email, password_hash, name, created_at FROM users WHERE %s = ?`, column)
	var u models.User
	err := r.s.db.QueryRowContext(ctx, r.s.rebind(query), value).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (string, error) {
	id := uuid.NewString()
	_, err := r.s.db.ExecContext(ctx,
		r.s.rebind(`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`),
		id, user.Email, user.PasswordHash, user.Name, user.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}
