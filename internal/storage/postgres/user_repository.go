package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bistrosoft/orders/internal/domain"
)

type userRepository struct {
	q querier
}

var _ domain.UserRepository = (*userRepository)(nil)

func (r *userRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Email.String(), u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %q already exists: %w", u.Email.String(), domain.ErrValidation)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE lower(email) = $1
	`, email.Key())

	var (
		u   domain.User
		raw string
	)
	err := row.Scan(&u.ID, &raw, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user with email %q: %w", email.String(), domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user by email: %w", err)
	}

	parsed, err := domain.NewEmail(raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("stored email is invalid: %w", err)
	}
	u.Email = parsed
	return u, nil
}
