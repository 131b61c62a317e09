package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User — учётная запись для аутентификации. Хранит только email и хэш пароля.
type User struct {
	ID           string
	Email        Email
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser создаёт учётную запись. Хэширование пароля — забота вызывающего.
func NewUser(email Email, passwordHash string) (User, error) {
	if email.IsZero() {
		return User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("%w: password hash is required", ErrValidation)
	}

	return User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
