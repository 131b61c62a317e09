package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer — покупатель. Отдельная сущность от User (auth principal):
// связь 1:1 между ними не подразумевается.
type Customer struct {
	ID          string
	Name        string
	Email       Email
	PhoneNumber string
	CreatedAt   time.Time
}

// NewCustomer создаёт покупателя со свежим идентификатором.
// Имя обрезается и не может быть пустым, телефон опционален.
func NewCustomer(name string, email Email, phoneNumber string) (Customer, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Customer{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if email.IsZero() {
		return Customer{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	return Customer{
		ID:          uuid.NewString(),
		Name:        trimmed,
		Email:       email,
		PhoneNumber: strings.TrimSpace(phoneNumber),
		CreatedAt:   time.Now().UTC(),
	}, nil
}
