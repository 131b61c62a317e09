package domain

import (
	"fmt"
	"strings"
)

// Email — value object с валидацией на этапе конструирования.
// Сравнение и уникальность регистронезависимые.
type Email struct {
	value string
}

// NewEmail нормализует и проверяет адрес. Правило намеренно минимальное:
// ровно один '@' не на краях строки, после него '.' с хотя бы одним символом
// между '@' и '.' и хотя бы одним символом после последней точки.
func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Email{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	at := strings.IndexByte(trimmed, '@')
	lastAt := strings.LastIndexByte(trimmed, '@')
	if at <= 0 || at != lastAt || at == len(trimmed)-1 {
		return Email{}, fmt.Errorf("%w: email format is invalid", ErrValidation)
	}

	dot := strings.IndexByte(trimmed[at+1:], '.')
	if dot <= 0 || at+1+dot == len(trimmed)-1 {
		return Email{}, fmt.Errorf("%w: email format is invalid", ErrValidation)
	}

	return Email{value: trimmed}, nil
}

// String возвращает адрес в исходном регистре.
func (e Email) String() string {
	return e.value
}

// Key возвращает нормализованную форму для сравнения и индексации.
func (e Email) Key() string {
	return strings.ToLower(e.value)
}

// Equal сравнивает адреса без учёта регистра.
func (e Email) Equal(other Email) bool {
	return e.Key() == other.Key()
}

// IsZero сообщает, что value object не был инициализирован.
func (e Email) IsZero() bool {
	return e.value == ""
}
