package domain

import "errors"

// Базовые классы ошибок домена. Конкретные ошибки оборачивают их через
// fmt.Errorf("%w: ..."), а транспортный слой сопоставляет класс с HTTP-кодом.
var (
	// ErrValidation — некорректный ввод или нарушение бизнес-правила (400).
	ErrValidation = errors.New("validation error")
	// ErrNotFound — запрошенная сущность отсутствует (404).
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized — неверные учётные данные или отсутствующий токен (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — аутентифицирован, но доступ запрещён (403).
	ErrForbidden = errors.New("forbidden")
	// ErrStatusTransition — недопустимый переход статуса заказа (409).
	ErrStatusTransition = errors.New("invalid order status transition")
)

// IsValidation проверяет, относится ли ошибка к классу validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound проверяет, относится ли ошибка к классу not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized проверяет, относится ли ошибка к классу unauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsStatusTransition проверяет, является ли ошибка конфликтом перехода статуса.
func IsStatusTransition(err error) bool {
	return errors.Is(err, ErrStatusTransition)
}
