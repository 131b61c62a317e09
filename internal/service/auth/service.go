package auth

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/bistrosoft/orders/internal/domain"
)

// LoginResult — выданный токен и сведения о пользователе.
type LoginResult struct {
	Token        string
	ExpiresAtUTC time.Time
	UserID       string
	Email        string
}

// Service аутентифицирует пользователей и выпускает токены.
type Service interface {
	// Login проверяет пару email/пароль и возвращает токен доступа.
	// Неверные учётные данные дают ошибку класса ErrUnauthorized без
	// уточнения, что именно не совпало.
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

type service struct {
	users  domain.UserRepository
	tokens *TokenIssuer
	logger *log.Entry

	// dummyHash сравнивается с паролем при неизвестном email, чтобы время
	// ответа не выдавало существование учётной записи.
	dummyHash string
}

// NewService создаёт сервис аутентификации.
func NewService(users domain.UserRepository, tokens *TokenIssuer, logger *log.Entry) (Service, error) {
	if logger == nil {
		logger = log.New().WithField("component", "auth")
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &service{
		users:     users,
		tokens:    tokens,
		logger:    logger,
		dummyHash: string(dummy),
	}, nil
}

// HashPassword хэширует пароль для хранения.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	parsed, err := domain.NewEmail(email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	hash := s.dummyHash
	var user domain.User
	known := false

	found, err := s.users.GetByEmail(ctx, parsed)
	switch {
	case err == nil:
		user = found
		hash = user.PasswordHash
		known = true
	case domain.IsNotFound(err):
		// Сравнение с dummy-хэшем всё равно выполняется ниже.
	default:
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || !known {
		return LoginResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email.String())
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return LoginResult{
		Token:        token,
		ExpiresAtUTC: expiresAt,
		UserID:       user.ID,
		Email:        user.Email.String(),
	}, nil
}
