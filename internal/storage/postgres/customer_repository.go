package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bistrosoft/orders/internal/domain"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type customerRepository struct {
	q querier
}

var _ domain.CustomerRepository = (*customerRepository)(nil)

func (r *customerRepository) Create(ctx context.Context, c domain.Customer) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Email.String(), nullableText(c.PhoneNumber), c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer with email %q already exists: %w", c.Email.String(), domain.ErrValidation)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, email, phone_number, created_at
		FROM customers
		WHERE id = $1
	`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email domain.Email) (domain.Customer, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, email, phone_number, created_at
		FROM customers
		WHERE lower(email) = $1
	`, email.Key())

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer with email %q: %w", email.String(), domain.ErrNotFound)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("query customer by email: %w", err)
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, email, phone_number, created_at
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		c     domain.Customer
		email string
		phone sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.CreatedAt); err != nil {
		return domain.Customer{}, err
	}

	parsed, err := domain.NewEmail(email)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("stored email is invalid: %w", err)
	}
	c.Email = parsed
	c.PhoneNumber = phone.String
	return c, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
