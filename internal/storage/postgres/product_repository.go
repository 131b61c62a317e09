package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bistrosoft/orders/internal/domain"
)

type productRepository struct {
	q querier
}

var _ domain.ProductRepository = (*productRepository)(nil)

func (r *productRepository) Create(ctx context.Context, p domain.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Name, p.Price, p.StockQuantity, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, price, stock_quantity, created_at
		FROM products
		WHERE id = $1
	`, id)

	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, price, stock_quantity, created_at
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, price, stock_quantity, created_at
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// DecrementStock атомарно списывает остаток: условие в WHERE не даёт
// уйти в минус при конкурентных заказах на один товар.
func (r *productRepository) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: decrement quantity must be positive, got %d", domain.ErrValidation, qty)
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Строка не изменилась: различаем отсутствие товара и нехватку остатка.
	var available int
	err = r.q.QueryRowContext(ctx, `
		SELECT stock_quantity FROM products WHERE id = $1
	`, productID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query product stock: %w", err)
	}
	return fmt.Errorf("%w: insufficient stock for product %q: available %d, requested %d",
		domain.ErrValidation, productID, available, qty)
}
