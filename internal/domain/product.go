package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product — позиция каталога с ценой и остатком на складе.
// Остаток уменьшается только через guarded-операцию DecreaseStock.
type Product struct {
	ID            string
	Name          string
	Price         float64
	StockQuantity int
	CreatedAt     time.Time
}

// NewProduct создаёт товар с проверкой инвариантов каталога.
func NewProduct(name string, price float64, stockQuantity int) (Product, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Product{}, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if price < 0 {
		return Product{}, fmt.Errorf("%w: product price cannot be negative", ErrValidation)
	}
	if stockQuantity < 0 {
		return Product{}, fmt.Errorf("%w: stock quantity cannot be negative", ErrValidation)
	}

	return Product{
		ID:            uuid.NewString(),
		Name:          trimmed,
		Price:         price,
		StockQuantity: stockQuantity,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// DecreaseStock уменьшает остаток, отклоняя перерасход. Ошибка называет
// товар, доступное и запрошенное количество.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if p.StockQuantity < quantity {
		return fmt.Errorf("%w: insufficient stock for product %q: available %d, requested %d",
			ErrValidation, p.Name, p.StockQuantity, quantity)
	}
	p.StockQuantity -= quantity
	return nil
}
