package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bistrosoft/orders/internal/domain"
)

type productRepository struct {
	access
}

func (r *productRepository) Create(_ context.Context, product domain.Product) error {
	st, done := r.write()
	defer done()

	if _, exists := st.products[product.ID]; exists {
		return fmt.Errorf("%w: product with id %q already exists", domain.ErrValidation, product.ID)
	}
	st.products[product.ID] = product
	return nil
}

func (r *productRepository) Get(_ context.Context, id string) (domain.Product, error) {
	st, done := r.read()
	defer done()

	product, ok := st.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product with id %q not found", domain.ErrNotFound, id)
	}
	return product, nil
}

// GetByIDs пропускает отсутствующие идентификаторы: вызывающий сам считает
// разницу множеств.
func (r *productRepository) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	st, done := r.read()
	defer done()

	result := make([]domain.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := st.products[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	st, done := r.read()
	defer done()

	result := make([]domain.Product, 0, len(st.products))
	for _, product := range st.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DecrementStock повторяет guard-условие postgres-реализации: остаток
// уменьшается только если его хватает.
func (r *productRepository) DecrementStock(_ context.Context, productID string, qty int) error {
	st, done := r.write()
	defer done()

	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	}

	product, ok := st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product with id %q not found", domain.ErrNotFound, productID)
	}
	if product.StockQuantity < qty {
		return fmt.Errorf("%w: insufficient stock for product %q: available %d, requested %d",
			domain.ErrValidation, product.Name, product.StockQuantity, qty)
	}

	product.StockQuantity -= qty
	st.products[productID] = product
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
