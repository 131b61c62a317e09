package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bistrosoft/orders/internal/domain"
)

type orderRepository struct {
	access
}

// Create сохраняет заказ вместе с позициями.
// Слайс позиций копируется, чтобы избежать мутаций извне.
func (r *orderRepository) Create(_ context.Context, order domain.Order) error {
	st, done := r.write()
	defer done()

	if _, exists := st.orders[order.ID]; exists {
		return fmt.Errorf("%w: order with id %q already exists", domain.ErrValidation, order.ID)
	}

	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items

	st.orders[order.ID] = order
	return nil
}

func (r *orderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	st, done := r.read()
	defer done()

	order, ok := st.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: order with id %q not found", domain.ErrNotFound, id)
	}

	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order, nil
}

// ListByCustomer возвращает заказы покупателя, новые первыми.
func (r *orderRepository) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	st, done := r.read()
	defer done()

	result := make([]domain.Order, 0)
	for _, order := range st.orders {
		if order.CustomerID != customerID {
			continue
		}
		items := make([]domain.OrderItem, len(order.Items))
		copy(items, order.Items)
		order.Items = items
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, orderID, statusID string) error {
	st, done := r.write()
	defer done()

	order, ok := st.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order with id %q not found", domain.ErrNotFound, orderID)
	}

	order.StatusID = statusID
	st.orders[orderID] = order
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
