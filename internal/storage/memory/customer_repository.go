package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bistrosoft/orders/internal/domain"
)

type customerRepository struct {
	access
}

// Create сохраняет покупателя, отклоняя дубликат email без учёта регистра.
// Та же проверка в postgres обеспечивается уникальным индексом по lower(email).
func (r *customerRepository) Create(_ context.Context, customer domain.Customer) error {
	st, done := r.write()
	defer done()

	for _, existing := range st.customers {
		if existing.Email.Equal(customer.Email) {
			return fmt.Errorf("%w: a customer with email %q already exists",
				domain.ErrValidation, customer.Email.String())
		}
	}

	st.customers[customer.ID] = customer
	return nil
}

func (r *customerRepository) Get(_ context.Context, id string) (domain.Customer, error) {
	st, done := r.read()
	defer done()

	customer, ok := st.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("%w: customer with id %q not found", domain.ErrNotFound, id)
	}
	return customer, nil
}

func (r *customerRepository) GetByEmail(_ context.Context, email domain.Email) (domain.Customer, error) {
	st, done := r.read()
	defer done()

	for _, customer := range st.customers {
		if customer.Email.Equal(email) {
			return customer, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("%w: customer with email %q not found",
		domain.ErrNotFound, email.String())
}

func (r *customerRepository) List(_ context.Context) ([]domain.Customer, error) {
	st, done := r.read()
	defer done()

	result := make([]domain.Customer, 0, len(st.customers))
	for _, customer := range st.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
