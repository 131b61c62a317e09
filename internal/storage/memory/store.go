package memory

import (
	"context"
	"sync"

	"github.com/bistrosoft/orders/internal/domain"
)

// Store — map-backed хранилище для локальной разработки и тестов.
// Реализует тот же контракт, что и postgres-хранилище, включая
// all-or-nothing семантику UnitOfWork.
type Store struct {
	mu sync.RWMutex
	st *state
}

// state держит все таблицы. Снимок state целиком подменяется при коммите
// транзакции, поэтому откат — это просто отсутствие подмены.
type state struct {
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	users     map[string]domain.User
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
		users:     make(map[string]domain.User),
	}
}

// clone делает глубокую копию состояния. Заказы копируются вместе со
// слайсами позиций, чтобы транзакция не мутировала оригинал.
func (s *state) clone() *state {
	next := &state{
		customers: make(map[string]domain.Customer, len(s.customers)),
		products:  make(map[string]domain.Product, len(s.products)),
		orders:    make(map[string]domain.Order, len(s.orders)),
		users:     make(map[string]domain.User, len(s.users)),
	}
	for id, customer := range s.customers {
		next.customers[id] = customer
	}
	for id, product := range s.products {
		next.products[id] = product
	}
	for id, order := range s.orders {
		items := make([]domain.OrderItem, len(order.Items))
		copy(items, order.Items)
		order.Items = items
		next.orders[id] = order
	}
	for id, user := range s.users {
		next.users[id] = user
	}
	return next
}

// access даёт репозиториям доступ к состоянию. Вне транзакции каждый вызов
// берёт мьютекс хранилища; внутри транзакции работа идёт по снимку без
// блокировок (мьютекс уже удерживается в WithinTx).
type access struct {
	store *Store
	st    *state
}

func (a access) read() (*state, func()) {
	if a.store == nil {
		return a.st, func() {}
	}
	a.store.mu.RLock()
	return a.store.st, a.store.mu.RUnlock
}

func (a access) write() (*state, func()) {
	if a.store == nil {
		return a.st, func() {}
	}
	a.store.mu.Lock()
	return a.store.st, a.store.mu.Unlock
}

// Repositories возвращает набор репозиториев поверх хранилища.
func (s *Store) Repositories() domain.Repositories {
	return reposOver(access{store: s})
}

func reposOver(a access) domain.Repositories {
	return domain.Repositories{
		Customers: &customerRepository{access: a},
		Products:  &productRepository{access: a},
		Orders:    &orderRepository{access: a},
		Users:     &userRepository{access: a},
	}
}

// WithinTx выполняет fn над копией состояния и подменяет состояние только
// при успехе. Мьютекс держится на всё время fn: транзакции сериализуются,
// для тестового двойника этого достаточно.
func (s *Store) WithinTx(ctx context.Context, fn func(r domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(reposOver(access{st: snapshot})); err != nil {
		return err
	}

	s.st = snapshot
	return nil
}

var _ domain.UnitOfWork = (*Store)(nil)
