package domain

import "context"

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Create сохраняет нового покупателя. Возвращает ошибку класса
	// ErrValidation, если email уже занят (без учёта регистра).
	Create(ctx context.Context, customer Customer) error
	// Get возвращает покупателя или ошибку класса ErrNotFound.
	Get(ctx context.Context, id string) (Customer, error)
	// GetByEmail ищет покупателя по адресу без учёта регистра.
	GetByEmail(ctx context.Context, email Email) (Customer, error)
	// List возвращает всех покупателей, отсортированных по имени.
	List(ctx context.Context) ([]Customer, error)
}

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	Get(ctx context.Context, id string) (Product, error)
	// GetByIDs батчем загружает товары по идентификаторам. Отсутствующие
	// идентификаторы не являются ошибкой: результат просто короче запроса.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	// DecrementStock уменьшает остаток на qty с guard-условием в хранилище:
	// при недостатке остатка возвращает ошибку класса ErrValidation,
	// не изменяя строку.
	DecrementStock(ctx context.Context, productID string, qty int) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями.
	Create(ctx context.Context, order Order) error
	Get(ctx context.Context, id string) (Order, error)
	// ListByCustomer возвращает заказы покупателя, новые первыми.
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	// UpdateStatus персистит уже проверенный доменом переход статуса.
	UpdateStatus(ctx context.Context, orderID, statusID string) error
}

// UserRepository описывает требования к хранилищу учётных записей.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email Email) (User, error)
}

// Repositories объединяет все порты хранилища. Внутри UnitOfWork те же
// интерфейсы работают поверх одной транзакции.
type Repositories struct {
	Customers CustomerRepository
	Products  ProductRepository
	Orders    OrderRepository
	Users     UserRepository
}

// UnitOfWork выполняет fn атомарно: либо фиксируются все изменения,
// сделанные через переданные репозитории, либо ни одно.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
