package customers

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/domain"
)

// OrderSummary — краткое представление заказа на карточке покупателя.
type OrderSummary struct {
	ID          string
	CreatedAt   string
	StatusID    string
	StatusName  string
	TotalAmount float64
	ItemsCount  int
}

// CustomerView — покупатель со сводкой его заказов.
type CustomerView struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	Orders      []OrderSummary
}

// Service управляет покупателями.
type Service interface {
	// Register создаёт покупателя. Повторный email (без учёта регистра)
	// отклоняется с ошибкой валидации. Возвращает id покупателя.
	Register(ctx context.Context, name, email, phoneNumber string) (string, error)
	// List возвращает всех покупателей, отсортированных по имени.
	List(ctx context.Context) ([]domain.Customer, error)
	// Get возвращает покупателя вместе со сводкой его заказов.
	Get(ctx context.Context, id string) (CustomerView, error)
}

type service struct {
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	logger    *log.Entry
}

// NewService создаёт сервис покупателей.
func NewService(customers domain.CustomerRepository, orders domain.OrderRepository, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "customers")
	}
	return &service{
		customers: customers,
		orders:    orders,
		logger:    logger,
	}
}

func (s *service) Register(ctx context.Context, name, email, phoneNumber string) (string, error) {
	parsed, err := domain.NewEmail(email)
	if err != nil {
		return "", err
	}

	if _, err := s.customers.GetByEmail(ctx, parsed); err == nil {
		return "", fmt.Errorf("%w: customer with email %q already exists", domain.ErrValidation, parsed.String())
	} else if !domain.IsNotFound(err) {
		return "", err
	}

	customer, err := domain.NewCustomer(name, parsed, phoneNumber)
	if err != nil {
		return "", err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return "", err
	}

	s.logger.WithField("customer_id", customer.ID).Info("customer registered")
	return customer.ID, nil
}

func (s *service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (CustomerView, error) {
	if id == "" {
		return CustomerView{}, fmt.Errorf("%w: customer id is required", domain.ErrValidation)
	}

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return CustomerView{}, err
	}
	orders, err := s.orders.ListByCustomer(ctx, id)
	if err != nil {
		return CustomerView{}, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		statusName := ""
		if status, ok := domain.StatusByID(order.StatusID); ok {
			statusName = status.Name
		}
		summaries = append(summaries, OrderSummary{
			ID:          order.ID,
			CreatedAt:   order.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			StatusID:    order.StatusID,
			StatusName:  statusName,
			TotalAmount: order.TotalAmount,
			ItemsCount:  len(order.Items),
		})
	}

	return CustomerView{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email.String(),
		PhoneNumber: customer.PhoneNumber,
		Orders:      summaries,
	}, nil
}
