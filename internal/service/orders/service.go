package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/domain"
)

// CreateItem — запрошенная позиция заказа: товар и количество.
type CreateItem struct {
	ProductID string
	Quantity  int
}

// ItemView — позиция заказа, дополненная названием товара для отображения.
type ItemView struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

// OrderView — заказ в форме, пригодной для выдачи наружу.
type OrderView struct {
	ID          string
	CustomerID  string
	CreatedAt   string
	StatusID    string
	StatusName  string
	TotalAmount float64
	Items       []ItemView
}

// CatalogInvalidator сбрасывает кэш каталога после изменения остатков.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service управляет жизненным циклом заказов.
type Service interface {
	// Create оформляет заказ: проверяет покупателя, товары и остатки,
	// списывает остатки и сохраняет заказ атомарно. Возвращает id заказа.
	Create(ctx context.Context, customerID string, items []CreateItem) (string, error)
	// ChangeStatus переводит заказ в новый статус по таблице переходов.
	ChangeStatus(ctx context.Context, orderID, newStatusID string) error
	// ListByCustomer возвращает заказы покупателя, новые первыми,
	// с названиями товаров в позициях.
	ListByCustomer(ctx context.Context, customerID string) ([]OrderView, error)
}

type service struct {
	repos  domain.Repositories
	uow    domain.UnitOfWork
	cache  CatalogInvalidator // может быть nil
	logger *log.Entry
}

// NewService создаёт сервис заказов. cache опционален.
func NewService(repos domain.Repositories, uow domain.UnitOfWork, cache CatalogInvalidator, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		repos:  repos,
		uow:    uow,
		cache:  cache,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, customerID string, items []CreateItem) (string, error) {
	if customerID == "" {
		return "", fmt.Errorf("%w: customer id is required", domain.ErrValidation)
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}
	for _, item := range items {
		if item.ProductID == "" {
			return "", fmt.Errorf("%w: item product id is required", domain.ErrValidation)
		}
		if item.Quantity <= 0 {
			return "", fmt.Errorf("%w: item quantity must be greater than zero", domain.ErrValidation)
		}
	}

	var orderID string
	err := s.uow.WithinTx(ctx, func(r domain.Repositories) error {
		if _, err := r.Customers.Get(ctx, customerID); err != nil {
			return err
		}

		requested := distinctProductIDs(items)
		products, err := r.Products.GetByIDs(ctx, requested)
		if err != nil {
			return err
		}
		if len(products) < len(requested) {
			return fmt.Errorf("%w: products not found: %s",
				domain.ErrNotFound, strings.Join(missingIDs(requested, products), ", "))
		}

		loaded := make(map[string]*domain.Product, len(products))
		for i := range products {
			loaded[products[i].ID] = &products[i]
		}

		order, err := domain.NewOrder(customerID)
		if err != nil {
			return err
		}

		// Позиции обрабатываются в порядке запроса. Повтор одного товара
		// в запросе видит уже уменьшенный остаток общего экземпляра.
		decrements := make(map[string]int, len(requested))
		for _, item := range items {
			product := loaded[item.ProductID]
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := order.AddItem(product.ID, item.Quantity, product.Price); err != nil {
				return err
			}
			decrements[product.ID] += item.Quantity
		}
		order.RecalculateTotal()

		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		// Списание в хранилище идёт одним декрементом на товар; guard в
		// хранилище отсекает конкурентное списание последних единиц.
		for _, id := range requested {
			if err := r.Products.DecrementStock(ctx, id, decrements[id]); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.WithFields(log.Fields{
		"order_id":    orderID,
		"customer_id": customerID,
		"items":       len(items),
	}).Info("order created")

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate catalog cache")
		}
	}
	return orderID, nil
}

func (s *service) ChangeStatus(ctx context.Context, orderID, newStatusID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order id is required", domain.ErrValidation)
	}

	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	previous := order.StatusID
	if err := order.ChangeStatus(newStatusID); err != nil {
		return err
	}
	if order.StatusID == previous {
		// Переход в текущий статус: ничего персистить не нужно.
		return nil
	}

	if err := s.repos.Orders.UpdateStatus(ctx, orderID, order.StatusID); err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"from":     previous,
		"to":       order.StatusID,
	}).Info("order status changed")
	return nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]OrderView, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrValidation)
	}
	if _, err := s.repos.Customers.Get(ctx, customerID); err != nil {
		return nil, err
	}

	orders, err := s.repos.Orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := s.repos.Products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order, names))
	}
	return views, nil
}

func toOrderView(order domain.Order, productNames map[string]string) OrderView {
	statusName := ""
	if status, ok := domain.StatusByID(order.StatusID); ok {
		statusName = status.Name
	}

	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		name, ok := productNames[item.ProductID]
		if !ok {
			name = "Unknown"
		}
		items = append(items, ItemView{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return OrderView{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		CreatedAt:   order.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		StatusID:    order.StatusID,
		StatusName:  statusName,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}
}

func distinctProductIDs(items []CreateItem) []string {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func missingIDs(requested []string, found []domain.Product) []string {
	present := make(map[string]struct{}, len(found))
	for _, p := range found {
		present[p.ID] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
