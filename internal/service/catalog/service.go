package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/domain"
)

// Cache — опциональный кэш списка товаров. Промах не является ошибкой.
type Cache interface {
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

// Service отдаёт каталог товаров.
type Service interface {
	// List возвращает все товары, отсортированные по названию.
	List(ctx context.Context) ([]domain.Product, error)
}

type service struct {
	products domain.ProductRepository
	cache    Cache // может быть nil
	logger   *log.Entry
}

// NewService создаёт сервис каталога. cache опционален.
func NewService(products domain.ProductRepository, cache Cache, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &service{
		products: products,
		cache:    cache,
		logger:   logger,
	}
}

// List читает товары сквозь кэш по схеме cache-aside: промах и ошибки кэша
// прозрачно уходят в основное хранилище.
func (s *service) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("catalog cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.logger.WithError(err).Warn("catalog cache write failed")
		}
	}
	return products, nil
}
