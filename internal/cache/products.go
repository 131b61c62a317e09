// Package cache реализует опциональный Redis-кэш каталога товаров по схеме
// cache-aside. Хранилище остаётся источником истины; кэш сбрасывается после
// каждого успешного оформления заказа, потому что заказ меняет остатки.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/service/catalog"
)

const (
	productsKey     = "catalog:products"
	productCacheTTL = 10 * time.Minute
)

// ProductCache кэширует список товаров в Redis.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Entry
}

// NewProductCache подключается к Redis и проверяет доступность.
func NewProductCache(ctx context.Context, addr, password string, db int, logger *log.Entry) (*ProductCache, error) {
	if logger == nil {
		logger = log.New().WithField("component", "cache")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &ProductCache{
		client: client,
		ttl:    productCacheTTL,
		logger: logger,
	}, nil
}

// Close закрывает подключение к Redis.
func (c *ProductCache) Close() error {
	return c.client.Close()
}

// GetProducts возвращает кэшированный список; промах — не ошибка.
func (c *ProductCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	data, err := c.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read products from cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// Повреждённую запись выбрасываем, чтобы не отдавать мусор повторно.
		_ = c.client.Del(ctx, productsKey).Err()
		return nil, false, fmt.Errorf("decode cached products: %w", err)
	}
	return products, true, nil
}

// SetProducts кладёт список товаров в кэш с TTL.
func (c *ProductCache) SetProducts(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode products for cache: %w", err)
	}
	if err := c.client.Set(ctx, productsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write products to cache: %w", err)
	}
	return nil
}

// Invalidate сбрасывает кэш каталога.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		return fmt.Errorf("invalidate products cache: %w", err)
	}
	return nil
}

var _ catalog.Cache = (*ProductCache)(nil)
