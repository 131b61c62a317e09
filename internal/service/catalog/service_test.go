package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/service/catalog"
	"github.com/bistrosoft/orders/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	return logger.WithField("component", "test")
}

type fakeCache struct {
	products []domain.Product
	ok       bool
	err      error
	sets     int
	gets     int
}

func (f *fakeCache) GetProducts(context.Context) ([]domain.Product, bool, error) {
	f.gets++
	return f.products, f.ok, f.err
}

func (f *fakeCache) SetProducts(_ context.Context, products []domain.Product) error {
	f.sets++
	f.products = products
	f.ok = true
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.products = nil
	f.ok = false
	return nil
}

func seedProducts(t *testing.T, repos domain.Repositories) {
	t.Helper()
	for _, spec := range []struct {
		name  string
		price float64
		stock int
	}{
		{"Espresso", 2.5, 10},
		{"Croissant", 3.2, 5},
	} {
		product, err := domain.NewProduct(spec.name, spec.price, spec.stock)
		require.NoError(t, err)
		require.NoError(t, repos.Products.Create(context.Background(), product))
	}
}

func TestList_WithoutCache(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	seedProducts(t, repos)

	service := catalog.NewService(repos.Products, nil, loggerForTests())
	products, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Croissant", products[0].Name)
}

func TestList_PopulatesCacheOnMiss(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	seedProducts(t, repos)

	cache := &fakeCache{}
	service := catalog.NewService(repos.Products, cache, loggerForTests())

	products, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 1, cache.sets)

	// Второе чтение обслуживается из кэша.
	products, err = service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, 2, cache.gets)
}

func TestList_CacheErrorFallsThrough(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	seedProducts(t, repos)

	cache := &fakeCache{err: errors.New("redis down")}
	service := catalog.NewService(repos.Products, cache, loggerForTests())

	products, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestList_EmptyCatalog(t *testing.T) {
	store := memory.NewStore()
	service := catalog.NewService(store.Repositories().Products, nil, loggerForTests())

	products, err := service.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, products)
	require.Empty(t, products)
}
