package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/storage/memory"
)

func seedProduct(t *testing.T, repos domain.Repositories, name string, price float64, stock int) domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, price, stock)
	if err != nil {
		t.Fatalf("new product failed: %v", err)
	}
	if err := repos.Products.Create(context.Background(), product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func seedCustomer(t *testing.T, repos domain.Repositories, name, email string) domain.Customer {
	t.Helper()
	em, err := domain.NewEmail(email)
	if err != nil {
		t.Fatalf("new email failed: %v", err)
	}
	customer, err := domain.NewCustomer(name, em, "")
	if err != nil {
		t.Fatalf("new customer failed: %v", err)
	}
	if err := repos.Customers.Create(context.Background(), customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func TestWithinTx_CommitsAllChanges(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	product := seedProduct(t, repos, "Pizza Margarita", 12.5, 10)
	customer := seedCustomer(t, repos, "Ana", "ana@example.com")

	order, err := domain.NewOrder(customer.ID)
	if err != nil {
		t.Fatalf("new order failed: %v", err)
	}
	if err := order.AddItem(product.ID, 2, product.Price); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	err = store.WithinTx(ctx, func(r domain.Repositories) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		return r.Products.DecrementStock(ctx, product.ID, 2)
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	stored, err := repos.Orders.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(stored.Items))
	}

	updated, err := repos.Products.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if updated.StockQuantity != 8 {
		t.Fatalf("expected stock 8, got %d", updated.StockQuantity)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	product := seedProduct(t, repos, "Tacos de Pollo", 9.5, 5)
	customer := seedCustomer(t, repos, "Luis", "luis@example.com")

	order, err := domain.NewOrder(customer.ID)
	if err != nil {
		t.Fatalf("new order failed: %v", err)
	}
	if err := order.AddItem(product.ID, 3, product.Price); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	err = store.WithinTx(ctx, func(r domain.Repositories) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := r.Products.DecrementStock(ctx, product.ID, 3); err != nil {
			return err
		}
		// Второго декремента остаток уже не выдерживает: вся транзакция
		// должна откатиться, включая заказ и первый декремент.
		return r.Products.DecrementStock(ctx, product.ID, 3)
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := repos.Orders.Get(ctx, order.ID); !domain.IsNotFound(err) {
		t.Fatalf("order must not survive rollback, got %v", err)
	}
	unchanged, err := repos.Products.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if unchanged.StockQuantity != 5 {
		t.Fatalf("stock must stay 5 after rollback, got %d", unchanged.StockQuantity)
	}
}

func TestWithinTx_CanceledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.WithinTx(ctx, func(domain.Repositories) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
