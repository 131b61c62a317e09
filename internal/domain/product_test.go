package domain_test

import (
	"strings"
	"testing"

	"github.com/bistrosoft/orders/internal/domain"
)

func TestNewProduct_Validation(t *testing.T) {
	cases := []struct {
		name    string
		product string
		price   float64
		stock   int
		wantErr bool
	}{
		{name: "ok", product: "Pizza Margarita", price: 12.5, stock: 80},
		{name: "trimmed name", product: "  Pasta Carbonara  ", price: 11.5, stock: 90},
		{name: "blank name", product: "   ", price: 1, stock: 1, wantErr: true},
		{name: "negative price", product: "Flan", price: -0.5, stock: 1, wantErr: true},
		{name: "negative stock", product: "Flan", price: 5.5, stock: -1, wantErr: true},
		{name: "zero price ok", product: "Sample", price: 0, stock: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := domain.NewProduct(tc.product, tc.price, tc.stock)
			if tc.wantErr {
				if !domain.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != strings.TrimSpace(tc.product) {
				t.Fatalf("expected trimmed name, got %q", p.Name)
			}
			if p.ID == "" {
				t.Fatal("expected generated id")
			}
		})
	}
}

func TestProductDecreaseStock(t *testing.T) {
	p, err := domain.NewProduct("Tacos al Pastor", 9.9, 10)
	if err != nil {
		t.Fatalf("new product failed: %v", err)
	}

	if err := p.DecreaseStock(4); err != nil {
		t.Fatalf("decrease failed: %v", err)
	}
	if p.StockQuantity != 6 {
		t.Fatalf("expected stock 6, got %d", p.StockQuantity)
	}

	// Перерасход отклоняется и не меняет остаток.
	err = p.DecreaseStock(7)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "available 6, requested 7") {
		t.Fatalf("error must name available and requested quantities: %v", err)
	}
	if p.StockQuantity != 6 {
		t.Fatalf("failed decrease must not change stock, got %d", p.StockQuantity)
	}

	if err := p.DecreaseStock(0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for non-positive qty, got %v", err)
	}
}
