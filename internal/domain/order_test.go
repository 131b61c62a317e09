package domain_test

import (
	"testing"

	"github.com/bistrosoft/orders/internal/domain"
)

func makePendingOrder(t *testing.T) domain.Order {
	t.Helper()
	order, err := domain.NewOrder("customer-1")
	if err != nil {
		t.Fatalf("new order failed: %v", err)
	}
	return order
}

func TestNewOrder_StartsPendingWithoutItems(t *testing.T) {
	order := makePendingOrder(t)

	if order.StatusID != domain.StatusPendingID {
		t.Fatalf("expected pending status, got %s", order.StatusID)
	}
	if len(order.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(order.Items))
	}
	if order.TotalAmount != 0 {
		t.Fatalf("expected zero total, got %f", order.TotalAmount)
	}
	if order.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp to be set")
	}
}

func TestNewOrder_RequiresCustomer(t *testing.T) {
	if _, err := domain.NewOrder(""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderAddItem_RecalculatesTotal(t *testing.T) {
	order := makePendingOrder(t)

	if err := order.AddItem("product-1", 2, 50); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := order.AddItem("product-2", 3, 10.5); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if order.TotalAmount != 131.5 {
		t.Fatalf("expected total 131.5, got %f", order.TotalAmount)
	}

	// Повторный пересчёт не меняет сумму.
	order.RecalculateTotal()
	if order.TotalAmount != 131.5 {
		t.Fatalf("recalculate must be idempotent, got %f", order.TotalAmount)
	}
}

func TestOrderAddItem_Invalid(t *testing.T) {
	cases := []struct {
		name      string
		productID string
		qty       int
		price     float64
	}{
		{name: "no product", productID: "", qty: 1, price: 1},
		{name: "zero qty", productID: "product-1", qty: 0, price: 1},
		{name: "negative qty", productID: "product-1", qty: -2, price: 1},
		{name: "negative price", productID: "product-1", qty: 1, price: -0.01},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makePendingOrder(t)
			err := order.AddItem(tc.productID, tc.qty, tc.price)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(order.Items) != 0 {
				t.Fatal("rejected item must not be appended")
			}
		})
	}
}

// Полный перебор пар статусов: каждая пара либо в таблице переходов,
// либо отклоняется с конфликтом. Самопереход всегда no-op.
func TestOrderChangeStatus_TransitionTable(t *testing.T) {
	allowed := map[string][]string{
		domain.StatusPendingID: {domain.StatusPaidID, domain.StatusCancelledID},
		domain.StatusPaidID:    {domain.StatusShippedID},
		domain.StatusShippedID: {domain.StatusDeliveredID},
	}

	isAllowed := func(from, to string) bool {
		for _, next := range allowed[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	for _, from := range domain.WellKnownStatuses {
		for _, to := range domain.WellKnownStatuses {
			order := makePendingOrder(t)
			order.StatusID = from.ID

			err := order.ChangeStatus(to.ID)
			switch {
			case from.ID == to.ID:
				if err != nil {
					t.Errorf("%s -> %s: self transition must be a no-op, got %v", from.Name, to.Name, err)
				}
			case isAllowed(from.ID, to.ID):
				if err != nil {
					t.Errorf("%s -> %s: expected success, got %v", from.Name, to.Name, err)
				}
				if order.StatusID != to.ID {
					t.Errorf("%s -> %s: status not updated", from.Name, to.Name)
				}
			default:
				if !domain.IsStatusTransition(err) {
					t.Errorf("%s -> %s: expected transition conflict, got %v", from.Name, to.Name, err)
				}
				if order.StatusID != from.ID {
					t.Errorf("%s -> %s: status must stay unchanged on conflict", from.Name, to.Name)
				}
			}
		}
	}
}

func TestOrderChangeStatus_UnknownStatus(t *testing.T) {
	order := makePendingOrder(t)
	err := order.ChangeStatus("not-a-status")
	if !domain.IsStatusTransition(err) {
		t.Fatalf("expected transition conflict for unknown status, got %v", err)
	}
	if order.StatusID != domain.StatusPendingID {
		t.Fatalf("status must stay unchanged, got %s", order.StatusID)
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, terminal := range []string{domain.StatusDeliveredID, domain.StatusCancelledID} {
		for _, to := range domain.WellKnownStatuses {
			if domain.CanTransition(terminal, to.ID) {
				t.Errorf("terminal status %s must have no outbound transitions", terminal)
			}
		}
	}
}
