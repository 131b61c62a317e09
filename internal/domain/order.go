package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderItem — одна позиция заказа. Цена фиксируется в момент оформления
// и не ссылается на текущую цену товара.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
}

// LineTotal возвращает сумму позиции: quantity * unitPrice.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Order агрегирует позиции и текущий статус. Позиции добавляются только при
// создании заказа; после этого состав не меняется.
type Order struct {
	ID          string
	CustomerID  string
	TotalAmount float64
	CreatedAt   time.Time
	StatusID    string
	Items       []OrderItem
}

// NewOrder создаёт заказ в статусе Pending без позиций.
func NewOrder(customerID string) (Order, error) {
	if customerID == "" {
		return Order{}, fmt.Errorf("%w: customer id is required", ErrValidation)
	}

	return Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
		StatusID:   StatusPendingID,
	}, nil
}

// AddItem добавляет позицию и пересчитывает сумму заказа.
func (o *Order) AddItem(productID string, quantity int, unitPrice float64) error {
	if productID == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: item quantity must be greater than zero", ErrValidation)
	}
	if unitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	o.Items = append(o.Items, OrderItem{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	o.RecalculateTotal()
	return nil
}

// RecalculateTotal пересчитывает сумму заказа по позициям. Идемпотентна.
func (o *Order) RecalculateTotal() {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	o.TotalAmount = total
}

// ChangeStatus переводит заказ в новый статус по фиксированной таблице
// переходов. Переход в текущий статус — no-op.
func (o *Order) ChangeStatus(newStatusID string) error {
	target, ok := StatusByID(newStatusID)
	if !ok {
		return fmt.Errorf("%w: unknown order status %q", ErrStatusTransition, newStatusID)
	}
	if newStatusID == o.StatusID {
		return nil
	}
	if !CanTransition(o.StatusID, newStatusID) {
		current, _ := StatusByID(o.StatusID)
		return fmt.Errorf("%w: cannot transition from %s to %s",
			ErrStatusTransition, current.Name, target.Name)
	}

	o.StatusID = newStatusID
	return nil
}
