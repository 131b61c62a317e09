package domain

// Идентификаторы well-known статусов заказа. Значения стабильны и разделяются
// с фронтендом, поэтому захардкожены, а не генерируются при сидинге.
const (
	StatusPendingID   = "00000000-0000-0000-0000-000000000001"
	StatusPaidID      = "00000000-0000-0000-0000-000000000002"
	StatusShippedID   = "00000000-0000-0000-0000-000000000003"
	StatusDeliveredID = "00000000-0000-0000-0000-000000000004"
	StatusCancelledID = "00000000-0000-0000-0000-000000000005"
)

// OrderStatus описывает один из пяти фиксированных статусов жизненного цикла.
type OrderStatus struct {
	ID          string
	Name        string
	Description string
}

// WellKnownStatuses — закрытый набор статусов, сидится один раз.
var WellKnownStatuses = []OrderStatus{
	{ID: StatusPendingID, Name: "Pending", Description: "Order has been created but not yet paid"},
	{ID: StatusPaidID, Name: "Paid", Description: "Payment has been received and confirmed"},
	{ID: StatusShippedID, Name: "Shipped", Description: "Order has been shipped and is on the way"},
	{ID: StatusDeliveredID, Name: "Delivered", Description: "Order has been successfully delivered to the customer"},
	{ID: StatusCancelledID, Name: "Cancelled", Description: "Order has been cancelled by the customer or system"},
}

// Таблица переходов: текущий статус -> допустимые следующие.
// Delivered и Cancelled терминальные.
var statusTransitions = map[string][]string{
	StatusPendingID:   {StatusPaidID, StatusCancelledID},
	StatusPaidID:      {StatusShippedID},
	StatusShippedID:   {StatusDeliveredID},
	StatusDeliveredID: {},
	StatusCancelledID: {},
}

// StatusByID возвращает well-known статус по идентификатору.
func StatusByID(id string) (OrderStatus, bool) {
	for _, status := range WellKnownStatuses {
		if status.ID == id {
			return status, true
		}
	}
	return OrderStatus{}, false
}

// CanTransition проверяет переход по таблице. Переходы не перескакивают
// состояния и не идут назад.
func CanTransition(fromID, toID string) bool {
	for _, allowed := range statusTransitions[fromID] {
		if allowed == toID {
			return true
		}
	}
	return false
}
