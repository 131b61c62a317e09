package api

// Запросы и ответы API. Имена полей в camelCase совпадают с тем, что
// ожидает фронтенд.

type createCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type customerListDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type orderStatusDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type orderSummaryDTO struct {
	ID          string         `json:"id"`
	TotalAmount float64        `json:"totalAmount"`
	CreatedAt   string         `json:"createdAt"`
	Status      orderStatusDTO `json:"status"`
}

type customerDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Orders      []orderSummaryDTO `json:"orders"`
}

type orderItemDTO struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

type orderDTO struct {
	ID          string         `json:"id"`
	CustomerID  string         `json:"customerId"`
	TotalAmount float64        `json:"totalAmount"`
	CreatedAt   string         `json:"createdAt"`
	Status      orderStatusDTO `json:"status"`
	Items       []orderItemDTO `json:"items"`
}

type createOrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID string                   `json:"customerId"`
	Items      []createOrderItemRequest `json:"items"`
}

type updateOrderStatusRequest struct {
	OrderID     string `json:"orderId"`
	NewStatusID string `json:"newStatusId"`
}

type productDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponseDTO struct {
	Token        string `json:"token"`
	ExpiresAtUTC string `json:"expiresAtUtc"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}
