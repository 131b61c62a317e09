package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bistrosoft/orders/internal/service/orders"
)

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Validation Error", "request body must be valid JSON")
		return
	}

	if !bodyUUID(c, "customerId", req.CustomerID) {
		return
	}

	items := make([]orders.CreateItem, 0, len(req.Items))
	for _, item := range req.Items {
		if !bodyUUID(c, "items.productId", item.ProductID) {
			return
		}
		items = append(items, orders.CreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	orderID, err := s.services.Orders.Create(c.Request.Context(), req.CustomerID, items)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.metrics.RecordOrderCreated()
	c.Header("Location", "/api/orders/"+orderID)
	c.JSON(http.StatusCreated, orderID)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Validation Error", "request body must be valid JSON")
		return
	}

	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if !bodyUUID(c, "newStatusId", req.NewStatusID) {
		return
	}

	// Идентификатор в пути имеет приоритет над телом запроса.
	if err := s.services.Orders.ChangeStatus(c.Request.Context(), orderID, req.NewStatusID); err != nil {
		s.writeError(c, err)
		return
	}

	s.metrics.RecordStatusChange()
	c.Status(http.StatusNoContent)
}

func toOrderDTO(view orders.OrderView) orderDTO {
	items := make([]orderItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, orderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return orderDTO{
		ID:          view.ID,
		CustomerID:  view.CustomerID,
		TotalAmount: view.TotalAmount,
		CreatedAt:   view.CreatedAt,
		Status:      toStatusDTO(view.StatusID),
		Items:       items,
	}
}
