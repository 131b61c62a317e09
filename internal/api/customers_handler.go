package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/service/customers"
)

func (s *Server) listCustomers(c *gin.Context) {
	list, err := s.services.Customers.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	dtos := make([]customerListDTO, 0, len(list))
	for _, customer := range list {
		dtos = append(dtos, customerListDTO{
			ID:          customer.ID,
			Name:        customer.Name,
			Email:       customer.Email.String(),
			PhoneNumber: customer.PhoneNumber,
		})
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Validation Error", "request body must be valid JSON")
		return
	}

	id, err := s.services.Customers.Register(c.Request.Context(), req.Name, req.Email, req.PhoneNumber)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Location", "/api/customers/"+id)
	c.JSON(http.StatusCreated, id)
}

func (s *Server) getCustomer(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := s.services.Customers.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerDTO(view))
}

func (s *Server) listCustomerOrders(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	views, err := s.services.Orders.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	dtos := make([]orderDTO, 0, len(views))
	for _, view := range views {
		dtos = append(dtos, toOrderDTO(view))
	}
	c.JSON(http.StatusOK, dtos)
}

func toCustomerDTO(view customers.CustomerView) customerDTO {
	orders := make([]orderSummaryDTO, 0, len(view.Orders))
	for _, summary := range view.Orders {
		orders = append(orders, orderSummaryDTO{
			ID:          summary.ID,
			TotalAmount: summary.TotalAmount,
			CreatedAt:   summary.CreatedAt,
			Status:      toStatusDTO(summary.StatusID),
		})
	}
	return customerDTO{
		ID:          view.ID,
		Name:        view.Name,
		Email:       view.Email,
		PhoneNumber: view.PhoneNumber,
		Orders:      orders,
	}
}

func toStatusDTO(statusID string) orderStatusDTO {
	status, ok := domain.StatusByID(statusID)
	if !ok {
		return orderStatusDTO{ID: statusID}
	}
	return orderStatusDTO{
		ID:          status.ID,
		Name:        status.Name,
		Description: status.Description,
	}
}
