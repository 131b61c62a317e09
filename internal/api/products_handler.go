package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.services.Catalog.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	dtos := make([]productDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, productDTO{
			ID:            product.ID,
			Name:          product.Name,
			Price:         product.Price,
			StockQuantity: product.StockQuantity,
		})
	}
	c.JSON(http.StatusOK, dtos)
}
