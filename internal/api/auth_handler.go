package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Validation Error", "request body must be valid JSON")
		return
	}

	result, err := s.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponseDTO{
		Token:        result.Token,
		ExpiresAtUTC: result.ExpiresAtUTC.UTC().Format(time.RFC3339),
		UserID:       result.UserID,
		Email:        result.Email,
	})
}
