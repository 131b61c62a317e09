package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathUUID достаёт идентификатор из пути и проверяет формат UUID.
// Искажённый идентификатор неотличим от отсутствующего ресурса.
func pathUUID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		writeProblem(c, http.StatusNotFound, "Resource Not Found",
			fmt.Sprintf("resource %q not found", raw))
		return "", false
	}
	return raw, true
}

// bodyUUID проверяет формат идентификатора из тела запроса.
func bodyUUID(c *gin.Context, field, raw string) bool {
	if _, err := uuid.Parse(raw); err != nil {
		writeProblem(c, http.StatusBadRequest, "Validation Error",
			fmt.Sprintf("%s must be a valid UUID", field))
		return false
	}
	return true
}
