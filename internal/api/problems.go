package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bistrosoft/orders/internal/domain"
)

// Problem — тело ошибки в формате problem details (RFC 7807).
type Problem struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	TraceID  string              `json:"traceId,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

func newProblem(c *gin.Context, status int, title, detail string) Problem {
	return Problem{
		Type:     fmt.Sprintf("https://httpstatuses.com/%d", status),
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
		TraceID:  TraceIDFrom(c),
	}
}

// writeProblem отправляет problem details и прерывает цепочку обработчиков.
func writeProblem(c *gin.Context, status int, title, detail string) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(status, newProblem(c, status, title, detail))
}

// writeError сопоставляет класс доменной ошибки с HTTP-статусом.
// Detail пятисоток наружу не отдаётся вне режима разработки.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		writeProblem(c, http.StatusBadRequest, "Validation Error", err.Error())
	case domain.IsNotFound(err):
		writeProblem(c, http.StatusNotFound, "Resource Not Found", err.Error())
	case domain.IsUnauthorized(err):
		writeProblem(c, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(c, http.StatusForbidden, "Forbidden", err.Error())
	case domain.IsStatusTransition(err):
		writeProblem(c, http.StatusConflict, "Invalid State Transition", err.Error())
	default:
		s.logger.WithError(err).WithField("trace_id", TraceIDFrom(c)).Error("unhandled error")
		detail := ""
		if s.development {
			detail = err.Error()
		}
		writeProblem(c, http.StatusInternalServerError, "Internal Server Error", detail)
	}
}
