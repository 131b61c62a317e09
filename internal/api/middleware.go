package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/metrics"
	"github.com/bistrosoft/orders/internal/service/auth"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDKey    = "trace_id"

	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// TraceIDFrom возвращает идентификатор трассировки текущего запроса.
func TraceIDFrom(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// traceID принимает входящий X-Trace-Id или генерирует новый и
// возвращает его в ответе для корреляции с логами.
func traceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(traceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(traceIDKey, id)
		c.Header(traceIDHeader, id)
		c.Next()
	}
}

// requestLogger пишет строку лога на каждый завершённый запрос.
func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"trace_id": TraceIDFrom(c),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request handled")
	}
}

// recovery переводит панику обработчика в problem-ответ 500.
func recovery(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("panic", r).WithField("trace_id", TraceIDFrom(c)).Error("handler panicked")
				detail := ""
				if s.development {
					detail = "panic: " + strings.TrimSpace(stringify(r))
				}
				writeProblem(c, http.StatusInternalServerError, "Internal Server Error", detail)
			}
		}()
		c.Next()
	}
}

func stringify(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unexpected failure"
}

// httpMetrics учитывает каждый запрос в Prometheus-метриках. Роут берётся
// из шаблона gin, чтобы не плодить метки на каждый конкретный id.
func httpMetrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		m.RequestStarted()
		start := time.Now()
		c.Next()
		m.RequestFinished()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// authRequired проверяет bearer-токен и кладёт пользователя в контекст.
func authRequired(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeProblem(c, http.StatusUnauthorized, "Unauthorized", "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeProblem(c, http.StatusUnauthorized, "Unauthorized", "authorization header must be a bearer token")
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			writeProblem(c, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}
