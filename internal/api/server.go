package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/metrics"
	"github.com/bistrosoft/orders/internal/service/auth"
	"github.com/bistrosoft/orders/internal/service/catalog"
	"github.com/bistrosoft/orders/internal/service/customers"
	"github.com/bistrosoft/orders/internal/service/orders"
)

// Config настраивает HTTP-слой API.
type Config struct {
	// AllowedOrigins — origin'ы фронтенда для CORS.
	AllowedOrigins []string
	// Development включает подробные detail в ответах 500.
	Development bool
}

// Services — зависимости HTTP-слоя.
type Services struct {
	Orders    orders.Service
	Customers customers.Service
	Catalog   catalog.Service
	Auth      auth.Service
	Tokens    *auth.TokenIssuer
}

// Server связывает маршруты API с сервисами.
type Server struct {
	services    Services
	metrics     *metrics.HTTPMetrics
	logger      *log.Entry
	cfg         Config
	development bool
}

// NewServer создаёт HTTP-слой. metrics может быть nil.
func NewServer(services Services, m *metrics.HTTPMetrics, logger *log.Entry, cfg Config) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "api")
	}
	return &Server{
		services:    services,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
		development: cfg.Development,
	}
}

// Router собирает gin-движок со всеми маршрутами и middleware.
func (s *Server) Router() *gin.Engine {
	cfg := s.cfg
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		traceID(),
		requestLogger(s.logger),
		recovery(s),
		httpMetrics(s.metrics),
	)

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", traceIDHeader},
			ExposeHeaders:    []string{traceIDHeader, "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	apiGroup := router.Group("/api")
	apiGroup.POST("/auth/login", s.login)

	protected := apiGroup.Group("")
	protected.Use(authRequired(s.services.Tokens))
	{
		protected.GET("/customers", s.listCustomers)
		protected.POST("/customers", s.createCustomer)
		protected.GET("/customers/:id", s.getCustomer)
		protected.GET("/customers/:id/orders", s.listCustomerOrders)

		protected.POST("/orders", s.createOrder)
		protected.PUT("/orders/:id/status", s.updateOrderStatus)

		protected.GET("/products", s.listProducts)
	}

	return router
}
