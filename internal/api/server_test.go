package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bistrosoft/orders/internal/api"
	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/service/auth"
	"github.com/bistrosoft/orders/internal/service/catalog"
	"github.com/bistrosoft/orders/internal/service/customers"
	"github.com/bistrosoft/orders/internal/service/orders"
	"github.com/bistrosoft/orders/internal/storage/memory"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testEmail    = "admin@example.com"
	testPassword = "correct horse battery staple"
)

type testEnv struct {
	router http.Handler
	repos  domain.Repositories
	token  string
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("component", "test")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()
	logger := loggerForTests()

	issuer, err := auth.NewTokenIssuer(testSecret, "bistrosoft-orders", time.Hour)
	require.NoError(t, err)
	authService, err := auth.NewService(repos.Users, issuer, logger)
	require.NoError(t, err)

	email, err := domain.NewEmail(testEmail)
	require.NoError(t, err)
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user, err := domain.NewUser(email, hash)
	require.NoError(t, err)
	require.NoError(t, repos.Users.Create(context.Background(), user))

	server := api.NewServer(api.Services{
		Orders:    orders.NewService(repos, store, nil, logger),
		Customers: customers.NewService(repos.Customers, repos.Orders, logger),
		Catalog:   catalog.NewService(repos.Products, nil, logger),
		Auth:      authService,
		Tokens:    issuer,
	}, nil, logger, api.Config{Development: true})

	token, _, err := issuer.Issue(user.ID, testEmail)
	require.NoError(t, err)

	return &testEnv{
		router: server.Router(),
		repos:  repos,
		token:  token,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedProduct(t *testing.T, name string, price float64, stock int) domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, price, stock)
	require.NoError(t, err)
	require.NoError(t, e.repos.Products.Create(context.Background(), product))
	return product
}

func (e *testEnv) createCustomer(t *testing.T, name, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/customers", map[string]string{
		"name":  name,
		"email": email,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var id string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	return id
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	}, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token        string `json:"token"`
		ExpiresAtUTC string `json:"expiresAtUtc"`
		UserID       string `json:"userId"`
		Email        string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.ExpiresAtUTC)
	require.Equal(t, testEmail, resp.Email)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": "wrong",
	}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "Unauthorized", problem["title"])
	require.NotEmpty(t, problem["traceId"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", nil, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/customers", map[string]string{
		"name":        "Alice",
		"email":       "alice@example.com",
		"phoneNumber": "+10000000001",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("Location"))

	var id string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	require.NotEmpty(t, id)

	// Дубликат email отклоняется независимо от регистра.
	rec = env.do(t, http.MethodPost, "/api/customers", map[string]string{
		"name":  "Other Alice",
		"email": "ALICE@example.com",
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "Validation Error", problem["title"])
	require.Equal(t, float64(http.StatusBadRequest), problem["status"])
}

func TestGetCustomer(t *testing.T) {
	env := newTestEnv(t)
	id := env.createCustomer(t, "Alice", "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/customers/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto struct {
		ID     string           `json:"id"`
		Name   string           `json:"name"`
		Orders []map[string]any `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, id, dto.ID)
	require.Equal(t, "Alice", dto.Name)
	require.NotNil(t, dto.Orders)

	rec = env.do(t, http.MethodGet, "/api/customers/00000000-0000-0000-0000-0000000000ff", nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "Resource Not Found", problem["title"])
	require.Equal(t, "https://httpstatuses.com/404", problem["type"])
}

func TestListCustomers_EmptyIsEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/customers", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.createCustomer(t, "Alice", "alice@example.com")
	product := env.seedProduct(t, "Espresso", 50, 10)

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": customerID,
		"items": []map[string]any{
			{"productId": product.ID, "quantity": 2},
		},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var orderID string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orderID))
	require.NotEmpty(t, orderID)

	// Остаток уменьшился и виден в каталоге.
	rec = env.do(t, http.MethodGet, "/api/products", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []struct {
		ID            string `json:"id"`
		StockQuantity int    `json:"stockQuantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, 8, products[0].StockQuantity)

	// Заказ виден в списке заказов покупателя с названием товара.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%s/orders", customerID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var ordersResp []struct {
		ID          string  `json:"id"`
		TotalAmount float64 `json:"totalAmount"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		Items []struct {
			ProductName string  `json:"productName"`
			LineTotal   float64 `json:"lineTotal"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ordersResp))
	require.Len(t, ordersResp, 1)
	require.Equal(t, orderID, ordersResp[0].ID)
	require.Equal(t, "Pending", ordersResp[0].Status.Name)
	require.InDelta(t, 100, ordersResp[0].TotalAmount, 1e-9)
	require.Len(t, ordersResp[0].Items, 1)
	require.Equal(t, "Espresso", ordersResp[0].Items[0].ProductName)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.createCustomer(t, "Alice", "alice@example.com")
	product := env.seedProduct(t, "Espresso", 50, 1)

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": customerID,
		"items": []map[string]any{
			{"productId": product.ID, "quantity": 5},
		},
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Contains(t, problem["detail"], "available 1, requested 5")

	stored, err := env.repos.Products.Get(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.StockQuantity)
}

func TestCreateOrder_MissingProduct(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.createCustomer(t, "Alice", "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": customerID,
		"items": []map[string]any{
			{"productId": "00000000-0000-0000-0000-0000000000aa", "quantity": 1},
		},
	}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	require.Contains(t, problem["detail"], "00000000-0000-0000-0000-0000000000aa")
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.createCustomer(t, "Alice", "alice@example.com")
	product := env.seedProduct(t, "Espresso", 50, 10)

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": customerID,
		"items":      []map[string]any{{"productId": product.ID, "quantity": 1}},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var orderID string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orderID))

	// Недопустимый прыжок статуса — 409.
	rec = env.do(t, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{
		"orderId":     orderID,
		"newStatusId": domain.StatusShippedID,
	}, true)
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "Invalid State Transition", problem["title"])

	rec = env.do(t, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{
		"orderId":     orderID,
		"newStatusId": domain.StatusPaidID,
	}, true)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/orders/00000000-0000-0000-0000-0000000000ff/status", map[string]string{
		"newStatusId": domain.StatusPaidID,
	}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTraceIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))

	// Входящий идентификатор трассировки сохраняется.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("X-Trace-Id", "trace-123")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	require.Equal(t, "trace-123", recorder.Header().Get("X-Trace-Id"))
}

func TestMalformedJSONBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedIDsRejectedBeforeStorage(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.createCustomer(t, "Alice", "alice@example.com")
	product := env.seedProduct(t, "Espresso", 50, 10)

	// Искажённый идентификатор в пути неотличим от отсутствующего ресурса.
	for _, path := range []string{
		"/api/customers/abc",
		"/api/customers/abc/orders",
	} {
		rec := env.do(t, http.MethodGet, path, nil, true)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		problem := decodeProblem(t, rec)
		require.Equal(t, "Resource Not Found", problem["title"], path)
	}

	rec := env.do(t, http.MethodPut, "/api/orders/abc/status", map[string]string{
		"newStatusId": domain.StatusPaidID,
	}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Искажённый идентификатор в теле запроса — ошибка валидации.
	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": "abc",
		"items":      []map[string]any{{"productId": product.ID, "quantity": 1}},
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Contains(t, problem["detail"], "customerId")

	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": customerID,
		"items":      []map[string]any{{"productId": "abc", "quantity": 1}},
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem = decodeProblem(t, rec)
	require.Contains(t, problem["detail"], "productId")

	rec = env.do(t, http.MethodPut, "/api/orders/"+product.ID+"/status", map[string]string{
		"newStatusId": "abc",
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem = decodeProblem(t, rec)
	require.Contains(t, problem["detail"], "newStatusId")
}

type failingCatalog struct{}

func (failingCatalog) List(context.Context) ([]domain.Product, error) {
	return nil, errors.New("catalog backend offline")
}

func TestInternalErrorHidesDetailOutsideDevelopment(t *testing.T) {
	logger := loggerForTests()
	logger.Logger.SetLevel(logrus.FatalLevel)

	issuer, err := auth.NewTokenIssuer(testSecret, "bistrosoft-orders", time.Hour)
	require.NoError(t, err)
	server := api.NewServer(api.Services{
		Catalog: failingCatalog{},
		Tokens:  issuer,
	}, nil, logger, api.Config{Development: false})
	router := server.Router()

	token, _, err := issuer.Issue("00000000-0000-0000-0000-0000000000aa", testEmail)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "Internal Server Error", problem["title"])
	require.Empty(t, problem["detail"])
}
