package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Additional-Code/storefront/internal/cache"
	"github.com/Additional-Code/storefront/internal/config"
	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/messaging"
	accountrepo "github.com/Additional-Code/storefront/internal/repository/account"
	customerrepo "github.com/Additional-Code/storefront/internal/repository/customer"
	orderrepo "github.com/Additional-Code/storefront/internal/repository/order"
	productrepo "github.com/Additional-Code/storefront/internal/repository/product"
	accountsvc "github.com/Additional-Code/storefront/internal/service/account"
	customersvc "github.com/Additional-Code/storefront/internal/service/customer"
	ordersvc "github.com/Additional-Code/storefront/internal/service/order"
	productsvc "github.com/Additional-Code/storefront/internal/service/product"
	accounttransport "github.com/Additional-Code/storefront/internal/transport/http/account"
	customertransport "github.com/Additional-Code/storefront/internal/transport/http/customer"
	ordertransport "github.com/Additional-Code/storefront/internal/transport/http/order"
	producttransport "github.com/Additional-Code/storefront/internal/transport/http/product"
)

var dbSeq atomic.Int64

// newTestAPI stands up the full HTTP surface against an in-memory sqlite
// database, mirroring the production wiring without the Fx container.
func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", dbSeq.Add(1))
	sqldb, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	database.RegisterModels(db)
	require.NoError(t, database.EnsureSchema(context.Background(), db))

	conns := &database.Connections{Writer: db, Reader: db}
	logger := zap.NewNop()

	var cfg config.Config
	cfg.Cache.Driver = "noop"
	cfg.Messaging.Driver = "noop"

	lc := fxtest.NewLifecycle(t)
	store, err := cache.NewStore(lc, cfg, logger)
	require.NoError(t, err)
	publisher, err := messaging.NewClient(lc, cfg, logger)
	require.NoError(t, err)

	customers := customersvc.NewService(customersvc.Params{
		Repository: customerrepo.NewRepository(conns),
		Cache:      store,
		Config:     cfg,
		Logger:     logger,
		Publisher:  publisher,
	})
	products := productsvc.NewService(productsvc.Params{
		Repository: productrepo.NewRepository(conns),
		Cache:      store,
		Config:     cfg,
		Logger:     logger,
		Publisher:  publisher,
	})
	orders := ordersvc.NewService(ordersvc.Params{
		Repository: orderrepo.NewRepository(conns),
		Config:     cfg,
		Logger:     logger,
		Publisher:  publisher,
	})
	accounts := accountsvc.NewService(accountsvc.Params{
		Repository: accountrepo.NewRepository(conns),
		Config:     cfg,
		Logger:     logger,
		Publisher:  publisher,
	})

	e := echo.New()
	customertransport.Register(e, customertransport.NewHandler(customers))
	producttransport.Register(e, producttransport.NewHandler(products))
	ordertransport.Register(e, ordertransport.NewHandler(orders))
	accounttransport.Register(e, accounttransport.NewHandler(accounts))
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string         `json:"kind"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type customerBody struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type productBody struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type orderBody struct {
	ID         int64         `json:"id"`
	Date       string        `json:"date"`
	CustomerID int64         `json:"customer_id"`
	Products   []productBody `json:"products"`
}

type accountBody struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	CustomerID int64  `json:"customer_id"`
}

func createCustomer(t *testing.T, e *echo.Echo, name string) int64 {
	t.Helper()
	rec, _ := doJSON(t, e, http.MethodPost, "/customers", map[string]any{
		"name": name, "email": name + "@example.com", "phone": "5550100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/customers", nil)
	customers := decodeData[[]customerBody](t, env)
	require.NotEmpty(t, customers)
	return customers[len(customers)-1].ID
}

func createProduct(t *testing.T, e *echo.Echo, name string, price float64) int64 {
	t.Helper()
	rec, _ := doJSON(t, e, http.MethodPost, "/products", map[string]any{"name": name, "price": price})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/products", nil)
	products := decodeData[[]productBody](t, env)
	require.NotEmpty(t, products)
	return products[len(products)-1].ID
}

func TestCustomerCreateListRoundTrip(t *testing.T) {
	e := newTestAPI(t)

	rec, env := doJSON(t, e, http.MethodPost, "/customers", map[string]any{
		"name": "Ada", "email": "ada@x.com", "phone": "5551234",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = doJSON(t, e, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decodeData[[]customerBody](t, env)
	require.Len(t, customers, 1)
	assert.NotZero(t, customers[0].ID)
	assert.Equal(t, "Ada", customers[0].Name)
	assert.Equal(t, "ada@x.com", customers[0].Email)
	assert.Equal(t, "5551234", customers[0].Phone)
}

func TestEmptyListsAreArrays(t *testing.T) {
	e := newTestAPI(t)

	for _, path := range []string{"/customers", "/products", "/orders", "/accounts"} {
		rec, env := doJSON(t, e, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", string(env.Data), path)
	}
}

func TestProductUpdateReplacesFields(t *testing.T) {
	e := newTestAPI(t)
	id := createProduct(t, e, "Widget", 9.99)

	rec, _ := doJSON(t, e, http.MethodPut, fmt.Sprintf("/products/%d", id), map[string]any{
		"name": "Widget2", "price": 12.5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/products", nil)
	products := decodeData[[]productBody](t, env)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, "Widget2", products[0].Name)
	assert.Equal(t, 12.5, products[0].Price)
}

func TestProductUpdateWithUnchangedValuesSucceeds(t *testing.T) {
	e := newTestAPI(t)
	id := createProduct(t, e, "Widget", 9.99)

	// Resubmitting the current values must not read as a missing row.
	body := map[string]any{"name": "Widget", "price": 9.99}
	for i := 0; i < 2; i++ {
		rec, env := doJSON(t, e, http.MethodPut, fmt.Sprintf("/products/%d", id), body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	}
}

func TestCustomerDeleteIsTerminal(t *testing.T) {
	e := newTestAPI(t)
	id := createCustomer(t, e, "Ada")

	rec, _ := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/customers", nil)
	assert.Equal(t, "[]", string(env.Data))

	rec, env = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Kind)
}

func TestNotFoundSymmetry(t *testing.T) {
	e := newTestAPI(t)

	updates := map[string]map[string]any{
		"/customers/999": {"name": "X", "email": "x@x.com", "phone": "5550000"},
		"/products/999":  {"name": "X", "price": 1.0},
		"/orders/999":    {"date": "2024-05-01", "customer_id": 1},
		"/accounts/999":  {"username": "x", "password": "y", "customer_id": 1},
	}

	for path, body := range updates {
		rec, env := doJSON(t, e, http.MethodPut, path, body)
		require.Equal(t, http.StatusNotFound, rec.Code, "PUT %s", path)
		require.NotNil(t, env.Error, "PUT %s", path)
		assert.Equal(t, "not_found", env.Error.Kind, "PUT %s", path)

		rec, env = doJSON(t, e, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, "DELETE %s", path)
		require.NotNil(t, env.Error, "DELETE %s", path)
		assert.Equal(t, "not_found", env.Error.Kind, "DELETE %s", path)
	}
}

func TestOrderValidationListsMissingDate(t *testing.T) {
	e := newTestAPI(t)
	customerID := createCustomer(t, e, "Ada")

	rec, env := doJSON(t, e, http.MethodPost, "/orders", map[string]any{"customer_id": customerID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "bad_request", env.Error.Kind)
	require.Contains(t, env.Error.Details, "date")
	assert.Equal(t, "missing required field", env.Error.Details["date"])

	_, env = doJSON(t, e, http.MethodGet, "/orders", nil)
	assert.Equal(t, "[]", string(env.Data))
}

func TestValidationReportsEveryField(t *testing.T) {
	e := newTestAPI(t)

	rec, env := doJSON(t, e, http.MethodPost, "/customers", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "name")
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "phone")
}

func TestOrderInlinesAssociatedProducts(t *testing.T) {
	e := newTestAPI(t)
	customerID := createCustomer(t, e, "Ada")
	widgetID := createProduct(t, e, "Widget", 9.99)
	gadgetID := createProduct(t, e, "Gadget", 24.5)

	rec, _ := doJSON(t, e, http.MethodPost, "/orders", map[string]any{
		"date":        "2024-05-01",
		"customer_id": customerID,
		"product_ids": []int64{gadgetID, widgetID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/orders", nil)
	orders := decodeData[[]orderBody](t, env)
	require.Len(t, orders, 1)
	assert.Equal(t, "2024-05-01", orders[0].Date)
	assert.Equal(t, customerID, orders[0].CustomerID)
	require.Len(t, orders[0].Products, 2)

	byID := map[int64]productBody{}
	for _, p := range orders[0].Products {
		byID[p.ID] = p
	}
	require.Contains(t, byID, widgetID)
	require.Contains(t, byID, gadgetID)
	assert.Equal(t, "Widget", byID[widgetID].Name)
	assert.Equal(t, 9.99, byID[widgetID].Price)
	assert.Equal(t, "Gadget", byID[gadgetID].Name)
	assert.Equal(t, 24.5, byID[gadgetID].Price)
}

func TestOrderUpdateReplacesProductSet(t *testing.T) {
	e := newTestAPI(t)
	customerID := createCustomer(t, e, "Ada")
	widgetID := createProduct(t, e, "Widget", 9.99)
	gadgetID := createProduct(t, e, "Gadget", 24.5)

	rec, _ := doJSON(t, e, http.MethodPost, "/orders", map[string]any{
		"date":        "2024-05-01",
		"customer_id": customerID,
		"product_ids": []int64{widgetID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/orders", nil)
	orders := decodeData[[]orderBody](t, env)
	require.Len(t, orders, 1)
	orderID := orders[0].ID

	rec, _ = doJSON(t, e, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), map[string]any{
		"date":        "2024-06-02",
		"customer_id": customerID,
		"product_ids": []int64{gadgetID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = doJSON(t, e, http.MethodGet, "/orders", nil)
	orders = decodeData[[]orderBody](t, env)
	require.Len(t, orders, 1)
	assert.Equal(t, "2024-06-02", orders[0].Date)
	require.Len(t, orders[0].Products, 1)
	assert.Equal(t, gadgetID, orders[0].Products[0].ID)
}

func TestOrderListFiltersByCustomer(t *testing.T) {
	e := newTestAPI(t)
	adaID := createCustomer(t, e, "Ada")
	graceID := createCustomer(t, e, "Grace")

	for _, customerID := range []int64{adaID, adaID, graceID} {
		rec, _ := doJSON(t, e, http.MethodPost, "/orders", map[string]any{
			"date": "2024-05-01", "customer_id": customerID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env := doJSON(t, e, http.MethodGet, fmt.Sprintf("/orders?customer_id=%d", adaID), nil)
	orders := decodeData[[]orderBody](t, env)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, adaID, o.CustomerID)
	}
}

func TestDuplicateUsernameConflicts(t *testing.T) {
	e := newTestAPI(t)
	customerID := createCustomer(t, e, "Ada")

	body := map[string]any{"username": "ada", "password": "secret", "customer_id": customerID}
	rec, _ := doJSON(t, e, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, e, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "conflict", env.Error.Kind)

	_, env = doJSON(t, e, http.MethodGet, "/accounts", nil)
	accounts := decodeData[[]accountBody](t, env)
	assert.Len(t, accounts, 1)
}

func TestAccountRoundTripKeepsCredentials(t *testing.T) {
	e := newTestAPI(t)
	customerID := createCustomer(t, e, "Ada")

	rec, _ := doJSON(t, e, http.MethodPost, "/accounts", map[string]any{
		"username": "ada", "password": "secret", "customer_id": customerID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := doJSON(t, e, http.MethodGet, "/accounts", nil)
	accounts := decodeData[[]accountBody](t, env)
	require.Len(t, accounts, 1)
	assert.Equal(t, "ada", accounts[0].Username)
	assert.Equal(t, "secret", accounts[0].Password)
	assert.Equal(t, customerID, accounts[0].CustomerID)
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	e := newTestAPI(t)

	rec, env := doJSON(t, e, http.MethodDelete, "/customers/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "bad_request", env.Error.Kind)
}
