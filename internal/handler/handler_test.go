package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/api"
	"github.com/nikolayk812/pos-demo/internal/auth"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/handler"
	"github.com/nikolayk812/pos-demo/internal/register"
	"github.com/nikolayk812/pos-demo/internal/repository"
	"github.com/nikolayk812/pos-demo/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakeAuthRemote struct {
	loginErr error
}

func (f *fakeAuthRemote) Login(_ context.Context, creds api.Credentials) (api.LoginResult, error) {
	if f.loginErr != nil {
		return api.LoginResult{}, f.loginErr
	}
	return api.LoginResult{
		Token: "tok",
		User:  domain.User{ID: 7, FirstName: "Jane", LastName: "Doe", Email: creds.Email},
	}, nil
}

func (f *fakeAuthRemote) Settings(context.Context) (domain.Settings, error) {
	return domain.Settings{Currency: "RWF", OrganizationName: "Acme Hardware"}, nil
}

type fakeRemote struct {
	mu          sync.Mutex
	products    []domain.Product
	productsErr error
	submitErr   error
	submitted   [][]domain.SaleItem
}

func (f *fakeRemote) Products(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.productsErr
}

func (f *fakeRemote) Categories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Tools"}, {ID: 2, Name: "Paint"}}, nil
}

func (f *fakeRemote) SubmitSale(_ context.Context, items []domain.SaleItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, items)
	return nil
}

type fakeDashboard struct{}

func (fakeDashboard) Dashboard(context.Context, time.Time) (domain.DashboardData, error) {
	return domain.DashboardData{
		MonthlySales: decimal.NewFromInt(12000),
		LowStockItems: []domain.InventoryItem{
			{ProductName: "Nails", CurrentStock: decimal.NewFromInt(2), MinimumStockLevel: decimal.NewFromInt(10), Status: domain.InventoryStatusLowStock},
		},
	}, nil
}

type fakeJournal struct {
	mu       sync.Mutex
	receipts map[uuid.UUID]domain.Receipt
}

func (f *fakeJournal) SaveReceipt(_ context.Context, r domain.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts[r.ID] = r
	return nil
}

func (f *fakeJournal) GetReceipt(_ context.Context, id uuid.UUID) (domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[id]
	if !ok {
		return domain.Receipt{}, repository.ErrReceiptNotFound
	}
	return r, nil
}

func (f *fakeJournal) ListReceipts(_ context.Context, limit int32) ([]domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Receipt
	for _, r := range f.receipts {
		if int32(len(result)) == limit {
			break
		}
		result = append(result, r)
	}
	return result, nil
}

type testServer struct {
	router   *gin.Engine
	remote   *fakeRemote
	authRem  *fakeAuthRemote
	journal  *fakeJournal
	store    *session.Memory
	registry *register.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	ts := &testServer{
		remote: &fakeRemote{
			products: []domain.Product{
				product(1, "Claw Hammer", "Tools", "1000", "2"),
				product(2, "Wall Paint", "Paint", "2500", "10"),
				product(3, "Brush", "Paint", "300", "0"),
			},
		},
		authRem: &fakeAuthRemote{},
		journal: &fakeJournal{receipts: make(map[uuid.UUID]domain.Receipt)},
	}

	ts.store = session.NewMemory(time.Hour)
	authService := auth.NewService(func(string) auth.Remote { return ts.authRem }, ts.store, logger)
	registry := register.NewRegistry(func(string) register.Remote { return ts.remote }, ts.journal, currency.USD, logger)
	ts.registry = registry

	ts.router = handler.NewRouter(handler.RouterParams{
		Auth: handler.NewAuthHandler(authService, registry, func(string) handler.DashboardSource {
			return fakeDashboard{}
		}, logger),
		Cart:        handler.NewCartHandler(currency.USD, language.English, logger),
		Receipts:    handler.NewReceiptHandler(ts.journal, language.English, logger),
		AuthService: authService,
		Registry:    registry,
		Logger:      logger,
	})

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequestWithContext(t.Context(), method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(handler.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	return w
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/login", "", handler.LoginRequest{Email: "jane@acme.rw", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[handler.LoginResponse](t, w)
	require.NotEmpty(t, resp.SessionID)

	return resp.SessionID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	t.Run("login: ok", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, http.MethodPost, "/api/v1/login", "", handler.LoginRequest{Email: "jane@acme.rw", Password: "secret"})
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handler.LoginResponse](t, w)
		assert.Equal(t, "Jane", resp.User.FirstName)
		require.NotNil(t, resp.Settings)
		assert.Equal(t, "RWF", resp.Settings.Currency)
	})

	t.Run("rejected credentials: error", func(t *testing.T) {
		ts := newTestServer(t)
		ts.authRem.loginErr = &api.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}

		w := ts.do(t, http.MethodPost, "/api/v1/login", "", handler.LoginRequest{Email: "jane@acme.rw", Password: "bad"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
	})

	t.Run("missing password: error", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{"email": "jane@acme.rw"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequiresSession(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/catalog", "/api/v1/dashboard"} {
		w := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = ts.do(t, http.MethodGet, path, uuid.NewString(), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/logout", sessionID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/cart", sessionID, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredSession_ClosesRegister(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 1})
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := ts.registry.Get(sessionID)
	require.True(t, ok)

	// the store dropped the entry, e.g. its TTL ran out
	require.NoError(t, ts.store.Clear(t.Context(), sessionID))

	w = ts.do(t, http.MethodGet, "/api/v1/cart", sessionID, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, ok = ts.registry.Get(sessionID)
	assert.False(t, ok)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodGet, "/api/v1/dashboard", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[handler.DashboardResponse](t, w)
	assert.Equal(t, "12000", resp.MonthlySales.String())
	require.Len(t, resp.LowStockItems, 1)
	assert.Equal(t, "Nails", resp.LowStockItems[0].ProductName)
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodGet, "/api/v1/catalog", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[handler.CatalogResponse](t, w)
	assert.Len(t, resp.Products, 3)
	assert.Len(t, resp.Categories, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, "RWF 1,000", resp.Products[0].Price)
	assert.False(t, resp.Products[2].InStock)

	w = ts.do(t, http.MethodGet, "/api/v1/catalog?category=Paint&q=PAINT", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decode[handler.CatalogResponse](t, w)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, domain.ProductID(2), resp.Products[0].ID)

	// filters stick to the register
	w = ts.do(t, http.MethodGet, "/api/v1/catalog", sessionID, nil)
	resp = decode[handler.CatalogResponse](t, w)
	assert.Equal(t, "Paint", resp.Category)
	assert.Equal(t, 1, resp.Filtered)
}

func TestCatalog_LoadFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.remote.productsErr = &api.Error{StatusCode: http.StatusInternalServerError}
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodGet, "/api/v1/catalog", sessionID, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load products and categories"}`, w.Body.String())

	ts.remote.mu.Lock()
	ts.remote.productsErr = nil
	ts.remote.mu.Unlock()

	w = ts.do(t, http.MethodGet, "/api/v1/catalog", sessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code, "retry after a failed load")
}

func TestCart_Edits(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	addHammer := func() handler.CartResponse {
		w := ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 1})
		require.Equal(t, http.StatusOK, w.Code)
		return decode[handler.CartResponse](t, w)
	}

	resp := addHammer()
	require.NotNil(t, resp.Applied)
	assert.True(t, *resp.Applied)

	resp = addHammer()
	assert.True(t, *resp.Applied)

	resp = addHammer()
	assert.False(t, *resp.Applied, "stock is 2")
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(2), resp.Lines[0].Quantity)
	assert.Equal(t, "2000", resp.Total.String())
	assert.Equal(t, "RWF 2,000", resp.Formatted)

	w := ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPut, "/api/v1/cart/items/1/price", sessionID, handler.SetPriceRequest{Price: "abc"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[handler.CartResponse](t, w)
	assert.False(t, *resp.Applied)
	assert.Equal(t, "1000", resp.Lines[0].UnitPrice.String())

	w = ts.do(t, http.MethodPut, "/api/v1/cart/items/1/price", sessionID, handler.SetPriceRequest{Price: "900"})
	resp = decode[handler.CartResponse](t, w)
	assert.True(t, *resp.Applied)
	assert.Equal(t, "1800", resp.Total.String())
	assert.Equal(t, "1000", resp.Lines[0].OriginalUnitPrice.String())

	w = ts.do(t, http.MethodPatch, "/api/v1/cart/items/1/quantity", sessionID, handler.ChangeQuantityRequest{Delta: -1})
	resp = decode[handler.CartResponse](t, w)
	assert.True(t, *resp.Applied)
	assert.Equal(t, int64(1), resp.Lines[0].Quantity)

	w = ts.do(t, http.MethodPatch, "/api/v1/cart/items/abc/quantity", sessionID, handler.ChangeQuantityRequest{Delta: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/v1/cart/items/1", sessionID, nil)
	resp = decode[handler.CartResponse](t, w)
	assert.True(t, *resp.Applied)
	assert.Empty(t, resp.Lines)

	w = ts.do(t, http.MethodPost, "/api/v1/cart/payment", sessionID, nil)
	resp = decode[handler.CartResponse](t, w)
	assert.False(t, *resp.Applied, "empty cart stays on items")
	assert.Equal(t, domain.StepItems, resp.Step)
}

func TestCart_Checkout(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 1})
	ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 1})
	ts.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, handler.AddItemRequest{ProductID: 2})

	w := ts.do(t, http.MethodPost, "/api/v1/cart/commit", sessionID, nil)
	require.Equal(t, http.StatusConflict, w.Code, "still on the items step")
	assert.Empty(t, ts.remote.submitted)

	w = ts.do(t, http.MethodPost, "/api/v1/cart/payment", sessionID, nil)
	resp := decode[handler.CartResponse](t, w)
	assert.True(t, *resp.Applied)
	assert.Equal(t, domain.StepPayment, resp.Step)
	assert.Equal(t, "4500", resp.Total.String())

	w = ts.do(t, http.MethodPut, "/api/v1/cart/payment-method", sessionID, handler.SetPaymentMethodRequest{PaymentMethod: "bitcoin"})
	resp = decode[handler.CartResponse](t, w)
	assert.False(t, *resp.Applied)

	w = ts.do(t, http.MethodPut, "/api/v1/cart/payment-method", sessionID, handler.SetPaymentMethodRequest{PaymentMethod: domain.PaymentMobile})
	resp = decode[handler.CartResponse](t, w)
	assert.True(t, *resp.Applied)
	assert.Equal(t, "mobile", resp.PaymentMethod)

	w = ts.do(t, http.MethodPut, "/api/v1/cart/customer", sessionID, handler.SetCustomerRequest{Name: "John", Email: "john@x.rw"})
	resp = decode[handler.CartResponse](t, w)
	assert.Equal(t, "John", resp.Customer.Name)

	// remote rejects, the cart survives for a retry
	ts.remote.mu.Lock()
	ts.remote.submitErr = &api.Error{StatusCode: http.StatusBadRequest, Message: "Insufficient stock for Claw Hammer"}
	ts.remote.mu.Unlock()

	w = ts.do(t, http.MethodPost, "/api/v1/cart/commit", sessionID, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	failed := decode[struct {
		Error string               `json:"error"`
		Cart  handler.CartResponse `json:"cart"`
	}](t, w)
	assert.Equal(t, "Insufficient stock for Claw Hammer", failed.Error)
	assert.Len(t, failed.Cart.Lines, 2)
	assert.Equal(t, domain.StepPayment, failed.Cart.Step)

	ts.remote.mu.Lock()
	ts.remote.submitErr = nil
	ts.remote.mu.Unlock()

	w = ts.do(t, http.MethodPost, "/api/v1/cart/commit", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	done := decode[struct {
		Receipt handler.ReceiptResponse `json:"receipt"`
		Cart    handler.CartResponse    `json:"cart"`
	}](t, w)

	assert.Equal(t, "4500", done.Receipt.Total.String())
	assert.Equal(t, "RWF 4,500", done.Receipt.Formatted)
	assert.Equal(t, "mobile", done.Receipt.PaymentMethod)
	assert.Equal(t, "Acme Hardware", done.Receipt.Organization.Name)
	assert.Equal(t, "Jane Doe", done.Receipt.ProcessedBy)
	assert.Contains(t, done.Receipt.Text, "Thank you for your business!")

	assert.Empty(t, done.Cart.Lines)
	assert.Equal(t, domain.StepItems, done.Cart.Step)
	assert.Equal(t, "cash", done.Cart.PaymentMethod)

	require.Len(t, ts.remote.submitted, 1)
	assert.Len(t, ts.remote.submitted[0], 2)

	w = ts.do(t, http.MethodPost, "/api/v1/cart/commit", sessionID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	// journal
	w = ts.do(t, http.MethodGet, "/api/v1/receipts/"+done.Receipt.ID.String(), sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[handler.ReceiptResponse](t, w)
	assert.Equal(t, done.Receipt.ID, got.ID)

	w = ts.do(t, http.MethodGet, "/api/v1/receipts/"+done.Receipt.ID.String()+"/print", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, done.Receipt.Text, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/receipts?limit=5", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]handler.ReceiptResponse](t, w), 1)
}

func TestReceipts_Errors(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.login(t)

	w := ts.do(t, http.MethodGet, "/api/v1/receipts/"+uuid.NewString(), sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/receipts/not-a-uuid", sessionID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/receipts?limit=0", sessionID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func product(id domain.ProductID, name, category, price, stock string) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         name,
		Category:     category,
		SellingPrice: decimal.RequireFromString(price),
		Stock:        decimal.RequireFromString(stock),
		MinimumStock: decimal.NewFromInt(1),
	}
}
