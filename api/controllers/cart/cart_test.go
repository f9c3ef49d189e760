package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartsvc "github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type stubLookup struct {
	products []models.Product
	asked    []uint
}

func (s *stubLookup) FindByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	s.asked = ids
	return s.products, nil
}

func testStore() cartsvc.CookieStore {
	return cartsvc.CookieStore{Name: "cart", MaxAge: 24 * time.Hour}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withCart(t *testing.T, req *http.Request, c cartsvc.Cart) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, testStore().Write(rec, c))
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
}

func cookieCart(t *testing.T, rec *httptest.ResponseRecorder) cartsvc.Cart {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return testStore().Read(req)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Details map[string]any  `json:"details"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCartAddSumsQuantity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":"7","quantity":2}`))
	withCart(t, req, cartsvc.New(cartsvc.Item{ProductID: "7", Quantity: 1}))
	rec := httptest.NewRecorder()

	CartAdd(testStore(), testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, cookieCart(t, rec).Quantity("7"))

	var body cartResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, 3, body.ItemCount)
}

func TestCartAddAcceptsNumericIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":12,"quantity":"1"}`))
	rec := httptest.NewRecorder()

	CartAdd(testStore(), testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cookieCart(t, rec).Quantity("12"))
}

func TestCartAddRejectsInvalidLines(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "non numeric id", body: `{"productId":"abc","quantity":1}`, field: "productId"},
		{name: "zero quantity", body: `{"productId":"3","quantity":0}`, field: "quantity"},
		{name: "negative quantity", body: `{"productId":"3","quantity":-2}`, field: "quantity"},
		{name: "quantity above the line cap", body: `{"productId":"3","quantity":"9223372036854775807"}`, field: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			CartAdd(testStore(), testLogger()).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", env.Code)
			assert.Contains(t, env.Details, tt.field)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestCartUpdateZeroRemovesLine(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items", strings.NewReader(`{"productId":"7","quantity":0}`))
	withCart(t, req, cartsvc.New(cartsvc.Item{ProductID: "7", Quantity: 4}, cartsvc.Item{ProductID: "8", Quantity: 1}))
	rec := httptest.NewRecorder()

	CartUpdate(testStore(), testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := cookieCart(t, rec)
	assert.Equal(t, 0, got.Quantity("7"))
	assert.Equal(t, 1, got.Quantity("8"))
}

func TestCartRemoveUsesPathParam(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/cart/items/{productId}", CartRemove(testStore(), testLogger()))

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/8", nil)
	withCart(t, req, cartsvc.New(cartsvc.Item{ProductID: "7", Quantity: 4}, cartsvc.Item{ProductID: "8", Quantity: 1}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := cookieCart(t, rec)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 4, got.Quantity("7"))
}

func TestCartClearExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	CartClear(testStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestCartFetchWithoutExpandSkipsLookup(t *testing.T) {
	lookup := &stubLookup{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	withCart(t, req, cartsvc.New(cartsvc.Item{ProductID: "7", Quantity: 2}))
	rec := httptest.NewRecorder()

	CartFetch(testStore(), lookup, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, lookup.asked)
	var body cartResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, []cartsvc.Item{{ProductID: "7", Quantity: 2}}, body.Items)
}

func TestCartFetchExpandPricesAvailableLines(t *testing.T) {
	lookup := &stubLookup{products: []models.Product{
		{ID: 7, Name: "Taza", Slug: "taza", RetailPrice: 150000, IsActive: true},
		{ID: 9, Name: "Oculto", Slug: "oculto", RetailPrice: 99900, IsActive: false},
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?expand=true", nil)
	withCart(t, req, cartsvc.New(
		cartsvc.Item{ProductID: "7", Quantity: 2},
		cartsvc.Item{ProductID: "9", Quantity: 1},
		cartsvc.Item{ProductID: "404", Quantity: 1},
	))
	rec := httptest.NewRecorder()

	CartFetch(testStore(), lookup, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []uint{7, 9, 404}, lookup.asked)

	var preview cartPreview
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &preview))
	require.Len(t, preview.Items, 3)
	assert.True(t, preview.Items[0].Available)
	assert.Equal(t, int64(300000), preview.Items[0].Amount)
	assert.Equal(t, int64(300000), preview.Total)
	assert.Equal(t, "3000.00", preview.TotalDisplay)
	assert.Equal(t, 4, preview.ItemCount)
	assert.Equal(t, []string{"9", "404"}, preview.Unavailable)
	assert.Empty(t, rec.Result().Cookies())
}
