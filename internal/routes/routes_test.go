package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/demo"
	"github.com/sapasaja/bukuku-api/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return SetupRouter(&handlers.Handlers{Demo: demo.NewStore()})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), "body: %s", w.Body.String())
	}
	return w, payload
}

func login(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w, payload := doJSON(t, router, http.MethodPost, "/v1/auth/login", "",
		`{"email":"`+email+`","password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	data := payload["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	w, payload := doJSON(t, router, http.MethodGet, "/v1/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong!", payload["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	w, payload := doJSON(t, router, http.MethodPost, "/v1/auth/login", "",
		`{"email":"customer@bukuku.com","password":"bukan-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Password salah", payload["error"])
}

func TestPublicCatalog(t *testing.T) {
	router := newTestRouter(t)

	w, payload := doJSON(t, router, http.MethodGet, "/v1/books?search=atomic", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), payload["count"])

	w, payload = doJSON(t, router, http.MethodGet, "/v1/books/999", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Buku tidak ditemukan", payload["error"])

	w, _ = doJSON(t, router, http.MethodGet, "/v1/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/v1/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/v1/cart", "not-a-real-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "customer@bukuku.com")

	// 2x Laskar Pelangi + 1x Filosofi Teras = 248000, free shipping.
	w, _ := doJSON(t, router, http.MethodPost, "/v1/cart/items", token, `{"book_id":1,"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, router, http.MethodPost, "/v1/cart/items", token, `{"book_id":4,"quantity":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, payload := doJSON(t, router, http.MethodGet, "/v1/cart", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["totalItems"])
	assert.Equal(t, float64(248000), data["totalPrice"])
	assert.Equal(t, float64(0), data["shipping_cost"])
	assert.Equal(t, float64(248000), data["final_total"])

	checkout := `{"shipping":{"name":"Budi","phone":"0812","address":"Jl. Merdeka 1","city":"Jakarta","postal_code":"10110"}}`
	w, payload = doJSON(t, router, http.MethodPost, "/v1/checkout", token, checkout)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	order := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(248000), order["total_amount"])
	assert.Equal(t, "pending", order["status"])

	// The cart is empty afterwards, so a second checkout fails.
	w, payload = doJSON(t, router, http.MethodGet, "/v1/cart", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	data = payload["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["totalItems"])

	w, payload = doJSON(t, router, http.MethodPost, "/v1/checkout", token, checkout)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Keranjang kosong", payload["error"])
}

func TestCheckoutRejectsIncompleteShipping(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "customer@bukuku.com")

	w, _ := doJSON(t, router, http.MethodPost, "/v1/cart/items", token, `{"book_id":1,"quantity":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Missing city and postal code.
	w, _ = doJSON(t, router, http.MethodPost, "/v1/checkout", token,
		`{"shipping":{"name":"Budi","phone":"0812","address":"Jl. Merdeka 1"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutRejectsRemovedBookKeepsCart(t *testing.T) {
	router := newTestRouter(t)
	customerToken := login(t, router, "customer@bukuku.com")
	adminToken := login(t, router, "admin@bukuku.com")

	w, _ := doJSON(t, router, http.MethodPost, "/v1/cart/items", customerToken, `{"book_id":1,"quantity":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// The book leaves the catalog after the customer added it.
	w, _ = doJSON(t, router, http.MethodDelete, "/v1/admin/books/1", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	checkout := `{"shipping":{"name":"Budi","phone":"0812","address":"Jl. Merdeka 1","city":"Jakarta","postal_code":"10110"}}`
	w, payload := doJSON(t, router, http.MethodPost, "/v1/checkout", customerToken, checkout)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Buku dalam keranjang sudah tidak tersedia", payload["error"])

	// The line is still there, not silently dropped.
	w, payload = doJSON(t, router, http.MethodGet, "/v1/cart", customerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalItems"])
}

func TestAdminRoutesForbiddenForCustomer(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "customer@bukuku.com")

	w, _ := doJSON(t, router, http.MethodGet, "/v1/admin/orders", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin@bukuku.com")

	// Seed order 2 is pending; pending -> processing is legal.
	w, _ := doJSON(t, router, http.MethodPatch, "/v1/admin/orders/2/status", token, `{"status":"processing"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// processing -> delivered skips shipped.
	w, payload := doJSON(t, router, http.MethodPatch, "/v1/admin/orders/2/status", token, `{"status":"delivered"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Perubahan status tidak diizinkan", payload["error"])

	// Unknown status value.
	w, payload = doJSON(t, router, http.MethodPatch, "/v1/admin/orders/2/status", token, `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status tidak valid", payload["error"])

	// Unknown order.
	w, payload = doJSON(t, router, http.MethodPatch, "/v1/admin/orders/999/status", token, `{"status":"processing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pesanan tidak ditemukan", payload["error"])
}

func TestOrderStatusChangeNotifiesCustomer(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, "admin@bukuku.com")
	customerToken := login(t, router, "customer@bukuku.com")

	w, _ := doJSON(t, router, http.MethodPatch, "/v1/admin/orders/2/status", adminToken, `{"status":"processing"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, payload := doJSON(t, router, http.MethodGet, "/v1/notifications", customerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), payload["count"])

	notifications := payload["data"].([]interface{})
	first := notifications[0].(map[string]interface{})
	assert.Contains(t, first["message"], "processing")
}

func TestMyOrdersScopedToOwner(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "customer@bukuku.com")

	w, payload := doJSON(t, router, http.MethodGet, "/v1/orders", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), payload["count"])

	w, payload = doJSON(t, router, http.MethodGet, "/v1/orders?status=pending", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), payload["count"])

	// The admin has no orders of their own.
	adminToken := login(t, router, "admin@bukuku.com")
	w, payload = doJSON(t, router, http.MethodGet, "/v1/orders", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), payload["count"])

	w, _ = doJSON(t, router, http.MethodGet, "/v1/orders/2", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDashboardStats(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin@bukuku.com")

	w, payload := doJSON(t, router, http.MethodGet, "/v1/admin/dashboard-stats", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(6), data["total_books"])
	assert.Equal(t, float64(2), data["total_orders"])
	assert.Equal(t, float64(265000), data["total_revenue"])
}

func TestRegisterThenLogin(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Siti","email":"siti@example.com","password":"password"}`)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// Duplicate registration is rejected.
	w, payload := doJSON(t, router, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Siti Lagi","email":"siti@example.com","password":"password"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email sudah terdaftar", payload["error"])

	token := login(t, router, "siti@example.com")
	assert.NotEmpty(t, token)

	// A brand-new customer has an empty order history.
	w, payload = doJSON(t, router, http.MethodGet, "/v1/orders", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), payload["count"])
}
