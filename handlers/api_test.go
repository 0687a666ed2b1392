package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/config"
)

func testRouter(t *testing.T) (*gin.Engine, *auth.Keys) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys, err := auth.NewKeys("test-secret", time.Hour)
	require.NoError(t, err)

	r := API(Deps{
		Auth: keys,
		Admin: config.AdminConfig{
			Email:    "admin@example.com",
			Password: "super-secret",
		},
	})
	return r, keys
}

func TestHealthRoute(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, "Server is running", body["message"])
}

func TestCartRequiresToken(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRouteRejectsUserRole(t *testing.T) {
	r, keys := testRouter(t)

	token, err := keys.GenerateToken("user-123", auth.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/admin/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminLogin(t *testing.T) {
	r, keys := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@example.com","password":"super-secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, auth.RoleAdmin, body.Data.Role)

	claims, err := keys.VerifyToken(body.Data.Token)
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutRejectsInvalidPhone(t *testing.T) {
	r, _ := testRouter(t)

	payload := `{
		"items": [{"product_id": 1, "name": "tee", "price": "49.99", "quantity": 1}],
		"shipping_address": {"first_name": "Ahmed", "street": "12 Tahrir St", "city": "Cairo", "country": "Egypt", "phone": "12345"},
		"payment_method": "cod"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "phone")
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	r, _ := testRouter(t)

	payload := `{
		"items": [],
		"shipping_address": {"first_name": "Ahmed", "street": "12 Tahrir St", "city": "Cairo", "country": "Egypt", "phone": "01012345678"},
		"payment_method": "cod"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestCartRequiresHeader(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart/guest", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
