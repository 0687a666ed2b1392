package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/cart"
	"github.com/hussein221k/Ecommerce/internal/config"
	"github.com/hussein221k/Ecommerce/internal/content"
	"github.com/hussein221k/Ecommerce/internal/favorites"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/internal/payments"
	"github.com/hussein221k/Ecommerce/internal/products"
	"github.com/hussein221k/Ecommerce/internal/reviews"
	"github.com/hussein221k/Ecommerce/internal/stores/postgres"
	"github.com/hussein221k/Ecommerce/internal/users"
)

// integrationRouter wires the full API against a throwaway postgres
// container, the same way cmd/api/main.go assembles it in production.
func integrationRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := postgres.OpenDB(&config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.RunMigrations(db))

	t.Cleanup(func() {
		db.Close()
		container.Terminate(ctx)
	})

	keys, err := auth.NewKeys("test-secret", time.Hour)
	require.NoError(t, err)

	p, err := products.NewConf(db)
	require.NoError(t, err)
	crt, err := cart.NewConf(db)
	require.NoError(t, err)
	o, err := orders.NewConf(db)
	require.NoError(t, err)
	pay, err := payments.NewConf(db)
	require.NoError(t, err)
	rev, err := reviews.NewConf(db)
	require.NoError(t, err)
	fav, err := favorites.NewConf(db, p)
	require.NoError(t, err)
	u, err := users.NewConf(db)
	require.NoError(t, err)
	cnt, err := content.NewConf(db)
	require.NoError(t, err)

	r := API(Deps{
		Products:  p,
		Cart:      crt,
		Orders:    o,
		Payments:  pay,
		Reviews:   rev,
		Favorites: fav,
		Users:     u,
		Content:   cnt,
		Auth:      keys,
		Admin: config.AdminConfig{
			Email:    "admin@example.com",
			Password: "super-secret",
		},
	})
	return r, db
}

func registerTestUser(t *testing.T, r *gin.Engine, phone string) string {
	t.Helper()

	payload := fmt.Sprintf(`{"name": "Ahmed Hassan", "phone": %q, "password": "secret1"}`, phone)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func seedProductRow(t *testing.T, db *sql.DB, name, price string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO products (name, price, description, image, category)
		 VALUES ($1, $2, 'test product', 'https://cdn.example.com/p.jpg', 'tees')
		 RETURNING id`,
		name, price).Scan(&id)
	require.NoError(t, err)
	return id
}

func doJSON(r *gin.Engine, method, path, token, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if payload != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func cartItemCount(t *testing.T, r *gin.Engine, token string) int {
	t.Helper()
	w := doJSON(r, http.MethodGet, "/api/cart", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return len(body.Data.Items)
}

func checkoutPayload(productID int64, fromCart bool) string {
	return fmt.Sprintf(`{
		"items": [{"product_id": %d, "name": "classic tee", "price": "49.99", "quantity": 1, "selected_size": "M"}],
		"shipping_address": {"first_name": "Ahmed", "street": "12 Tahrir St", "city": "Cairo", "country": "Egypt", "phone": "01012345678"},
		"payment_method": "cod",
		"from_cart": %t
	}`, productID, fromCart)
}

func TestBuyNowCheckoutKeepsCart(t *testing.T) {
	r, db := integrationRouter(t)
	token := registerTestUser(t, r, "01012345678")
	productID := seedProductRow(t, db, "classic tee", "49.99")

	addPayload := fmt.Sprintf(`{"product_id": %d, "quantity": 2, "selected_size": "M"}`, productID)
	w := doJSON(r, http.MethodPost, "/api/cart/add", token, addPayload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, 1, cartItemCount(t, r, token))

	// A buy-now purchase for a different product must not touch the cart.
	w = doJSON(r, http.MethodPost, "/api/checkout", token, checkoutPayload(productID, false))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, 1, cartItemCount(t, r, token))

	// A checkout assembled from the cart empties it.
	w = doJSON(r, http.MethodPost, "/api/checkout", token, checkoutPayload(productID, true))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, 0, cartItemCount(t, r, token))
}

func TestCheckoutThenFetchOrder(t *testing.T) {
	r, db := integrationRouter(t)
	token := registerTestUser(t, r, "01098765432")
	productID := seedProductRow(t, db, "hoodie", "89.50")

	w := doJSON(r, http.MethodPost, "/api/checkout", token, checkoutPayload(productID, false))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID          string `json:"id"`
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	require.True(t, strings.HasPrefix(created.Data.OrderNumber, "ORD-"))

	w = doJSON(r, http.MethodGet, "/api/orders/"+created.Data.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Items  []struct {
				ProductID int64 `json:"product_id"`
				Quantity  int   `json:"quantity"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, created.Data.ID, fetched.Data.ID)
	require.Equal(t, orders.StatusPending, fetched.Data.Status)
	require.Len(t, fetched.Data.Items, 1)
	require.Equal(t, productID, fetched.Data.Items[0].ProductID)
}

func TestBankTransferEvidenceCompletesPayment(t *testing.T) {
	r, db := integrationRouter(t)
	token := registerTestUser(t, r, "01123456789")
	productID := seedProductRow(t, db, "classic tee", "49.99")

	payload := fmt.Sprintf(`{
		"items": [{"product_id": %d, "name": "classic tee", "price": "49.99", "quantity": 1, "selected_size": "M"}],
		"shipping_address": {"first_name": "Ahmed", "street": "12 Tahrir St", "city": "Cairo", "country": "Egypt", "phone": "01123456789"},
		"payment_method": "bank_transfer"
	}`, productID)
	w := doJSON(r, http.MethodPost, "/api/checkout", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	evidence := fmt.Sprintf(`{"order_id": %q, "proof_url": "https://cdn.example.com/receipt.jpg"}`, created.Data.ID)
	w = doJSON(r, http.MethodPost, "/api/payments/bank-transfer", token, evidence)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/orders/"+created.Data.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched struct {
		Data struct {
			PaymentStatus string `json:"payment_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, orders.PaymentCompleted, fetched.Data.PaymentStatus)

	// A second submission for the same order is rejected.
	w = doJSON(r, http.MethodPost, "/api/payments/bank-transfer", token, evidence)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}
