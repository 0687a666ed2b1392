package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hussein221k/Ecommerce/internal/config"
	"github.com/hussein221k/Ecommerce/internal/stores/postgres"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

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
	return db
}

func seedUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO users (id, name, phone, password_hash) VALUES ($1, $2, $3, 'x')`,
		id, "test user", id)
	require.NoError(t, err)
	return id
}

func testOrder() NewOrder {
	return NewOrder{
		Items: []LineItem{
			{ProductID: 1, Name: "classic tee", Price: decimal.RequireFromString("49.99"), Quantity: 3, SelectedSize: "M"},
		},
		ShippingAddress: ShippingAddress{
			FirstName: "Ahmed",
			Street:    "12 Tahrir St",
			City:      "Cairo",
			Country:   "Egypt",
			Phone:     "01012345678",
		},
		PaymentMethod: MethodCOD,
	}
}

func TestOrderLifecycle(t *testing.T) {
	db := setupTestDB(t)
	c, err := NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := seedUser(t, db)

	order, err := c.CreateOrder(ctx, uuid.NewString(), userID, testOrder())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.False(t, order.IsGuest)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("149.97")), order.TotalAmount.String())

	// Fetch by id returns the stored snapshot, line items included.
	fetched, err := c.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	require.Equal(t, "classic tee", fetched.Items[0].Name)
	require.Equal(t, 3, fetched.Items[0].Quantity)
	require.True(t, fetched.Items[0].Price.Equal(decimal.RequireFromString("49.99")))
	require.True(t, fetched.TotalAmount.Equal(order.TotalAmount))
	require.Equal(t, userID, fetched.UserID)

	processing := StatusProcessing
	completed := PaymentCompleted
	updated, err := c.UpdateOrder(ctx, order.ID, StatusUpdate{Status: &processing, PaymentStatus: &completed})
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, updated.Status)
	require.Equal(t, PaymentCompleted, updated.PaymentStatus)
	require.Len(t, updated.Items, 1)

	// A status update never touches the stored total.
	require.True(t, updated.TotalAmount.Equal(order.TotalAmount))
}

func TestOrderListingsAttachItems(t *testing.T) {
	db := setupTestDB(t)
	c, err := NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := seedUser(t, db)

	first, err := c.CreateOrder(ctx, uuid.NewString(), userID, testOrder())
	require.NoError(t, err)

	guestOrder := testOrder()
	guestOrder.Items = append(guestOrder.Items,
		LineItem{ProductID: 2, Name: "hoodie", Price: decimal.RequireFromString("89.50"), Quantity: 1, SelectedSize: "L"})
	second, err := c.CreateOrder(ctx, uuid.NewString(), "", guestOrder)
	require.NoError(t, err)
	require.True(t, second.IsGuest)

	all, err := c.ListAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, o := range all {
		require.NotEmpty(t, o.Items, o.ID)
	}

	mine, err := c.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, first.ID, mine[0].ID)
	require.Len(t, mine[0].Items, 1)
}

func TestCancelOrderIsOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	c, err := NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := seedUser(t, db)
	stranger := seedUser(t, db)

	order, err := c.CreateOrder(ctx, uuid.NewString(), owner, testOrder())
	require.NoError(t, err)

	_, err = c.CancelOrder(ctx, order.ID, stranger)
	require.ErrorIs(t, err, ErrNotFound)

	cancelled, err := c.CancelOrder(ctx, order.ID, owner)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
}

func TestGetOrderByIDUnknown(t *testing.T) {
	db := setupTestDB(t)
	c, err := NewConf(db)
	require.NoError(t, err)

	_, err = c.GetOrderByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}
