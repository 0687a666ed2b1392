package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

// CreateOrder persists the order and its line-item snapshot in one
// transaction. An empty userID marks a guest order. The total is computed
// here from the snapshot and is immutable from then on.
func (c *Conf) CreateOrder(ctx context.Context, orderID string, userID string, no NewOrder) (Order, error) {
	if len(no.Items) == 0 {
		return Order{}, fmt.Errorf("order has no items")
	}

	order := Order{
		ID:              orderID,
		OrderNumber:     GenerateOrderNumber(),
		UserID:          userID,
		IsGuest:         userID == "",
		Items:           no.Items,
		TotalAmount:     ComputeTotal(no.Items),
		Status:          StatusPending,
		PaymentMethod:   no.PaymentMethod,
		PaymentStatus:   PaymentPending,
		ShippingAddress: no.ShippingAddress,
		Notes:           no.Notes,
	}

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryOrder := `
			INSERT INTO orders (id, order_number, user_id, is_guest, status, payment_method, payment_status,
				total_amount, ship_first_name, ship_last_name, ship_street, ship_city, ship_state,
				ship_zip_code, ship_country, ship_phone, ship_secondary_phone, ship_verified, notes,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		addr := order.ShippingAddress
		err := tx.QueryRowContext(ctx, queryOrder,
			order.ID, order.OrderNumber, nullableID(order.UserID), order.IsGuest,
			order.Status, order.PaymentMethod, order.PaymentStatus, order.TotalAmount,
			addr.FirstName, addr.LastName, addr.Street, addr.City, addr.State,
			addr.ZipCode, addr.Country, addr.Phone, addr.SecondaryPhone, addr.IsVerified,
			order.Notes,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		queryItem := `
			INSERT INTO order_items (order_id, product_id, name, price, quantity, selected_size, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`
		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx, queryItem,
				order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.SelectedSize); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (c *Conf) GetOrderByID(ctx context.Context, orderID string) (Order, error) {
	orders, err := c.queryOrders(ctx, `WHERE o.id = $1`, orderID)
	if err != nil {
		return Order{}, err
	}
	if len(orders) == 0 {
		return Order{}, ErrNotFound
	}
	return orders[0], nil
}

func (c *Conf) ListUserOrders(ctx context.Context, userID string) ([]Order, error) {
	return c.queryOrders(ctx, `WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
}

func (c *Conf) ListAllOrders(ctx context.Context) ([]Order, error) {
	return c.queryOrders(ctx, `ORDER BY o.created_at DESC`)
}

// StatusUpdate mutates the order lifecycle fields. Nil fields are left
// untouched; total and line items are never part of an update.
type StatusUpdate struct {
	Status        *string
	PaymentStatus *string
}

func (c *Conf) UpdateOrder(ctx context.Context, orderID string, upd StatusUpdate) (Order, error) {
	if upd.Status == nil && upd.PaymentStatus == nil {
		return Order{}, fmt.Errorf("nothing to update")
	}
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return Order{}, fmt.Errorf("invalid status: %s", *upd.Status)
	}
	if upd.PaymentStatus != nil && !ValidPaymentStatus(*upd.PaymentStatus) {
		return Order{}, fmt.Errorf("invalid payment status: %s", *upd.PaymentStatus)
	}

	query := `
		UPDATE orders
		SET status = COALESCE($1, status),
		    payment_status = COALESCE($2, payment_status),
		    updated_at = NOW()
		WHERE id = $3
	`
	result, err := c.db.ExecContext(ctx, query, upd.Status, upd.PaymentStatus, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}

	return c.GetOrderByID(ctx, orderID)
}

// CancelOrder lets the owning user set their order to Cancelled.
func (c *Conf) CancelOrder(ctx context.Context, orderID string, userID string) (Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`
	result, err := c.db.ExecContext(ctx, query, StatusCancelled, orderID, userID)
	if err != nil {
		return Order{}, fmt.Errorf("failed to cancel order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}

	return c.GetOrderByID(ctx, orderID)
}

func (c *Conf) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (c *Conf) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	if err := c.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("total revenue: %w", err)
	}
	return revenue, nil
}

func (c *Conf) queryOrders(ctx context.Context, clause string, args ...any) ([]Order, error) {
	query := `
		SELECT o.id, o.order_number, o.user_id, o.is_guest, o.status, o.payment_method,
		       o.payment_status, o.total_amount, o.ship_first_name, o.ship_last_name,
		       o.ship_street, o.ship_city, o.ship_state, o.ship_zip_code, o.ship_country,
		       o.ship_phone, o.ship_secondary_phone, o.ship_verified, o.notes,
		       o.created_at, o.updated_at
		FROM orders o ` + clause

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	index := make(map[string]int)
	for rows.Next() {
		var o Order
		var userID sql.NullString
		addr := &o.ShippingAddress
		err := rows.Scan(&o.ID, &o.OrderNumber, &userID, &o.IsGuest, &o.Status, &o.PaymentMethod,
			&o.PaymentStatus, &o.TotalAmount, &addr.FirstName, &addr.LastName,
			&addr.Street, &addr.City, &addr.State, &addr.ZipCode, &addr.Country,
			&addr.Phone, &addr.SecondaryPhone, &addr.IsVerified, &o.Notes,
			&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.UserID = userID.String
		index[o.ID] = len(list)
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	if err := c.attachItems(ctx, list, index); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Conf) attachItems(ctx context.Context, list []Order, index map[string]int) error {
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}

	// []string params arrive as text[]; the cast keeps uuid comparison valid.
	query := `
		SELECT order_id, product_id, name, price, quantity, selected_size
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY id
	`
	rows, err := c.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item LineItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price,
			&item.Quantity, &item.SelectedSize); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			list[i].Items = append(list[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}
	return nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
