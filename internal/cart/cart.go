package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrItemNotFound      = errors.New("item not in cart")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// GetCart returns the user's cart with denormalized product fields and a
// freshly computed total. A cart row is created on first access.
func (c *Conf) GetCart(ctx context.Context, userID string) (Response, error) {
	var items []Item

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		queryItems := `
			SELECT ci.product_id, p.name, p.price, p.image, ci.quantity, ci.selected_size
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.cart_id = $1
			ORDER BY ci.id
		`
		rows, err := tx.QueryContext(ctx, queryItems, cartID)
		if err != nil {
			return fmt.Errorf("failed to query cart items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item Item
			if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Image,
				&item.Quantity, &item.SelectedSize); err != nil {
				return fmt.Errorf("failed to scan cart item: %w", err)
			}
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating cart items: %w", err)
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	agg := Cart{Items: items}
	return Response{Items: items, Total: agg.Total()}, nil
}

// AddItem upserts a cart line. The same product id and size increments the
// existing quantity; a different size is its own line.
func (c *Conf) AddItem(ctx context.Context, userID string, productID int64, quantity int, selectedSize string) error {
	if quantity < 1 {
		quantity = 1
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var stock int
		err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to query product: %w", err)
		}

		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		var cartItemID int64
		var existingQuantity int
		queryCartItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND product_id = $2 AND selected_size = $3
		`
		err = tx.QueryRowContext(ctx, queryCartItem, cartID, productID, selectedSize).
			Scan(&cartItemID, &existingQuantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if quantity > stock {
					return ErrInsufficientStock
				}
				queryAddCartItem := `
					INSERT INTO cart_items (cart_id, product_id, quantity, selected_size, created_at, updated_at)
					VALUES ($1, $2, $3, $4, NOW(), NOW())
				`
				if _, err := tx.ExecContext(ctx, queryAddCartItem, cartID, productID, quantity, selectedSize); err != nil {
					return fmt.Errorf("failed to add product to cart: %w", err)
				}
				return nil
			}
			return fmt.Errorf("failed to query cart items: %w", err)
		}

		newQuantity := existingQuantity + quantity
		if newQuantity > stock {
			return ErrInsufficientStock
		}

		queryUpdateCartItem := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdateCartItem, newQuantity, cartItemID); err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		return nil
	})
}

// UpdateItemQuantity overwrites the quantity of an existing line. Callers
// must reject quantities below one before getting here.
func (c *Conf) UpdateItemQuantity(ctx context.Context, userID string, productID int64, selectedSize string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		query := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_id = $3 AND selected_size = $4
		`
		result, err := tx.ExecContext(ctx, query, quantity, cartID, productID, selectedSize)
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}

// RemoveItem deletes the matching line. Removing an absent line is not an
// error.
func (c *Conf) RemoveItem(ctx context.Context, userID string, productID int64, selectedSize string) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2 AND selected_size = $3`
		if _, err := tx.ExecContext(ctx, query, cartID, productID, selectedSize); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

func (c *Conf) ClearCart(ctx context.Context, userID string) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// MergeItems folds a guest-session cart into the user's server cart,
// coalescing matching lines by quantity sum.
func (c *Conf) MergeItems(ctx context.Context, userID string, items []Item) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO cart_items (cart_id, product_id, quantity, selected_size, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (cart_id, product_id, selected_size)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		`
		for _, item := range items {
			if item.Quantity < 1 {
				continue
			}
			if _, err := tx.ExecContext(ctx, query, cartID, item.ProductID, item.Quantity, item.SelectedSize); err != nil {
				return fmt.Errorf("failed to merge cart item: %w", err)
			}
		}
		return nil
	})
}

// GetGuestCart loads the JSON blob stored for an anonymous session. An
// unknown guest id yields an empty cart.
func (c *Conf) GetGuestCart(ctx context.Context, guestID string) (Cart, error) {
	var itemsJSON []byte
	err := c.db.QueryRowContext(ctx, `SELECT items FROM guest_carts WHERE guest_id = $1`, guestID).Scan(&itemsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("failed to query guest cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return Cart{}, fmt.Errorf("failed to unmarshal guest cart: %w", err)
	}
	return Cart{Items: items}, nil
}

// PutGuestCart overwrites the stored blob for an anonymous session.
func (c *Conf) PutGuestCart(ctx context.Context, guestID string, crt Cart) error {
	items := crt.Items
	if items == nil {
		items = []Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart: %w", err)
	}

	query := `
		INSERT INTO guest_carts (guest_id, items, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (guest_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()
	`
	if _, err := c.db.ExecContext(ctx, query, guestID, itemsJSON); err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}
	return nil
}

// DeleteGuestCart drops the blob once a guest cart has been merged.
func (c *Conf) DeleteGuestCart(ctx context.Context, guestID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM guest_carts WHERE guest_id = $1`, guestID); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}

func findOrCreateCart(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	var cartID int64
	queryCart := `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`
	err := tx.QueryRowContext(ctx, queryCart, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			queryCreateCart := `
				INSERT INTO carts (user_id, created_at, updated_at)
				VALUES ($1, NOW(), NOW())
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, queryCreateCart, userID).Scan(&cartID); err != nil {
				return 0, fmt.Errorf("failed to create new cart: %w", err)
			}
			return cartID, nil
		}
		return 0, fmt.Errorf("failed to query cart: %w", err)
	}
	return cartID, nil
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
