package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hussein221k/Ecommerce/internal/products"
)

var ErrNotFound = errors.New("favorite not found")

type Favorite struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	Product   products.Product `json:"product"`
	CreatedAt time.Time        `json:"created_at"`
}

type Conf struct {
	db *sql.DB
	p  products.Conf
}

func NewConf(db *sql.DB, p products.Conf) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db, p: p}, nil
}

// AddFavorite marks a product as favorited. Adding an existing favorite is
// not an error.
func (c *Conf) AddFavorite(ctx context.Context, userID string, productID int64) error {
	if _, err := c.p.GetProductByID(ctx, productID); err != nil {
		return err
	}

	query := `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	if _, err := c.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (c *Conf) RemoveFavorite(ctx context.Context, userID string, productID int64) error {
	result, err := c.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Conf) ListFavorites(ctx context.Context, userID string) ([]Favorite, error) {
	query := `
		SELECT f.id, f.product_id, f.created_at
		FROM favorites f
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var list []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.ID, &fav.ProductID, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		list = append(list, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	for i := range list {
		product, err := c.p.GetProductByID(ctx, list[i].ProductID)
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				continue
			}
			return nil, err
		}
		list[i].Product = product
	}
	return list, nil
}

func (c *Conf) IsFavorite(ctx context.Context, userID string, productID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)`
	if err := c.db.QueryRowContext(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}
