package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

const productColumns = `id, name, price, description, image, category, sizes, rating, stock, created_at, updated_at`

func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	sizes := np.Sizes
	if len(sizes) == 0 {
		sizes = []string{"S", "M", "L", "XL"}
	}
	sizesJSON, err := json.Marshal(sizes)
	if err != nil {
		return Product{}, fmt.Errorf("marshal sizes: %w", err)
	}

	stock := np.Stock
	if stock == 0 {
		stock = 100
	}

	query := `
		INSERT INTO products (name, price, description, image, category, sizes, rating, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + productColumns

	row := c.db.QueryRowContext(ctx, query,
		np.Name, decimal.NewFromFloat(np.Price), np.Description, np.Image, np.Category,
		sizesJSON, np.Rating, stock)

	product, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (c *Conf) GetProductByID(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(c.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (c *Conf) UpdateProductInDB(ctx context.Context, id int64, np NewProduct) (Product, error) {
	sizesJSON, err := json.Marshal(np.Sizes)
	if err != nil {
		return Product{}, fmt.Errorf("marshal sizes: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, price = $2, description = $3, image = $4, category = $5,
		    sizes = $6, rating = $7, stock = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + productColumns

	row := c.db.QueryRowContext(ctx, query,
		np.Name, decimal.NewFromFloat(np.Price), np.Description, np.Image, np.Category,
		sizesJSON, np.Rating, np.Stock, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (c *Conf) DeleteProductFromDB(ctx context.Context, id int64) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
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

func (c *Conf) ListProductsFromDB(ctx context.Context, f ListFilter) ([]Product, error) {
	sortColumn := "name"
	switch f.Sort {
	case "name", "price", "rating", "created_at":
		sortColumn = f.Sort
	}
	direction := "ASC"
	if f.Order == "desc" {
		direction = "DESC"
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}

	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%' ESCAPE '\')
		  AND ($2 = '' OR category = $2)
		ORDER BY %s %s
		LIMIT $3 OFFSET $4`, sortColumn, direction)

	rows, err := c.db.QueryContext(ctx, query, escapeLike(f.Name), f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return list, nil
}

func (c *Conf) ListProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return c.ListProductsFromDB(ctx, ListFilter{Category: category, Limit: 100})
}

func (c *Conf) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied filter so a
// search for "100%" matches the literal string.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var sizesJSON []byte

	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Category,
		&sizesJSON, &p.Rating, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	if err := json.Unmarshal(sizesJSON, &p.Sizes); err != nil {
		return Product{}, fmt.Errorf("unmarshal sizes: %w", err)
	}
	return p, nil
}
