package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("review not found")

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    string    `json:"user_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NewReview struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertReview stores a review. An empty userID records an anonymous review.
func (c *Conf) InsertReview(ctx context.Context, userID string, nr NewReview) (Review, error) {
	review := Review{
		ProductID: nr.ProductID,
		UserID:    userID,
		Rating:    nr.Rating,
		Comment:   nr.Comment,
	}

	var user any
	if userID != "" {
		user = userID
	}

	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err := c.db.QueryRowContext(ctx, query, nr.ProductID, user, nr.Rating, nr.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

func (c *Conf) ListReviewsByProduct(ctx context.Context, productID int64) ([]Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var list []Review
	for rows.Next() {
		var review Review
		var userID sql.NullString
		if err := rows.Scan(&review.ID, &review.ProductID, &userID, &review.Rating,
			&review.Comment, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		review.UserID = userID.String
		list = append(list, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return list, nil
}

func (c *Conf) GetReviewByID(ctx context.Context, id int64) (Review, error) {
	var review Review
	var userID sql.NullString

	query := `SELECT id, product_id, user_id, rating, comment, created_at FROM reviews WHERE id = $1`
	err := c.db.QueryRowContext(ctx, query, id).
		Scan(&review.ID, &review.ProductID, &userID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	review.UserID = userID.String
	return review, nil
}

func (c *Conf) DeleteReview(ctx context.Context, id int64) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
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
