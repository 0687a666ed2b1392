// Package content stores admin-editable content blocks, such as the
// bilingual about-page copy, as JSON documents keyed by name.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("content block not found")

type Block struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
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

func (c *Conf) GetBlock(ctx context.Context, key string) (Block, error) {
	var block Block
	block.Key = key

	query := `SELECT value, updated_at FROM content_blocks WHERE key = $1`
	err := c.db.QueryRowContext(ctx, query, key).Scan(&block.Value, &block.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Block{}, ErrNotFound
		}
		return Block{}, fmt.Errorf("get content block: %w", err)
	}
	return block, nil
}

func (c *Conf) PutBlock(ctx context.Context, key string, value json.RawMessage) (Block, error) {
	if !json.Valid(value) {
		return Block{}, fmt.Errorf("value is not valid JSON")
	}

	block := Block{Key: key, Value: value}
	query := `
		INSERT INTO content_blocks (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING updated_at
	`
	if err := c.db.QueryRowContext(ctx, query, key, []byte(value)).Scan(&block.UpdatedAt); err != nil {
		return Block{}, fmt.Errorf("store content block: %w", err)
	}
	return block, nil
}
