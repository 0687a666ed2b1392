package products

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Sizes       []string        `json:"sizes"`
	Rating      float64         `json:"rating"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProduct is the admin-facing creation payload.
type NewProduct struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"min=0"`
	Description string   `json:"description" validate:"required"`
	Image       string   `json:"image" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Sizes       []string `json:"sizes"`
	Rating      float64  `json:"rating" validate:"min=0,max=5"`
	Stock       int      `json:"stock" validate:"min=0"`
}

// ListFilter narrows and pages ListProducts results.
type ListFilter struct {
	Name     string
	Category string
	Limit    int
	Offset   int
	Sort     string
	Order    string
}
