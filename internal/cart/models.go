package cart

import "github.com/shopspring/decimal"

// Item is one cart line. Name, Price and Image are denormalized from the
// product record so guest carts can render without another lookup.
type Item struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Quantity     int             `json:"quantity"`
	SelectedSize string          `json:"selected_size,omitempty"`
}

type Response struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}
