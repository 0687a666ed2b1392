package cart

import "github.com/shopspring/decimal"

// Cart is the in-memory aggregate behind both guest carts and the merge
// endpoint. Lines are keyed by product id plus selected size: adding a
// product that is already present bumps the quantity instead of appending
// a duplicate line.
type Cart struct {
	Items []Item `json:"items"`
}

// Add inserts the product with quantity 1, or increments the quantity of
// the matching line.
func (c *Cart) Add(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && c.Items[i].SelectedSize == item.SelectedSize {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity overwrites the quantity of the matching line. Quantities
// below 1 are ignored and the prior quantity is kept.
func (c *Cart) SetQuantity(productID int64, selectedSize string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].SelectedSize == selectedSize {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Remove deletes the matching line unconditionally.
func (c *Cart) Remove(productID int64, selectedSize string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == productID && item.SelectedSize == selectedSize {
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Merge folds another cart into this one, coalescing matching lines by
// quantity sum. Used when a guest cart is adopted at login.
func (c *Cart) Merge(other Cart) {
	for _, item := range other.Items {
		c.Add(item)
	}
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
