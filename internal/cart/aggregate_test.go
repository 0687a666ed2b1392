package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func item(productID int64, price string, qty int, size string) Item {
	return Item{
		ProductID:    productID,
		Name:         "test product",
		Price:        decimal.RequireFromString(price),
		Quantity:     qty,
		SelectedSize: size,
	}
}

func TestAddCoalescesSameProductAndSize(t *testing.T) {
	var c Cart

	c.Add(item(1, "49.99", 1, "M"))
	c.Add(item(1, "49.99", 1, "M"))

	require.Len(t, c.Items, 1)
	require.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddKeepsDistinctSizesSeparate(t *testing.T) {
	var c Cart

	c.Add(item(1, "49.99", 1, "M"))
	c.Add(item(1, "49.99", 1, "L"))

	require.Len(t, c.Items, 2)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	var c Cart

	c.Add(item(1, "10.00", 0, "M"))

	require.Len(t, c.Items, 1)
	require.Equal(t, 1, c.Items[0].Quantity)
}

func TestSetQuantityRejectsBelowOne(t *testing.T) {
	var c Cart
	c.Add(item(1, "10.00", 3, "M"))

	require.False(t, c.SetQuantity(1, "M", 0))
	require.Equal(t, 3, c.Items[0].Quantity)

	require.False(t, c.SetQuantity(1, "M", -5))
	require.Equal(t, 3, c.Items[0].Quantity)
}

func TestSetQuantityUpdatesMatchingLine(t *testing.T) {
	var c Cart
	c.Add(item(1, "10.00", 1, "M"))

	require.True(t, c.SetQuantity(1, "M", 4))
	require.Equal(t, 4, c.Items[0].Quantity)

	require.False(t, c.SetQuantity(99, "M", 2))
}

func TestRemoveDropsOnlyMatchingLine(t *testing.T) {
	var c Cart
	c.Add(item(1, "10.00", 1, "M"))
	c.Add(item(1, "10.00", 1, "L"))
	c.Add(item(2, "20.00", 1, "M"))

	c.Remove(1, "M")

	require.Len(t, c.Items, 2)
	for _, it := range c.Items {
		require.False(t, it.ProductID == 1 && it.SelectedSize == "M")
	}
}

func TestTotalSumsPriceTimesQuantity(t *testing.T) {
	var c Cart
	c.Add(item(1, "49.99", 3, "M"))

	require.True(t, c.Total().Equal(decimal.RequireFromString("149.97")))

	c.Add(item(2, "0.01", 1, ""))
	require.True(t, c.Total().Equal(decimal.RequireFromString("149.98")))
}

func TestTotalOfEmptyCartIsZero(t *testing.T) {
	var c Cart
	require.True(t, c.Total().IsZero())
}

func TestMergeCoalescesQuantities(t *testing.T) {
	var mine, guest Cart
	mine.Add(item(1, "10.00", 2, "M"))
	guest.Add(item(1, "10.00", 3, "M"))
	guest.Add(item(2, "5.00", 1, "S"))

	mine.Merge(guest)

	require.Len(t, mine.Items, 2)
	require.Equal(t, 5, mine.Items[0].Quantity)
}

func TestClearEmptiesCart(t *testing.T) {
	var c Cart
	c.Add(item(1, "10.00", 2, "M"))

	c.Clear()

	require.Empty(t, c.Items)
	require.True(t, c.Total().IsZero())
}
