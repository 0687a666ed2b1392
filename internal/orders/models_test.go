package orders

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Price: decimal.RequireFromString("49.99"), Quantity: 3},
		{ProductID: 2, Price: decimal.RequireFromString("10.50"), Quantity: 2},
	}

	total := ComputeTotal(items)
	require.True(t, total.Equal(decimal.RequireFromString("170.97")), total.String())
}

func TestComputeTotalEmpty(t *testing.T) {
	require.True(t, ComputeTotal(nil).IsZero())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefused} {
		require.True(t, ValidStatus(s), s)
	}
	require.False(t, ValidStatus("pending")) // case sensitive
	require.False(t, ValidStatus("Returned"))
	require.False(t, ValidStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentPending, PaymentCompleted, PaymentFailed} {
		require.True(t, ValidPaymentStatus(s), s)
	}
	require.False(t, ValidPaymentStatus("Completed"))
	require.False(t, ValidPaymentStatus("refunded"))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, s := range []string{MethodCOD, MethodVodafoneCash, MethodBankTransfer} {
		require.True(t, ValidPaymentMethod(s), s)
	}
	require.False(t, ValidPaymentMethod("stripe"))
	require.False(t, ValidPaymentMethod(""))
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber()
	require.True(t, strings.HasPrefix(n, "ORD-"), n)
	require.Greater(t, len(n), len("ORD-"))
}
