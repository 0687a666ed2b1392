package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. The lifecycle is Pending -> Processing -> Shipped ->
// Delivered, with Cancelled and Refused as terminal alternatives. Admins may
// set any status from any other; only the value itself is validated.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusRefused    = "Refused"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const (
	MethodCOD          = "cod"
	MethodVodafoneCash = "vodafone_cash"
	MethodBankTransfer = "bank_transfer"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefused:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case MethodCOD, MethodVodafoneCash, MethodBankTransfer:
		return true
	}
	return false
}

// LineItem is a product snapshot captured at order time. Name and price are
// copied, not referenced, so later catalog edits never change the order.
type LineItem struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	SelectedSize string          `json:"selected_size,omitempty"`
}

type ShippingAddress struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
	IsVerified     bool   `json:"is_verified"`
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          string          `json:"user_id,omitempty"`
	IsGuest         bool            `json:"is_guest"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewOrder is the creation payload assembled by checkout.
type NewOrder struct {
	Items           []LineItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Notes           string
}

// ComputeTotal sums price times quantity over the submitted snapshot. The
// result is stored on the order and never recomputed afterwards.
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
