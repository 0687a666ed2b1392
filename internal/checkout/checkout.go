// Package checkout validates a checkout submission and assembles the order
// payload. All checks run before any store access: a rejected submission
// performs no writes.
package checkout

import (
	"errors"
	"regexp"

	"github.com/hussein221k/Ecommerce/internal/orders"
)

// Egyptian mobile numbers: exactly 11 digits, prefix 010/011/012/015.
var phonePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

var (
	ErrNoItems             = errors.New("at least one item is required")
	ErrInvalidQuantity     = errors.New("item quantity must be at least 1")
	ErrInvalidPhone        = errors.New("phone must be 11 digits starting with 010, 011, 012 or 015")
	ErrInvalidPayment      = errors.New("unsupported payment method")
	ErrMissingSenderNumber = errors.New("wallet sender number is required for vodafone cash")
	ErrMissingProofImage   = errors.New("transfer proof image is required for vodafone cash")
	ErrMissingAddress      = errors.New("name, street, city and country are required")
)

type Request struct {
	Items              []orders.LineItem      `json:"items"`
	ShippingAddress    orders.ShippingAddress `json:"shipping_address"`
	PaymentMethod      string                 `json:"payment_method"`
	WalletSenderNumber string                 `json:"wallet_sender_number,omitempty"`
	ProofImageURL      string                 `json:"proof_image_url,omitempty"`
	Notes              string                 `json:"notes,omitempty"`

	// FromCart marks a submission assembled from the stored cart, as opposed
	// to a buy-now single-product purchase. Only a cart checkout empties the
	// cart afterwards.
	FromCart bool `json:"from_cart,omitempty"`
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Validate checks the submission. The first failure is returned; the
// handler surfaces it as an inline warning without touching the stores.
func (r *Request) Validate() error {
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}

	if !ValidPhone(r.ShippingAddress.Phone) {
		return ErrInvalidPhone
	}
	if r.ShippingAddress.SecondaryPhone != "" && !ValidPhone(r.ShippingAddress.SecondaryPhone) {
		return ErrInvalidPhone
	}

	if r.ShippingAddress.FirstName == "" || r.ShippingAddress.Street == "" ||
		r.ShippingAddress.City == "" || r.ShippingAddress.Country == "" {
		return ErrMissingAddress
	}

	if !orders.ValidPaymentMethod(r.PaymentMethod) {
		return ErrInvalidPayment
	}

	if r.PaymentMethod == orders.MethodVodafoneCash {
		if !ValidPhone(r.WalletSenderNumber) {
			return ErrMissingSenderNumber
		}
		if r.ProofImageURL == "" {
			return ErrMissingProofImage
		}
	}

	return nil
}

// NewOrder converts a validated request into the order-creation payload.
func (r *Request) NewOrder() orders.NewOrder {
	return orders.NewOrder{
		Items:           r.Items,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
	}
}
