package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hussein221k/Ecommerce/internal/orders"
)

func validRequest() Request {
	return Request{
		Items: []orders.LineItem{
			{ProductID: 1, Name: "test product", Price: decimal.RequireFromString("49.99"), Quantity: 1, SelectedSize: "M"},
		},
		ShippingAddress: orders.ShippingAddress{
			FirstName: "Ahmed",
			Street:    "12 Tahrir St",
			City:      "Cairo",
			Country:   "Egypt",
			Phone:     "01012345678",
		},
		PaymentMethod: orders.MethodCOD,
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"01012345678", "01112345678", "01212345678", "01512345678"}
	for _, phone := range valid {
		require.True(t, ValidPhone(phone), phone)
	}

	invalid := []string{
		"0101234567",    // 10 digits
		"010123456789",  // 12 digits
		"01312345678",   // 013 prefix does not exist
		"01412345678",   // 014 prefix does not exist
		"02012345678",   // landline prefix
		"+201012345678", // country code form not accepted
		"010-1234-5678",
		"",
	}
	for _, phone := range invalid {
		require.False(t, ValidPhone(phone), phone)
	}
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	r := validRequest()
	require.NoError(t, r.Validate())
}

func TestValidateRejectsEmptyItems(t *testing.T) {
	r := validRequest()
	r.Items = nil
	require.ErrorIs(t, r.Validate(), ErrNoItems)
}

func TestValidateRejectsZeroQuantity(t *testing.T) {
	r := validRequest()
	r.Items[0].Quantity = 0
	require.ErrorIs(t, r.Validate(), ErrInvalidQuantity)
}

func TestValidateRejectsShortPhone(t *testing.T) {
	r := validRequest()
	r.ShippingAddress.Phone = "0101234567"
	require.ErrorIs(t, r.Validate(), ErrInvalidPhone)
}

func TestValidateChecksSecondaryPhoneWhenPresent(t *testing.T) {
	r := validRequest()
	r.ShippingAddress.SecondaryPhone = "12345"
	require.ErrorIs(t, r.Validate(), ErrInvalidPhone)

	r.ShippingAddress.SecondaryPhone = "01598765432"
	require.NoError(t, r.Validate())
}

func TestValidateRejectsMissingAddressFields(t *testing.T) {
	for _, strip := range []func(*Request){
		func(r *Request) { r.ShippingAddress.FirstName = "" },
		func(r *Request) { r.ShippingAddress.Street = "" },
		func(r *Request) { r.ShippingAddress.City = "" },
		func(r *Request) { r.ShippingAddress.Country = "" },
	} {
		r := validRequest()
		strip(&r)
		require.ErrorIs(t, r.Validate(), ErrMissingAddress)
	}
}

func TestValidateRejectsUnknownPaymentMethod(t *testing.T) {
	r := validRequest()
	r.PaymentMethod = "credit_card"
	require.ErrorIs(t, r.Validate(), ErrInvalidPayment)
}

func TestValidateWalletRequiresSenderAndProof(t *testing.T) {
	r := validRequest()
	r.PaymentMethod = orders.MethodVodafoneCash
	require.ErrorIs(t, r.Validate(), ErrMissingSenderNumber)

	r.WalletSenderNumber = "01012345678"
	require.ErrorIs(t, r.Validate(), ErrMissingProofImage)

	r.ProofImageURL = "https://cdn.example.com/proof.jpg"
	require.NoError(t, r.Validate())
}

func TestValidateBankTransferNeedsNoWalletFields(t *testing.T) {
	r := validRequest()
	r.PaymentMethod = orders.MethodBankTransfer
	require.NoError(t, r.Validate())
}

func TestNewOrderCarriesValidatedFields(t *testing.T) {
	r := validRequest()
	r.Notes = "leave at the door"

	no := r.NewOrder()
	require.Equal(t, r.Items, no.Items)
	require.Equal(t, r.ShippingAddress, no.ShippingAddress)
	require.Equal(t, orders.MethodCOD, no.PaymentMethod)
	require.Equal(t, "leave at the door", no.Notes)
}
