package services

import (
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShipping(t *testing.T) {
	v := NewFormValidator()

	tests := []struct {
		name   string
		modify func(*models.ShippingDetails)
		field  string
		msg    string
	}{
		{name: "Valid", modify: func(*models.ShippingDetails) {}},
		{name: "MissingFirstName", modify: func(s *models.ShippingDetails) { s.FirstName = "" }, field: "first_name", msg: "Please fill in your first name"},
		{name: "BadEmail", modify: func(s *models.ShippingDetails) { s.Email = "ada@example" }, field: "email", msg: "Please enter a valid email address"},
		{name: "EmailWithoutAt", modify: func(s *models.ShippingDetails) { s.Email = "ada.example.com" }, field: "email", msg: "Please enter a valid email address"},
		{name: "PhoneLeadingZero", modify: func(s *models.ShippingDetails) { s.Phone = "0123456" }, field: "phone", msg: "Please enter a valid phone number"},
		{name: "PhoneTooLong", modify: func(s *models.ShippingDetails) { s.Phone = "12345678901234567" }, field: "phone", msg: "Please enter a valid phone number"},
		{name: "MissingZip", modify: func(s *models.ShippingDetails) { s.ZipCode = "" }, field: "zip_code", msg: "Please fill in your zip code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipping := validShipping()
			tt.modify(&shipping)

			err := validateForm(v, shipping.Normalize())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			verr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, verr.Fields[tt.field])
		})
	}
}

func TestValidatePayment(t *testing.T) {
	v := NewFormValidator()

	tests := []struct {
		name   string
		modify func(*models.PaymentDetails)
		field  string
		msg    string
	}{
		{name: "Valid", modify: func(*models.PaymentDetails) {}},
		{name: "ThirteenDigits", modify: func(p *models.PaymentDetails) { p.CardNumber = "4222222222222" }},
		{name: "ShortCard", modify: func(p *models.PaymentDetails) { p.CardNumber = "4242 4242 4242" }, field: "card_number", msg: "Please enter a valid card number"},
		{name: "LettersInCard", modify: func(p *models.PaymentDetails) { p.CardNumber = "4242 4242 4242 42ab" }, field: "card_number", msg: "Please enter a valid card number"},
		{name: "MissingHolder", modify: func(p *models.PaymentDetails) { p.CardHolder = "" }, field: "card_holder", msg: "Please fill in your card holder"},
		{name: "BadExpiry", modify: func(p *models.PaymentDetails) { p.ExpiryDate = "1230" }, field: "expiry_date", msg: "Please enter a valid expiry date (MM/YY)"},
		{name: "ShortCVV", modify: func(p *models.PaymentDetails) { p.CVV = "12" }, field: "cvv", msg: "Please enter a valid CVV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := validPayment()
			tt.modify(&payment)

			err := validateForm(v, payment.Normalize())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			verr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, verr.Fields[tt.field])
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := fieldError("email", "Please enter a valid email address")
	assert.Equal(t, "Please enter a valid email address", single.Error())

	multi := &ValidationError{Fields: map[string]string{"zip_code": "b", "city": "a"}}
	assert.Equal(t, "a; b", multi.Error())
}
