package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ShippingDetails struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,looseemail"`
	Phone     string `json:"phone" validate:"required,phone"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country"`
}

func (s ShippingDetails) Normalize() ShippingDetails {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.Country = strings.TrimSpace(s.Country)
	if s.Country == "" {
		s.Country = "US"
	}
	return s
}

type PaymentDetails struct {
	CardNumber string `json:"card_number" validate:"required,cardnumber"`
	CardHolder string `json:"card_holder" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,min=3"`
}

func (p PaymentDetails) Normalize() PaymentDetails {
	p.CardNumber = strings.TrimSpace(p.CardNumber)
	p.CardHolder = strings.TrimSpace(p.CardHolder)
	p.ExpiryDate = strings.TrimSpace(p.ExpiryDate)
	p.CVV = strings.TrimSpace(p.CVV)
	return p
}

// Masked hides everything but the last four card digits and drops the CVV.
func (p PaymentDetails) Masked() PaymentDetails {
	digits := strings.Join(strings.Fields(p.CardNumber), "")
	if len(digits) > 4 {
		digits = strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
	}
	p.CardNumber = digits
	if p.CVV != "" {
		p.CVV = "***"
	}
	return p
}

type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type PaymentRequest struct {
	Payment PaymentDetails
	Amount  decimal.Decimal
}

type PaymentResult struct {
	Success       bool            `json:"success"`
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

type OrderConfirmation struct {
	PaymentResult
	Items    []CartItem      `json:"items"`
	Shipping ShippingDetails `json:"shipping"`
	Totals   OrderTotals     `json:"totals"`
}
