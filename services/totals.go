package services

import (
	"storefront/models"

	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingFee       = decimal.RequireFromString("5.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

// ComputeTotals derives shipping, tax and total from a cart subtotal.
// Shipping is free strictly above the threshold; tax is rounded to cents.
func ComputeTotals(subtotal decimal.Decimal) models.OrderTotals {
	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	return models.OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
