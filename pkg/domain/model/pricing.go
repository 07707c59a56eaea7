package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Country string

const (
	US Country = "US"
	UK Country = "UK"
	AU Country = "AU"
	NZ Country = "NZ"
	DE Country = "DE"
	IT Country = "IT"
	FR Country = "FR"
	CA Country = "CA"
	JP Country = "JP"
	IN Country = "IN"
)

var Countries = []Country{US, UK, AU, NZ, DE, IT, FR, CA, JP, IN}

func ParseCountry(s string) Country {
	return Country(strings.ToUpper(strings.TrimSpace(s)))
}

type Totals struct {
	Country       Country         `json:"country"`
	SubtotalCents int64           `json:"subtotalCents"`
	ShippingCents int64           `json:"shippingCents"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxCents      int64           `json:"taxCents"`
	TotalCents    int64           `json:"totalCents"`
}

// ProductBreakdown is the single-product financial view shown on a product page.
type ProductBreakdown struct {
	ProductID         string          `json:"productId"`
	Country           Country         `json:"country"`
	PriceCents        int64           `json:"priceCents"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	TaxCents          int64           `json:"taxCents"`
	DiscountCents     int64           `json:"discountCents"`
	MaterialCostCents int64           `json:"materialCostCents,omitempty"`
	TotalCents        int64           `json:"totalCents"`
}

// FormatCents renders cents as a decimal amount with two places, e.g. 29228 -> "292.28".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// CentsFromFloat converts a currency amount to cents, rounding half away from zero.
func CentsFromFloat(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
