package service

import (
	"github.com/shopspring/decimal"

	"storefront/pkg/domain/model"
)

const (
	FreeShippingThresholdCents int64 = 20000
	FlatShippingCents          int64 = 1500
)

var DefaultTaxRate = decimal.RequireFromString("0.0825")

// DefaultTaxRates holds the per-country sales tax / VAT rates.
var DefaultTaxRates = map[model.Country]decimal.Decimal{
	model.US: decimal.RequireFromString("0.0825"),
	model.UK: decimal.RequireFromString("0.20"),
	model.AU: decimal.RequireFromString("0.10"),
	model.NZ: decimal.RequireFromString("0.15"),
	model.DE: decimal.RequireFromString("0.19"),
	model.IT: decimal.RequireFromString("0.22"),
	model.FR: decimal.RequireFromString("0.20"),
	model.CA: decimal.RequireFromString("0.13"),
	model.JP: decimal.RequireFromString("0.10"),
	model.IN: decimal.RequireFromString("0.18"),
}

type PricingResolver interface {
	TaxRate(country model.Country) decimal.Decimal
	Resolve(subtotalCents int64, country model.Country) model.Totals
	ProductBreakdown(product model.Product, country model.Country) model.ProductBreakdown
}

func NewPricingResolver(rates map[model.Country]decimal.Decimal) PricingResolver {
	if rates == nil {
		rates = DefaultTaxRates
	}
	return &pricingResolver{rates: rates}
}

type pricingResolver struct {
	rates map[model.Country]decimal.Decimal
}

func (r *pricingResolver) TaxRate(country model.Country) decimal.Decimal {
	if rate, ok := r.rates[country]; ok {
		return rate
	}
	return DefaultTaxRate
}

func (r *pricingResolver) Resolve(subtotalCents int64, country model.Country) model.Totals {
	shipping := FlatShippingCents
	if subtotalCents > FreeShippingThresholdCents {
		shipping = 0
	}
	rate := r.TaxRate(country)
	tax := taxCents(subtotalCents, rate)

	return model.Totals{
		Country:       country,
		SubtotalCents: subtotalCents,
		ShippingCents: shipping,
		TaxRate:       rate,
		TaxCents:      tax,
		TotalCents:    subtotalCents + shipping + tax,
	}
}

func (r *pricingResolver) ProductBreakdown(product model.Product, country model.Country) model.ProductBreakdown {
	rate := r.TaxRate(country)
	tax := taxCents(product.PriceCents, rate)

	return model.ProductBreakdown{
		ProductID:         product.ID,
		Country:           country,
		PriceCents:        product.PriceCents,
		TaxRate:           rate,
		TaxCents:          tax,
		DiscountCents:     product.DiscountCents(),
		MaterialCostCents: product.MaterialCostCents,
		TotalCents:        product.PriceCents + tax,
	}
}

// taxCents rounds half away from zero to the nearest cent.
func taxCents(amountCents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amountCents).Mul(rate).Round(0).IntPart()
}
