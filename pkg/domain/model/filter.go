package model

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrNegativePrice    = errors.New("price bounds cannot be negative")
	ErrUnknownSizeChart = errors.New("unknown size region")
)

const CategoryAll = "all"

// StandardCategories are the storefront departments, whether or not the catalog stocks them.
var StandardCategories = []string{"men", "women", "kids", "accessories", "skate", "electronics", "home", "grocery"}

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortFeatured:
		return SortFeatured, nil
	case SortPriceAsc, SortPriceDesc:
		return SortKey(s), nil
	}
	return "", ErrUnknownSortKey
}

type FilterCriteria struct {
	Category      string `json:"category,omitempty"`
	Color         string `json:"color,omitempty"`
	MinPriceCents int64  `json:"minPriceCents,omitempty"`
	MaxPriceCents *int64 `json:"maxPriceCents,omitempty"`
	SaleOnly      bool   `json:"saleOnly,omitempty"`
}

// WithCategory selects a category and clears the sale-only facet.
func (f FilterCriteria) WithCategory(category string) FilterCriteria {
	f.Category = category
	f.SaleOnly = false
	return f
}

// WithSaleOnly selects the sale facet and clears the category.
func (f FilterCriteria) WithSaleOnly() FilterCriteria {
	f.Category = ""
	f.SaleOnly = true
	return f
}

func (f FilterCriteria) WithMaxPrice(cents int64) FilterCriteria {
	f.MaxPriceCents = &cents
	return f
}

func (f FilterCriteria) AllCategories() bool {
	return f.Category == "" || strings.EqualFold(f.Category, CategoryAll)
}

func (f FilterCriteria) ceiling() int64 {
	if f.MaxPriceCents == nil {
		return math.MaxInt64
	}
	return *f.MaxPriceCents
}

// Matches is the conjunction of every active facet.
func (f FilterCriteria) Matches(p Product) bool {
	if !f.AllCategories() && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.SaleOnly && !p.OnSale() {
		return false
	}
	if f.Color != "" && !p.HasColor(f.Color) {
		return false
	}
	return p.PriceCents >= f.MinPriceCents && p.PriceCents <= f.ceiling()
}

func (f FilterCriteria) Validate(catalog *Catalog) error {
	if f.MinPriceCents < 0 || (f.MaxPriceCents != nil && *f.MaxPriceCents < 0) {
		return ErrNegativePrice
	}
	if f.AllCategories() {
		return nil
	}
	if catalog != nil && catalog.HasCategory(f.Category) {
		return nil
	}
	for _, c := range StandardCategories {
		if strings.EqualFold(c, f.Category) {
			return nil
		}
	}
	return ErrUnknownCategory
}

type SizeRegion string

const (
	RegionUS SizeRegion = "US"
	RegionUK SizeRegion = "UK"
	RegionEU SizeRegion = "EU"
)

func ParseSizeRegion(s string) (SizeRegion, error) {
	switch r := SizeRegion(strings.ToUpper(s)); r {
	case "":
		return RegionUS, nil
	case RegionUS, RegionUK, RegionEU:
		return r, nil
	}
	return "", ErrUnknownSizeChart
}
