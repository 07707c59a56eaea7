package service

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"time"

	"storefront/pkg/domain/model"
)

const NewArrivalsLimit = 5

type ProductView struct {
	Product      model.Product          `json:"product"`
	IsNew        bool                   `json:"isNew"`
	OnSale       bool                   `json:"onSale"`
	Breakdown    model.ProductBreakdown `json:"breakdown"`
	SizeRegion   model.SizeRegion       `json:"sizeRegion"`
	DisplaySizes []model.Size           `json:"displaySizes"`
}

type CatalogService interface {
	Browse(criteria model.FilterCriteria, sortKey model.SortKey) ([]model.Product, error)
	NewArrivals(limit int) []model.Product
	ViewProduct(productID string, country model.Country, region model.SizeRegion) (*ProductView, error)
	Find(productID string) (model.Product, error)
	Catalog() *model.Catalog
}

func NewCatalogService(catalog *model.Catalog, pricing PricingResolver, now func() time.Time) CatalogService {
	if now == nil {
		now = time.Now
	}
	return &catalogService{catalog: catalog, pricing: pricing, now: now}
}

type catalogService struct {
	catalog *model.Catalog
	pricing PricingResolver
	now     func() time.Time
}

func (s *catalogService) Browse(criteria model.FilterCriteria, sortKey model.SortKey) ([]model.Product, error) {
	if err := criteria.Validate(s.catalog); err != nil {
		return nil, err
	}
	return ApplyFilter(s.catalog.Products(), criteria, sortKey)
}

func (s *catalogService) NewArrivals(limit int) []model.Product {
	return NewArrivals(s.catalog.Products(), s.now(), limit)
}

func (s *catalogService) ViewProduct(productID string, country model.Country, region model.SizeRegion) (*ProductView, error) {
	product, err := s.catalog.Find(productID)
	if err != nil {
		return nil, err
	}

	sizes := make([]model.Size, len(product.Sizes))
	for i, size := range product.Sizes {
		sizes[i] = ConvertSize(size, region)
	}

	return &ProductView{
		Product:      product,
		IsNew:        product.IsNew(s.now()),
		OnSale:       product.OnSale(),
		Breakdown:    s.pricing.ProductBreakdown(product, country),
		SizeRegion:   region,
		DisplaySizes: sizes,
	}, nil
}

func (s *catalogService) Find(productID string) (model.Product, error) {
	return s.catalog.Find(productID)
}

func (s *catalogService) Catalog() *model.Catalog {
	return s.catalog
}

// ApplyFilter returns a fresh slice; the input is never reordered.
func ApplyFilter(products []model.Product, criteria model.FilterCriteria, sortKey model.SortKey) ([]model.Product, error) {
	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if criteria.Matches(p) {
			result = append(result, p)
		}
	}

	switch sortKey {
	case "", model.SortFeatured:
	case model.SortPriceAsc:
		slices.SortStableFunc(result, func(a, b model.Product) int {
			return cmp.Compare(a.PriceCents, b.PriceCents)
		})
	case model.SortPriceDesc:
		slices.SortStableFunc(result, func(a, b model.Product) int {
			return cmp.Compare(b.PriceCents, a.PriceCents)
		})
	default:
		return nil, model.ErrUnknownSortKey
	}
	return result, nil
}

func NewArrivals(products []model.Product, now time.Time, limit int) []model.Product {
	var result []model.Product
	for _, p := range products {
		if limit > 0 && len(result) == limit {
			break
		}
		if p.IsNew(now) {
			result = append(result, p)
		}
	}
	return result
}

// ConvertSize maps a US footwear size to the given region. Labels pass through unchanged.
func ConvertSize(size model.Size, region model.SizeRegion) model.Size {
	us, ok := size.Numeric()
	if !ok {
		return size
	}
	switch region {
	case model.RegionUK:
		return formatSize(math.Max(1, us-1))
	case model.RegionEU:
		if us < 6 {
			return formatSize(math.Round(us + 31))
		}
		return formatSize(math.Round(us + 33))
	}
	return size
}

func formatSize(v float64) model.Size {
	return model.Size(strconv.FormatFloat(v, 'f', -1, 64))
}
