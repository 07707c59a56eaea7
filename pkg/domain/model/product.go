package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidProduct   = errors.New("invalid product")
)

const NewArrivalWindow = 7 * 24 * time.Hour

// Size is either a numeric footwear size ("9", "10.5") or an apparel label ("M").
type Size string

func (s Size) Numeric() (float64, bool) {
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts both numbers and strings.
func (s *Size) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Size(n.String())
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("size must be a number or a string: %w", err)
	}
	*s = Size(str)
	return nil
}

type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	PriceCents         int64     `json:"priceCents"`
	OriginalPriceCents int64     `json:"originalPriceCents,omitempty"`
	Image              string    `json:"image"`
	Colors             []string  `json:"colors"`
	Sizes              []Size    `json:"sizes"`
	ReleasedAt         time.Time `json:"releasedAt"`
	Description        string    `json:"description"`
	MaterialCostCents  int64     `json:"materialCostCents,omitempty"`
	Materials          []string  `json:"materials,omitempty"`
}

func (p Product) OnSale() bool {
	return p.OriginalPriceCents > 0 && p.OriginalPriceCents > p.PriceCents
}

func (p Product) DiscountCents() int64 {
	if !p.OnSale() {
		return 0
	}
	return p.OriginalPriceCents - p.PriceCents
}

// IsNew reports whether the product was released within NewArrivalWindow before now.
func (p Product) IsNew(now time.Time) bool {
	age := now.Sub(p.ReleasedAt)
	return age >= 0 && age <= NewArrivalWindow
}

func (p Product) HasSize(size Size) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	case p.PriceCents < 0:
		return fmt.Errorf("%w %s: negative price", ErrInvalidProduct, p.ID)
	case p.OriginalPriceCents != 0 && p.OriginalPriceCents <= p.PriceCents:
		return fmt.Errorf("%w %s: original price must exceed price", ErrInvalidProduct, p.ID)
	case len(p.Colors) == 0:
		return fmt.Errorf("%w %s: no colors", ErrInvalidProduct, p.ID)
	case len(p.Sizes) == 0:
		return fmt.Errorf("%w %s: no sizes", ErrInvalidProduct, p.ID)
	}
	return nil
}
