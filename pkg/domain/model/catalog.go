package model

import (
	"fmt"
	"strings"
)

// Catalog is the immutable product list loaded at startup.
type Catalog struct {
	products []Product
	index    map[string]int
}

func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Products returns a copy in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Find(id string) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

func (c *Catalog) Len() int { return len(c.products) }

// Categories lists the distinct lower-cased categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		cat := strings.ToLower(p.Category)
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

func (c *Catalog) HasCategory(category string) bool {
	category = strings.ToLower(category)
	for _, p := range c.products {
		if strings.ToLower(p.Category) == category {
			return true
		}
	}
	return false
}

// Colors is the color facet: every color once, in catalog order.
func (c *Catalog) Colors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		for _, color := range p.Colors {
			if !seen[color] {
				seen[color] = true
				out = append(out, color)
			}
		}
	}
	return out
}
