package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound   = errors.New("cart not found")
	ErrInvalidSize    = errors.New("size is not available for this product")
	ErrInvalidColor   = errors.New("color is not available for this product")
	ErrOptimisticLock = errors.New("resource has been modified by another request")
)

// LineKey identifies a cart line: the same product in another size or color is another line.
type LineKey struct {
	ProductID string `json:"productId"`
	Size      Size   `json:"size"`
	Color     string `json:"color"`
}

type CartLine struct {
	ProductID          string `json:"productId"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	Image              string `json:"image"`
	PriceCents         int64  `json:"priceCents"`
	OriginalPriceCents int64  `json:"originalPriceCents,omitempty"`
	Size               Size   `json:"size"`
	Color              string `json:"color"`
	Quantity           int    `json:"quantity"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (l CartLine) TotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	Lines     []CartLine `json:"lines"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add merges into the line with the same key or appends a new line with quantity 1.
// It returns the resulting line.
func (c *Cart) Add(product Product, size Size, color string) (CartLine, error) {
	if !product.HasSize(size) {
		return CartLine{}, ErrInvalidSize
	}
	if !product.HasColor(color) {
		return CartLine{}, ErrInvalidColor
	}

	key := LineKey{ProductID: product.ID, Size: size, Color: color}
	if i := c.indexOf(key); i >= 0 {
		c.Lines[i].Quantity++
		return c.Lines[i], nil
	}

	line := CartLine{
		ProductID:          product.ID,
		Name:               product.Name,
		Category:           product.Category,
		Image:              product.Image,
		PriceCents:         product.PriceCents,
		OriginalPriceCents: product.OriginalPriceCents,
		Size:               size,
		Color:              color,
		Quantity:           1,
	}
	c.Lines = append(c.Lines, line)
	return line, nil
}

// ChangeQuantity applies delta with a floor of 1. Unknown keys are ignored.
func (c *Cart) ChangeQuantity(key LineKey, delta int) (CartLine, bool) {
	i := c.indexOf(key)
	if i < 0 {
		return CartLine{}, false
	}
	c.Lines[i].Quantity = max(1, c.Lines[i].Quantity+delta)
	return c.Lines[i], true
}

// Remove deletes the line. Unknown keys are ignored.
func (c *Cart) Remove(key LineKey) bool {
	i := c.indexOf(key)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c *Cart) Line(key LineKey) (CartLine, bool) {
	i := c.indexOf(key)
	if i < 0 {
		return CartLine{}, false
	}
	return c.Lines[i], true
}

func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.TotalCents()
	}
	return total
}

func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) indexOf(key LineKey) int {
	for i, line := range c.Lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

type CartRepository interface {
	NextID() (uuid.UUID, error)
	Create(cart *Cart) error
	Find(id uuid.UUID) (*Cart, error)
	Update(cart *Cart) error
}
