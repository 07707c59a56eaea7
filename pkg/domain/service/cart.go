package service

import (
	"time"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

type CartService interface {
	CreateCart() (*model.Cart, error)
	GetCart(cartID uuid.UUID) (*model.Cart, error)
	AddItem(cartID uuid.UUID, productID string, size model.Size, color string) (*model.Cart, error)
	QuickAdd(cartID uuid.UUID, productID string) (*model.Cart, error)
	ChangeQuantity(cartID uuid.UUID, key model.LineKey, delta int) (*model.Cart, error)
	RemoveItem(cartID uuid.UUID, key model.LineKey) (*model.Cart, error)
	Subtotal(cartID uuid.UUID) (int64, error)
}

func NewCartService(repo model.CartRepository, catalog *model.Catalog, dispatcher EventDispatcher) CartService {
	return &cartService{repo: repo, catalog: catalog, dispatcher: dispatcher}
}

type cartService struct {
	repo       model.CartRepository
	catalog    *model.Catalog
	dispatcher EventDispatcher
	locks      keyedMutex
}

func (s *cartService) CreateCart() (*model.Cart, error) {
	cartID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	cart := &model.Cart{
		ID:        cartID,
		Lines:     []model.CartLine{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(cart); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CartCreated{CartID: cartID})
	return cart, nil
}

func (s *cartService) GetCart(cartID uuid.UUID) (*model.Cart, error) {
	return s.repo.Find(cartID)
}

func (s *cartService) AddItem(cartID uuid.UUID, productID string, size model.Size, color string) (*model.Cart, error) {
	product, err := s.catalog.Find(productID)
	if err != nil {
		return nil, err
	}
	return s.add(cartID, product, size, color)
}

// QuickAdd picks the product's first size and first color.
func (s *cartService) QuickAdd(cartID uuid.UUID, productID string) (*model.Cart, error) {
	product, err := s.catalog.Find(productID)
	if err != nil {
		return nil, err
	}
	return s.add(cartID, product, product.Sizes[0], product.Colors[0])
}

func (s *cartService) add(cartID uuid.UUID, product model.Product, size model.Size, color string) (*model.Cart, error) {
	defer s.locks.Lock(cartID)()

	cart, err := s.repo.Find(cartID)
	if err != nil {
		return nil, err
	}

	line, err := cart.Add(product, size, color)
	if err != nil {
		return nil, err
	}

	if err := s.updateCart(cart); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CartItemAdded{
		CartID:   cartID,
		Line:     line.Key(),
		Quantity: line.Quantity,
		ShowCart: true,
	})
	return cart, nil
}

func (s *cartService) ChangeQuantity(cartID uuid.UUID, key model.LineKey, delta int) (*model.Cart, error) {
	defer s.locks.Lock(cartID)()

	cart, err := s.repo.Find(cartID)
	if err != nil {
		return nil, err
	}

	before, found := cart.Line(key)
	if !found {
		return cart, nil
	}
	line, _ := cart.ChangeQuantity(key, delta)
	if line.Quantity == before.Quantity {
		return cart, nil
	}

	if err := s.updateCart(cart); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CartItemQuantityChanged{CartID: cartID, Line: key, Quantity: line.Quantity})
	return cart, nil
}

func (s *cartService) RemoveItem(cartID uuid.UUID, key model.LineKey) (*model.Cart, error) {
	defer s.locks.Lock(cartID)()

	cart, err := s.repo.Find(cartID)
	if err != nil {
		return nil, err
	}

	if !cart.Remove(key) {
		return cart, nil
	}

	if err := s.updateCart(cart); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CartItemRemoved{CartID: cartID, Line: key})
	return cart, nil
}

func (s *cartService) Subtotal(cartID uuid.UUID) (int64, error) {
	cart, err := s.repo.Find(cartID)
	if err != nil {
		return 0, err
	}
	return cart.SubtotalCents(), nil
}

func (s *cartService) updateCart(cart *model.Cart) error {
	cart.Version++
	cart.UpdatedAt = time.Now().UTC()
	return s.repo.Update(cart)
}
