package memory

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

var _ model.CartRepository = &CartRepository{}

// CartRepository keeps carts for the lifetime of the process.
type CartRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*model.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{store: make(map[uuid.UUID]*model.Cart)}
}

func (r *CartRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *CartRepository) Create(cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[cart.ID]; exists {
		return errors.New("cart with this ID already exists")
	}
	r.store[cart.ID] = cloneCart(cart)
	return nil
}

func (r *CartRepository) Find(id uuid.UUID) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.store[id]
	if !ok {
		return nil, model.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// Update expects cart.Version to be exactly one ahead of the stored version.
func (r *CartRepository) Update(cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[cart.ID]
	if !ok {
		return model.ErrCartNotFound
	}
	if existing.Version != cart.Version-1 {
		return model.ErrOptimisticLock
	}
	r.store[cart.ID] = cloneCart(cart)
	return nil
}

func cloneCart(cart *model.Cart) *model.Cart {
	clone := *cart
	clone.Lines = append([]model.CartLine{}, cart.Lines...)
	return &clone
}
