package memory

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

var _ model.CheckoutRepository = &CheckoutRepository{}

type CheckoutRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]model.Checkout
}

func NewCheckoutRepository() *CheckoutRepository {
	return &CheckoutRepository{store: make(map[uuid.UUID]model.Checkout)}
}

func (r *CheckoutRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *CheckoutRepository) Create(checkout *model.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[checkout.ID]; exists {
		return errors.New("checkout with this ID already exists")
	}
	r.store[checkout.ID] = *checkout
	return nil
}

func (r *CheckoutRepository) Find(id uuid.UUID) (*model.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkout, ok := r.store[id]
	if !ok {
		return nil, model.ErrCheckoutNotFound
	}
	return &checkout, nil
}

func (r *CheckoutRepository) Update(checkout *model.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[checkout.ID]
	if !ok {
		return model.ErrCheckoutNotFound
	}
	if existing.Version != checkout.Version-1 {
		return model.ErrOptimisticLock
	}
	r.store[checkout.ID] = *checkout
	return nil
}
