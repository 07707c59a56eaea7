package memory

import (
	"sync"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

var _ model.DeliveryRepository = &DeliveryRepository{}

type DeliveryRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	store map[uuid.UUID]model.OrderDelivery
}

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{store: make(map[uuid.UUID]model.OrderDelivery)}
}

func (r *DeliveryRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *DeliveryRepository) Create(delivery *model.OrderDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[delivery.ID] = *delivery
	r.order = append(r.order, delivery.ID)
	return nil
}

func (r *DeliveryRepository) Update(delivery *model.OrderDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[delivery.ID]; !ok {
		return model.ErrDeliveryNotFound
	}
	r.store[delivery.ID] = *delivery
	return nil
}

// FindByCheckout returns deliveries in creation order.
func (r *DeliveryRepository) FindByCheckout(checkoutID uuid.UUID) ([]model.OrderDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.OrderDelivery
	for _, id := range r.order {
		if d := r.store[id]; d.CheckoutID == checkoutID {
			out = append(out, d)
		}
	}
	return out, nil
}
