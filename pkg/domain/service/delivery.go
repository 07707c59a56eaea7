package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

type DeliveryService interface {
	Deliver(ctx context.Context, checkoutID uuid.UUID, payload model.OrderPayload) (*model.OrderDelivery, error)
	Deliveries(checkoutID uuid.UUID) ([]model.OrderDelivery, error)
}

func NewDeliveryService(repo model.DeliveryRepository, sink model.OrderSink, dispatcher EventDispatcher) DeliveryService {
	return &deliveryService{repo: repo, sink: sink, dispatcher: dispatcher}
}

type deliveryService struct {
	repo       model.DeliveryRepository
	sink       model.OrderSink
	dispatcher EventDispatcher
}

// Deliver records the attempt, submits the payload and stores the outcome.
// A sink failure is recorded on the delivery, not returned.
func (s *deliveryService) Deliver(ctx context.Context, checkoutID uuid.UUID, payload model.OrderPayload) (*model.OrderDelivery, error) {
	deliveryID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}
	delivery := &model.OrderDelivery{
		ID:         deliveryID,
		CheckoutID: checkoutID,
		Payload:    payload,
		Status:     model.DeliveryPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(delivery); err != nil {
		return nil, err
	}

	err = s.sink.Submit(ctx, payload)

	switch {
	case errors.Is(err, model.ErrSinkNotConfigured):
		delivery.Status = model.DeliverySkipped
		delivery.FailureReason = err.Error()
		_ = s.dispatcher.Dispatch(model.OrderDeliverySkipped{DeliveryID: deliveryID, CheckoutID: checkoutID})
	case err != nil:
		delivery.Status = model.DeliveryFailed
		delivery.FailureReason = err.Error()
		_ = s.dispatcher.Dispatch(model.OrderDeliveryFailed{
			DeliveryID: deliveryID, CheckoutID: checkoutID, Reason: err.Error(),
		})
	default:
		now := time.Now().UTC()
		delivery.Status = model.DeliveryDelivered
		delivery.DeliveredAt = &now
		_ = s.dispatcher.Dispatch(model.OrderDelivered{DeliveryID: deliveryID, CheckoutID: checkoutID})
	}

	if err := s.repo.Update(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *deliveryService) Deliveries(checkoutID uuid.UUID) ([]model.OrderDelivery, error) {
	return s.repo.FindByCheckout(checkoutID)
}
