package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

// OrderQueue accepts an order for asynchronous delivery. It must not block.
type OrderQueue interface {
	Enqueue(ctx context.Context, checkoutID uuid.UUID, payload model.OrderPayload) error
}

// OrderRecorder delivers an order synchronously.
type OrderRecorder interface {
	Deliver(ctx context.Context, checkoutID uuid.UUID, payload model.OrderPayload) (*model.OrderDelivery, error)
}

// OrderHistory lists orders a durable sink has recorded, newest first.
type OrderHistory interface {
	Recent(ctx context.Context, limit int) ([]model.OrderPayload, error)
}

type PaymentRedirector interface {
	PaymentURL(totalCents int64) (string, error)
}

type CheckoutService interface {
	Begin(cartID uuid.UUID, country model.Country) (*model.Checkout, error)
	Get(checkoutID uuid.UUID) (*model.Checkout, error)
	SubmitShipping(checkoutID uuid.UUID, details model.ShippingDetails) (*model.Checkout, error)
	ReturnToShipping(checkoutID uuid.UUID) (*model.Checkout, error)
	ChangeCountry(checkoutID uuid.UUID, country model.Country) (*model.Checkout, error)
	SubmitPayment(ctx context.Context, checkoutID uuid.UUID) (*model.Checkout, error)
}

type CheckoutOption func(*checkoutService)

// WithGatedConfirmation makes SubmitPayment record the order before confirming.
func WithGatedConfirmation(recorder OrderRecorder) CheckoutOption {
	return func(s *checkoutService) {
		s.policy = model.ConfirmGated
		s.recorder = recorder
	}
}

func WithCheckoutClock(now func() time.Time) CheckoutOption {
	return func(s *checkoutService) { s.now = now }
}

func NewCheckoutService(
	repo model.CheckoutRepository,
	carts model.CartRepository,
	pricing PricingResolver,
	orders OrderQueue,
	payments PaymentRedirector,
	dispatcher EventDispatcher,
	logger logrus.FieldLogger,
	opts ...CheckoutOption,
) CheckoutService {
	s := &checkoutService{
		repo:       repo,
		carts:      carts,
		pricing:    pricing,
		orders:     orders,
		payments:   payments,
		dispatcher: dispatcher,
		logger:     logger,
		policy:     model.ConfirmUngated,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type checkoutService struct {
	repo       model.CheckoutRepository
	carts      model.CartRepository
	pricing    PricingResolver
	orders     OrderQueue
	recorder   OrderRecorder
	payments   PaymentRedirector
	dispatcher EventDispatcher
	logger     logrus.FieldLogger
	policy     model.ConfirmationPolicy
	now        func() time.Time
	locks      keyedMutex
}

func (s *checkoutService) Begin(cartID uuid.UUID, country model.Country) (*model.Checkout, error) {
	cart, err := s.carts.Find(cartID)
	if err != nil {
		return nil, err
	}

	checkoutID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	checkout := &model.Checkout{
		ID:        checkoutID,
		CartID:    cartID,
		Country:   country,
		Step:      model.StepShipping,
		Totals:    s.pricing.Resolve(cart.SubtotalCents(), country),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(checkout); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CheckoutStarted{CheckoutID: checkoutID, CartID: cartID, Country: country})
	return checkout, nil
}

// Get returns the checkout with totals re-derived from the current cart until it is confirmed.
func (s *checkoutService) Get(checkoutID uuid.UUID) (*model.Checkout, error) {
	checkout, err := s.repo.Find(checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.Step == model.StepConfirmation {
		return checkout, nil
	}
	if err := s.refreshTotals(checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

func (s *checkoutService) SubmitShipping(checkoutID uuid.UUID, details model.ShippingDetails) (*model.Checkout, error) {
	defer s.locks.Lock(checkoutID)()

	checkout, err := s.repo.Find(checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.Step != model.StepShipping || !checkout.CanMoveTo(model.StepPayment) {
		return nil, model.ErrInvalidStepTransition
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	checkout.Shipping = details
	checkout.Step = model.StepPayment
	if err := s.refreshTotals(checkout); err != nil {
		return nil, err
	}

	if err := s.updateCheckout(checkout); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ShippingCaptured{CheckoutID: checkoutID})
	return checkout, nil
}

func (s *checkoutService) ReturnToShipping(checkoutID uuid.UUID) (*model.Checkout, error) {
	defer s.locks.Lock(checkoutID)()

	checkout, err := s.repo.Find(checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.Step != model.StepPayment {
		return nil, model.ErrInvalidStepTransition
	}

	checkout.Step = model.StepShipping
	if err := s.updateCheckout(checkout); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ReturnedToShipping{CheckoutID: checkoutID})
	return checkout, nil
}

func (s *checkoutService) ChangeCountry(checkoutID uuid.UUID, country model.Country) (*model.Checkout, error) {
	defer s.locks.Lock(checkoutID)()

	checkout, err := s.repo.Find(checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.Step == model.StepConfirmation {
		return nil, model.ErrInvalidStepTransition
	}

	oldCountry := checkout.Country
	checkout.Country = country
	if err := s.refreshTotals(checkout); err != nil {
		return nil, err
	}

	if err := s.updateCheckout(checkout); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CheckoutCountryChanged{CheckoutID: checkoutID, OldCountry: oldCountry, NewCountry: country})
	return checkout, nil
}

// SubmitPayment hands the order to the queue and builds the payment link, then confirms.
// Under the ungated policy neither external outcome affects the transition.
// Step changes on one checkout are serialized, so a repeated submit sees
// Confirmation and is rejected without a second hand-off.
func (s *checkoutService) SubmitPayment(ctx context.Context, checkoutID uuid.UUID) (*model.Checkout, error) {
	defer s.locks.Lock(checkoutID)()

	checkout, err := s.repo.Find(checkoutID)
	if err != nil {
		return nil, err
	}
	if !checkout.CanMoveTo(model.StepConfirmation) {
		return nil, model.ErrInvalidStepTransition
	}

	cart, err := s.carts.Find(checkout.CartID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	totals := s.pricing.Resolve(cart.SubtotalCents(), checkout.Country)
	payload := ComposeOrderPayload(cart, checkout.Shipping, totals, now)
	log := s.logger.WithField("checkoutID", checkoutID)

	if s.policy == model.ConfirmGated {
		delivery, err := s.recorder.Deliver(ctx, checkoutID, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrOrderNotRecorded, err)
		}
		if delivery.Status != model.DeliveryDelivered {
			return nil, fmt.Errorf("%w: delivery %s", model.ErrOrderNotRecorded, delivery.Status)
		}
	} else if err := s.orders.Enqueue(ctx, checkoutID, payload); err != nil {
		log.WithError(err).Error("failed to hand order to the delivery queue")
	}

	paymentURL, err := s.payments.PaymentURL(totals.TotalCents)
	if err != nil {
		log.WithError(err).Error("failed to build payment link")
	}

	checkout.Totals = totals
	checkout.PaymentURL = paymentURL
	checkout.SubmittedAt = &now
	checkout.Step = model.StepConfirmation

	if err := s.updateCheckout(checkout); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CheckoutConfirmed{
		CheckoutID: checkoutID,
		TotalCents: totals.TotalCents,
		PaymentURL: paymentURL,
	})
	return checkout, nil
}

// ComposeOrderPayload flattens the cart into the order sink record.
func ComposeOrderPayload(cart *model.Cart, shipping model.ShippingDetails, totals model.Totals, at time.Time) model.OrderPayload {
	names := make([]string, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		names = append(names, fmt.Sprintf("%s (Qty: %d)", line.Name, line.Quantity))
	}

	return model.OrderPayload{
		FirstName:    shipping.FirstName,
		LastName:     shipping.LastName,
		Email:        shipping.Email,
		Address:      shipping.Address,
		City:         shipping.City,
		Zip:          shipping.Zip,
		ProductNames: strings.Join(names, ", "),
		TotalAmount:  model.FormatCents(totals.TotalCents),
		DateTime:     at.UTC().Format(time.RFC3339),
	}
}

func (s *checkoutService) refreshTotals(checkout *model.Checkout) error {
	cart, err := s.carts.Find(checkout.CartID)
	if err != nil {
		return err
	}
	checkout.Totals = s.pricing.Resolve(cart.SubtotalCents(), checkout.Country)
	return nil
}

func (s *checkoutService) updateCheckout(checkout *model.Checkout) error {
	checkout.Version++
	checkout.UpdatedAt = s.now().UTC()
	return s.repo.Update(checkout)
}
