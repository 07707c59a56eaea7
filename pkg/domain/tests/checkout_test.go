package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/memory"
)

type checkoutFixture struct {
	checkouts  service.CheckoutService
	carts      service.CartService
	cartID     uuid.UUID
	queue      *mockOrderQueue
	sink       *mockOrderSink
	payments   *mockPaymentRedirector
	dispatcher *mockEventDispatcher
	logs       *logtest.Hook
}

func setupCheckout(t *testing.T, gated bool) *checkoutFixture {
	logger, hook := logtest.NewNullLogger()
	dispatcher := &mockEventDispatcher{}
	cartRepo := memory.NewCartRepository()
	carts := service.NewCartService(cartRepo, testCatalog(t), dispatcher)

	cart, err := carts.CreateCart()
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, "p1", "10", "Black")
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, "p2", "11", "Olive")
	require.NoError(t, err)

	f := &checkoutFixture{
		carts:      carts,
		cartID:     cart.ID,
		queue:      &mockOrderQueue{},
		sink:       &mockOrderSink{},
		payments:   &mockPaymentRedirector{},
		dispatcher: dispatcher,
		logs:       hook,
	}

	opts := []service.CheckoutOption{service.WithCheckoutClock(clock)}
	if gated {
		deliveries := service.NewDeliveryService(memory.NewDeliveryRepository(), f.sink, dispatcher)
		opts = append(opts, service.WithGatedConfirmation(deliveries))
	}
	f.checkouts = service.NewCheckoutService(
		memory.NewCheckoutRepository(), cartRepo, service.NewPricingResolver(nil),
		f.queue, f.payments, dispatcher, logger, opts...,
	)
	dispatcher.Reset()
	return f
}

func validShipping() model.ShippingDetails {
	return model.ShippingDetails{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "12 Analytical Way",
		City:      "London",
		Zip:       "N1 9GU",
	}
}

func TestCheckoutFlow(t *testing.T) {
	t.Run("Begin starts at shipping with current totals", func(t *testing.T) {
		f := setupCheckout(t, false)

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		assert.Equal(t, model.StepShipping, checkout.Step)
		assert.Equal(t, int64(29228), checkout.Totals.TotalCents)

		require.Len(t, f.dispatcher.events, 1)
		_, ok := f.dispatcher.events[0].(model.CheckoutStarted)
		assert.True(t, ok)
	})

	t.Run("Incomplete shipping keeps the step", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		details := validShipping()
		details.City = "  "
		details.Zip = ""
		_, err = f.checkouts.SubmitShipping(checkout.ID, details)

		require.ErrorIs(t, err, model.ErrShippingIncomplete)
		var validation *model.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Equal(t, []string{"city", "zip"}, validation.Fields)

		current, err := f.checkouts.Get(checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepShipping, current.Step)
	})

	t.Run("Full flow confirms and hands the order off", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		checkout, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)
		assert.Equal(t, model.StepPayment, checkout.Step)

		checkout, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		require.NoError(t, err)

		assert.Equal(t, model.StepConfirmation, checkout.Step)
		assert.Equal(t, "https://pay.example.com/?amount=292.28", checkout.PaymentURL)
		require.NotNil(t, checkout.SubmittedAt)

		require.Len(t, f.queue.payloads, 1)
		payload := f.queue.payloads[0]
		assert.Equal(t, "Velocity Runner (Qty: 1), Apex Trail (Qty: 1)", payload.ProductNames)
		assert.Equal(t, "292.28", payload.TotalAmount)
		assert.Equal(t, "2025-11-20T12:00:00Z", payload.DateTime)
		assert.Equal(t, "ada@example.com", payload.Email)

		last := f.dispatcher.events[len(f.dispatcher.events)-1]
		confirmed, ok := last.(model.CheckoutConfirmed)
		require.True(t, ok)
		assert.Equal(t, int64(29228), confirmed.TotalCents)
	})

	t.Run("Back from payment keeps shipping details", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		back, err := f.checkouts.ReturnToShipping(checkout.ID)
		require.NoError(t, err)

		assert.Equal(t, model.StepShipping, back.Step)
		assert.Equal(t, validShipping(), back.Shipping)
	})

	t.Run("Illegal transitions are rejected", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		_, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)
		_, err = f.checkouts.ReturnToShipping(checkout.ID)
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)

		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)

		_, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		require.NoError(t, err)
		_, err = f.checkouts.ReturnToShipping(checkout.ID)
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)
		_, err = f.checkouts.ChangeCountry(checkout.ID, model.UK)
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)
	})

	t.Run("Unknown checkout", func(t *testing.T) {
		f := setupCheckout(t, false)
		_, err := f.checkouts.Get(uuid.New())
		assert.ErrorIs(t, err, model.ErrCheckoutNotFound)
	})
}

func TestCheckoutTotals(t *testing.T) {
	t.Run("Country change re-prices", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		checkout, err = f.checkouts.ChangeCountry(checkout.ID, model.UK)
		require.NoError(t, err)

		assert.Equal(t, model.UK, checkout.Country)
		assert.Equal(t, int64(5400), checkout.Totals.TaxCents)
		assert.Equal(t, int64(32400), checkout.Totals.TotalCents)
	})

	t.Run("Totals follow cart edits until confirmation", func(t *testing.T) {
		f := setupCheckout(t, false)
		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)

		_, err = f.carts.RemoveItem(f.cartID, model.LineKey{ProductID: "p2", Size: "11", Color: "Olive"})
		require.NoError(t, err)

		current, err := f.checkouts.Get(checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12000), current.Totals.SubtotalCents)
		assert.Equal(t, int64(1500), current.Totals.ShippingCents)
		assert.Equal(t, int64(14490), current.Totals.TotalCents)
	})
}

func TestCheckoutExternalFailures(t *testing.T) {
	t.Run("Queue failure does not block confirmation", func(t *testing.T) {
		f := setupCheckout(t, false)
		f.queue.ShouldError = true

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		checkout, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepConfirmation, checkout.Step)

		entry := f.logs.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, "failed to hand order to the delivery queue", entry.Message)
	})

	t.Run("Payment link failure still confirms", func(t *testing.T) {
		f := setupCheckout(t, false)
		f.payments.ShouldError = true

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		checkout, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepConfirmation, checkout.Step)
		assert.Empty(t, checkout.PaymentURL)
	})

	t.Run("Gated policy records before confirming", func(t *testing.T) {
		f := setupCheckout(t, true)

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		checkout, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepConfirmation, checkout.Step)
		assert.Len(t, f.sink.submitted, 1)
		assert.Empty(t, f.queue.payloads)
	})

	t.Run("Gated policy blocks on sink failure", func(t *testing.T) {
		f := setupCheckout(t, true)
		f.sink.Err = errors.New("spreadsheet unavailable")

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		_, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		assert.ErrorIs(t, err, model.ErrOrderNotRecorded)

		current, err := f.checkouts.Get(checkout.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepPayment, current.Step)
	})

	t.Run("Gated policy blocks when the sink is not configured", func(t *testing.T) {
		f := setupCheckout(t, true)
		f.sink.Err = model.ErrSinkNotConfigured

		checkout, err := f.checkouts.Begin(f.cartID, model.US)
		require.NoError(t, err)
		_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		require.NoError(t, err)

		_, err = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
		assert.ErrorIs(t, err, model.ErrOrderNotRecorded)
	})
}

func TestConcurrentPaymentSubmits(t *testing.T) {
	tests := []struct {
		name     string
		gated    bool
		queued   int
		recorded int
	}{
		{name: "Ungated hands off once", queued: 1},
		{name: "Gated records once", gated: true, recorded: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupCheckout(t, tt.gated)
			f.payments.Delay = 20 * time.Millisecond

			checkout, err := f.checkouts.Begin(f.cartID, model.US)
			require.NoError(t, err)
			_, err = f.checkouts.SubmitShipping(checkout.ID, validShipping())
			require.NoError(t, err)

			const submits = 3
			errs := make([]error, submits)
			var wg sync.WaitGroup
			for i := range submits {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, errs[i] = f.checkouts.SubmitPayment(context.Background(), checkout.ID)
				}()
			}
			wg.Wait()

			var confirmed, rejected int
			for _, err := range errs {
				switch {
				case err == nil:
					confirmed++
				case errors.Is(err, model.ErrInvalidStepTransition):
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, 1, confirmed)
			assert.Equal(t, submits-1, rejected)
			assert.Len(t, f.queue.payloads, tt.queued)
			assert.Len(t, f.sink.submitted, tt.recorded)
		})
	}
}

func TestConcurrentStepChanges(t *testing.T) {
	f := setupCheckout(t, false)
	checkout, err := f.checkouts.Begin(f.cartID, model.US)
	require.NoError(t, err)

	errs := make([]error, 4)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.checkouts.SubmitShipping(checkout.ID, validShipping())
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, model.ErrInvalidStepTransition)
	}
	assert.Equal(t, 1, succeeded)
}

func TestOptimisticLockInCheckoutRepository(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	checkout := &model.Checkout{ID: uuid.New(), Version: 1}
	require.NoError(t, repo.Create(checkout))

	checkout.Version++
	require.NoError(t, repo.Update(checkout))

	err := repo.Update(checkout)
	require.Error(t, err, "Update with same version should fail")
	assert.ErrorIs(t, err, model.ErrOptimisticLock)
	assert.NotContains(t, err.Error(), "cart")
}
