package tests

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/memory"
)

type checkoutFeatureContext struct {
	carts     service.CartService
	checkouts service.CheckoutService
	queue     *mockOrderQueue
	cartID    uuid.UUID
	checkout  *model.Checkout
	err       error
}

func (c *checkoutFeatureContext) reset() error {
	catalog, err := model.NewCatalog(testProducts())
	if err != nil {
		return err
	}
	logger, _ := logtest.NewNullLogger()
	dispatcher := &mockEventDispatcher{}
	cartRepo := memory.NewCartRepository()

	c.queue = &mockOrderQueue{}
	c.carts = service.NewCartService(cartRepo, catalog, dispatcher)
	c.checkouts = service.NewCheckoutService(
		memory.NewCheckoutRepository(), cartRepo, service.NewPricingResolver(nil),
		c.queue, &mockPaymentRedirector{}, dispatcher, logger,
		service.WithCheckoutClock(clock),
	)
	c.cartID = uuid.Nil
	c.checkout = nil
	c.err = nil
	return nil
}

func (c *checkoutFeatureContext) anEmptyCart() error {
	cart, err := c.carts.CreateCart()
	if err != nil {
		return err
	}
	c.cartID = cart.ID
	return nil
}

func (c *checkoutFeatureContext) theCartHolds(productID, size, color string) error {
	_, err := c.carts.AddItem(c.cartID, productID, model.Size(size), color)
	return err
}

func (c *checkoutFeatureContext) iBeginCheckoutFor(country string) error {
	checkout, err := c.checkouts.Begin(c.cartID, model.ParseCountry(country))
	if err != nil {
		return err
	}
	c.checkout = checkout
	return nil
}

// apply records a step's error instead of failing, so later steps can assert on it.
func (c *checkoutFeatureContext) apply(checkout *model.Checkout, err error) error {
	c.err = err
	if err == nil {
		c.checkout = checkout
	}
	return nil
}

func (c *checkoutFeatureContext) iSubmitCompleteShippingDetails() error {
	return c.apply(c.checkouts.SubmitShipping(c.checkout.ID, validShipping()))
}

func (c *checkoutFeatureContext) iSubmitShippingDetailsWithout(field string) error {
	details := validShipping()
	switch field {
	case "city":
		details.City = ""
	case "zip":
		details.Zip = ""
	case "email":
		details.Email = ""
	default:
		return fmt.Errorf("unsupported shipping field %q", field)
	}
	return c.apply(c.checkouts.SubmitShipping(c.checkout.ID, details))
}

func (c *checkoutFeatureContext) iSubmitPayment() error {
	return c.apply(c.checkouts.SubmitPayment(context.Background(), c.checkout.ID))
}

func (c *checkoutFeatureContext) iGoBackToShipping() error {
	return c.apply(c.checkouts.ReturnToShipping(c.checkout.ID))
}

func (c *checkoutFeatureContext) theCheckoutIsAtStep(step string) error {
	current, err := c.checkouts.Get(c.checkout.ID)
	if err != nil {
		return err
	}
	if current.Step.String() != step {
		return fmt.Errorf("expected step %s, got %s", step, current.Step)
	}
	return nil
}

func (c *checkoutFeatureContext) amountIs(label string, cents int64, want string) error {
	if got := model.FormatCents(cents); got != want {
		return fmt.Errorf("expected %s %s, got %s", label, want, got)
	}
	return nil
}

func (c *checkoutFeatureContext) theOrderTotalIs(want string) error {
	return c.amountIs("total", c.checkout.Totals.TotalCents, want)
}

func (c *checkoutFeatureContext) theOrderTaxIs(want string) error {
	return c.amountIs("tax", c.checkout.Totals.TaxCents, want)
}

func (c *checkoutFeatureContext) theOrderShippingIs(want string) error {
	return c.amountIs("shipping", c.checkout.Totals.ShippingCents, want)
}

func (c *checkoutFeatureContext) lastHandedOff() (model.OrderPayload, error) {
	if len(c.queue.payloads) == 0 {
		return model.OrderPayload{}, errors.New("no order was handed off")
	}
	return c.queue.payloads[len(c.queue.payloads)-1], nil
}

func (c *checkoutFeatureContext) theHandedOffOrderLists(names string) error {
	payload, err := c.lastHandedOff()
	if err != nil {
		return err
	}
	if payload.ProductNames != names {
		return fmt.Errorf("expected products %q, got %q", names, payload.ProductNames)
	}
	return nil
}

func (c *checkoutFeatureContext) theHandedOffOrderTotalIs(want string) error {
	payload, err := c.lastHandedOff()
	if err != nil {
		return err
	}
	if payload.TotalAmount != want {
		return fmt.Errorf("expected total %s, got %s", want, payload.TotalAmount)
	}
	return nil
}

func (c *checkoutFeatureContext) theStepChangeIsRejected() error {
	if !errors.Is(c.err, model.ErrInvalidStepTransition) {
		return fmt.Errorf("expected an invalid step transition, got %v", c.err)
	}
	return nil
}

func (c *checkoutFeatureContext) shippingIsRejectedFor(field string) error {
	var validation *model.ValidationError
	if !errors.As(c.err, &validation) {
		return fmt.Errorf("expected a validation error, got %v", c.err)
	}
	if !slices.Contains(validation.Fields, field) {
		return fmt.Errorf("expected %q among missing fields %v", field, validation.Fields)
	}
	return nil
}

func (c *checkoutFeatureContext) theShippingDetailsAreKept() error {
	if c.checkout.Shipping != validShipping() {
		return fmt.Errorf("shipping details were not kept: %+v", c.checkout.Shipping)
	}
	return nil
}

func initializeCheckoutScenario(ctx *godog.ScenarioContext) {
	c := &checkoutFeatureContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})

	ctx.Step(`^an empty cart$`, c.anEmptyCart)
	ctx.Step(`^the cart holds "([^"]*)" in size "([^"]*)" and color "([^"]*)"$`, c.theCartHolds)

	ctx.Step(`^I begin checkout for "([^"]*)"$`, c.iBeginCheckoutFor)
	ctx.Step(`^I submit complete shipping details$`, c.iSubmitCompleteShippingDetails)
	ctx.Step(`^I submit shipping details without "([^"]*)"$`, c.iSubmitShippingDetailsWithout)
	ctx.Step(`^I submit payment$`, c.iSubmitPayment)
	ctx.Step(`^I go back to shipping$`, c.iGoBackToShipping)

	ctx.Step(`^the checkout is at the "([^"]*)" step$`, c.theCheckoutIsAtStep)
	ctx.Step(`^the order total is "([^"]*)"$`, c.theOrderTotalIs)
	ctx.Step(`^the order tax is "([^"]*)"$`, c.theOrderTaxIs)
	ctx.Step(`^the order shipping is "([^"]*)"$`, c.theOrderShippingIs)
	ctx.Step(`^the handed-off order lists "([^"]*)"$`, c.theHandedOffOrderLists)
	ctx.Step(`^the handed-off order total is "([^"]*)"$`, c.theHandedOffOrderTotalIs)
	ctx.Step(`^the step change is rejected$`, c.theStepChangeIsRejected)
	ctx.Step(`^shipping is rejected for "([^"]*)"$`, c.shippingIsRejectedFor)
	ctx.Step(`^the shipping details are kept$`, c.theShippingDetailsAreKept)
}

func TestCheckoutFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
