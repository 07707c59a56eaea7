package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCheckoutNotFound      = errors.New("checkout not found")
	ErrShippingIncomplete    = errors.New("shipping information is incomplete")
	ErrInvalidStepTransition = errors.New("checkout cannot move to the requested step")
)

type CheckoutStep int

const (
	StepCart CheckoutStep = iota
	StepShipping
	StepPayment
	StepConfirmation
)

func (s CheckoutStep) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

func (s CheckoutStep) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CheckoutStep) UnmarshalText(text []byte) error {
	for step := StepCart; step <= StepConfirmation; step++ {
		if step.String() == string(text) {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("unknown checkout step %q", text)
}

type ShippingDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

// ValidationError lists the required fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrShippingIncomplete.Error() + ": missing " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrShippingIncomplete
}

func (d ShippingDetails) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"zip", d.Zip},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Checkout is the order draft of one checkout session. It is never persisted.
type Checkout struct {
	ID          uuid.UUID       `json:"id"`
	CartID      uuid.UUID       `json:"cartId"`
	Country     Country         `json:"country"`
	Step        CheckoutStep    `json:"step"`
	Shipping    ShippingDetails `json:"shipping"`
	Totals      Totals          `json:"totals"`
	PaymentURL  string          `json:"paymentUrl,omitempty"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CanMoveTo encodes the linear flow; the only backward edge is Payment -> Shipping.
func (c *Checkout) CanMoveTo(next CheckoutStep) bool {
	switch c.Step {
	case StepCart:
		return next == StepShipping
	case StepShipping:
		return next == StepPayment
	case StepPayment:
		return next == StepConfirmation || next == StepShipping
	}
	return false
}

type CheckoutRepository interface {
	NextID() (uuid.UUID, error)
	Create(checkout *Checkout) error
	Find(id uuid.UUID) (*Checkout, error)
	Update(checkout *Checkout) error
}

// ConfirmationPolicy decides whether confirming a checkout waits for the order sink.
type ConfirmationPolicy string

const (
	// ConfirmUngated advances to confirmation regardless of the order sink outcome.
	ConfirmUngated ConfirmationPolicy = "ungated"
	// ConfirmGated records the order synchronously and blocks confirmation on failure.
	ConfirmGated ConfirmationPolicy = "gated"
)
