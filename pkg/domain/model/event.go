package model

import "github.com/google/uuid"

type CartCreated struct {
	CartID uuid.UUID
}

func (e CartCreated) Type() string { return "CartCreated" }

// CartItemAdded asks the client to reveal the cart when ShowCart is set.
type CartItemAdded struct {
	CartID   uuid.UUID
	Line     LineKey
	Quantity int
	ShowCart bool
}

func (e CartItemAdded) Type() string { return "CartItemAdded" }

type CartItemQuantityChanged struct {
	CartID   uuid.UUID
	Line     LineKey
	Quantity int
}

func (e CartItemQuantityChanged) Type() string { return "CartItemQuantityChanged" }

type CartItemRemoved struct {
	CartID uuid.UUID
	Line   LineKey
}

func (e CartItemRemoved) Type() string { return "CartItemRemoved" }

type CheckoutStarted struct {
	CheckoutID uuid.UUID
	CartID     uuid.UUID
	Country    Country
}

func (e CheckoutStarted) Type() string { return "CheckoutStarted" }

type ShippingCaptured struct {
	CheckoutID uuid.UUID
}

func (e ShippingCaptured) Type() string { return "ShippingCaptured" }

type ReturnedToShipping struct {
	CheckoutID uuid.UUID
}

func (e ReturnedToShipping) Type() string { return "ReturnedToShipping" }

type CheckoutCountryChanged struct {
	CheckoutID uuid.UUID
	OldCountry Country
	NewCountry Country
}

func (e CheckoutCountryChanged) Type() string { return "CheckoutCountryChanged" }

type CheckoutConfirmed struct {
	CheckoutID uuid.UUID
	TotalCents int64
	PaymentURL string
}

func (e CheckoutConfirmed) Type() string { return "CheckoutConfirmed" }

type OrderDelivered struct {
	DeliveryID uuid.UUID
	CheckoutID uuid.UUID
}

func (e OrderDelivered) Type() string { return "OrderDelivered" }

type OrderDeliveryFailed struct {
	DeliveryID uuid.UUID
	CheckoutID uuid.UUID
	Reason     string
}

func (e OrderDeliveryFailed) Type() string { return "OrderDeliveryFailed" }

type OrderDeliverySkipped struct {
	DeliveryID uuid.UUID
	CheckoutID uuid.UUID
}

func (e OrderDeliverySkipped) Type() string { return "OrderDeliverySkipped" }

type UserLoggedIn struct {
	UserID string
	Email  string
	Role   UserRole
}

func (e UserLoggedIn) Type() string { return "UserLoggedIn" }

type UserRegistered struct {
	UserID string
	Email  string
	Name   string
}

func (e UserRegistered) Type() string { return "UserRegistered" }

type UserLoggedOut struct {
	UserID string
}

func (e UserLoggedOut) Type() string { return "UserLoggedOut" }
