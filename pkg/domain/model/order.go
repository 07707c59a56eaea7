package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDeliveryNotFound  = errors.New("order delivery not found")
	ErrSinkNotConfigured = errors.New("order sink is not configured")
	ErrQueueFull         = errors.New("order queue is full")
	ErrQueueClosed       = errors.New("order queue is closed")
	ErrOrderNotRecorded  = errors.New("order could not be recorded")
)

// OrderPayload is the flat record handed to the order sink.
type OrderPayload struct {
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	Email        string `json:"email" db:"email"`
	Address      string `json:"address" db:"address"`
	City         string `json:"city" db:"city"`
	Zip          string `json:"zip" db:"zip"`
	ProductNames string `json:"productNames" db:"product_names"`
	TotalAmount  string `json:"totalAmount" db:"total_amount"`
	DateTime     string `json:"dateTime" db:"date_time"`
}

type DeliveryStatus int

const (
	DeliveryPending DeliveryStatus = iota
	DeliveryDelivered
	DeliveryFailed
	DeliverySkipped
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryPending:
		return "pending"
	case DeliveryDelivered:
		return "delivered"
	case DeliveryFailed:
		return "failed"
	case DeliverySkipped:
		return "skipped"
	}
	return "unknown"
}

func (s DeliveryStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// OrderDelivery tracks one hand-off of an order payload to the sink.
type OrderDelivery struct {
	ID            uuid.UUID      `json:"id"`
	CheckoutID    uuid.UUID      `json:"checkoutId"`
	Payload       OrderPayload   `json:"payload"`
	Status        DeliveryStatus `json:"status"`
	FailureReason string         `json:"failureReason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	DeliveredAt   *time.Time     `json:"deliveredAt,omitempty"`
}

type DeliveryRepository interface {
	NextID() (uuid.UUID, error)
	Create(delivery *OrderDelivery) error
	Update(delivery *OrderDelivery) error
	FindByCheckout(checkoutID uuid.UUID) ([]OrderDelivery, error)
}

type OrderSink interface {
	Submit(ctx context.Context, payload OrderPayload) error
}
