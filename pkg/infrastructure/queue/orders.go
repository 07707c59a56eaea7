package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

const DefaultCapacity = 64

var _ service.OrderQueue = &OrderQueue{}

type job struct {
	checkoutID uuid.UUID
	payload    model.OrderPayload
}

// OrderQueue is a bounded in-process hand-off between checkout and the order sink.
type OrderQueue struct {
	recorder service.OrderRecorder
	logger   logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	jobs   chan job
}

func NewOrderQueue(recorder service.OrderRecorder, capacity int, logger logrus.FieldLogger) *OrderQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &OrderQueue{
		recorder: recorder,
		logger:   logger,
		jobs:     make(chan job, capacity),
	}
}

// Enqueue never blocks. It fails with ErrQueueFull when the buffer is saturated.
func (q *OrderQueue) Enqueue(_ context.Context, checkoutID uuid.UUID, payload model.OrderPayload) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return model.ErrQueueClosed
	}
	select {
	case q.jobs <- job{checkoutID: checkoutID, payload: payload}:
		return nil
	default:
		return model.ErrQueueFull
	}
}

func (q *OrderQueue) Len() int {
	return len(q.jobs)
}

// Close stops accepting orders. Run drains what is already buffered.
func (q *OrderQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Run delivers queued orders until the queue is closed and drained, or ctx is done.
func (q *OrderQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-q.jobs:
			if !ok {
				return nil
			}
			q.deliver(ctx, j)
		}
	}
}

func (q *OrderQueue) deliver(ctx context.Context, j job) {
	log := q.logger.WithField("checkoutID", j.checkoutID)

	delivery, err := q.recorder.Deliver(ctx, j.checkoutID, j.payload)
	if err != nil {
		log.WithError(err).Error("order delivery could not be recorded")
		return
	}

	log = log.WithFields(logrus.Fields{
		"deliveryID": delivery.ID,
		"status":     delivery.Status.String(),
	})
	switch delivery.Status {
	case model.DeliveryDelivered:
		log.Info("order delivered")
	case model.DeliverySkipped:
		log.Warn("order sink not configured, delivery skipped")
	default:
		log.WithField("reason", delivery.FailureReason).Error("order delivery failed")
	}
}
