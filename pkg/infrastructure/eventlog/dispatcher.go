package eventlog

import (
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/service"
)

var (
	_ service.EventDispatcher = &LogDispatcher{}
	_ service.EventDispatcher = MultiDispatcher{}
)

// LogDispatcher writes every event to the structured log.
type LogDispatcher struct {
	logger logrus.FieldLogger
}

func NewLogDispatcher(logger logrus.FieldLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(event service.Event) error {
	d.logger.WithFields(logrus.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}

// MultiDispatcher fans an event out to every dispatcher and returns the first error.
type MultiDispatcher []service.EventDispatcher

func (m MultiDispatcher) Dispatch(event service.Event) error {
	var first error
	for _, d := range m {
		if err := d.Dispatch(event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
