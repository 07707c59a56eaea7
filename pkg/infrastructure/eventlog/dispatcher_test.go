package eventlog

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type failingDispatcher struct{ calls int }

func (f *failingDispatcher) Dispatch(service.Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestLogDispatcher(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	event := model.CartCreated{CartID: uuid.New()}

	require.NoError(t, NewLogDispatcher(logger).Dispatch(event))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "domain event", entry.Message)
	assert.Equal(t, "CartCreated", entry.Data["event"])
}

func TestMultiDispatcher(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	failing := &failingDispatcher{}
	multi := MultiDispatcher{failing, NewLogDispatcher(logger)}

	err := multi.Dispatch(model.CartCreated{CartID: uuid.New()})

	assert.EqualError(t, err, "broker down")
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, hook.AllEntries(), 1)
}
