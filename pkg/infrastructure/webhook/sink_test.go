package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
)

func TestSubmit(t *testing.T) {
	payload := model.OrderPayload{FirstName: "Ada", Email: "ada@example.com", TotalAmount: "292.28"}

	t.Run("Posts the payload as JSON", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		require.NoError(t, NewSink(srv.URL, 0).Submit(context.Background(), payload))
		assert.Equal(t, "Ada", got["firstName"])
		assert.Equal(t, "292.28", got["totalAmount"])
	})

	t.Run("Non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := NewSink(srv.URL, 0).Submit(context.Background(), payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("Placeholder endpoint is not configured", func(t *testing.T) {
		sink := NewSink("https://script.google.com/macros/s/INSERT_YOUR_ID_HERE/exec", 0)
		assert.False(t, sink.Configured())
		assert.ErrorIs(t, sink.Submit(context.Background(), payload), model.ErrSinkNotConfigured)
		assert.ErrorIs(t, NewSink("", 0).Submit(context.Background(), payload), model.ErrSinkNotConfigured)
	})
}
