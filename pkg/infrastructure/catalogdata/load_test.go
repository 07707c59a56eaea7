package catalogdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
)

func TestDefault(t *testing.T) {
	now := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	catalog, err := Default(now)
	require.NoError(t, err)

	assert.Equal(t, 12, catalog.Len())
	assert.Equal(t, []string{"men", "women", "kids", "accessories", "skate"}, catalog.Categories())

	runner, err := catalog.Find("sz-velocity-1")
	require.NoError(t, err)
	assert.True(t, runner.IsNew(now))
	assert.Equal(t, model.Size("10.5"), runner.Sizes[3])

	trail, err := catalog.Find("sz-apex-2")
	require.NoError(t, err)
	assert.True(t, trail.OnSale())
	assert.False(t, trail.IsNew(now))

	hat, err := catalog.Find("sz-cap-7")
	require.NoError(t, err)
	assert.Equal(t, []model.Size{"One Size"}, hat.Sizes)
}

func TestLoadFile(t *testing.T) {
	now := time.Now()

	t.Run("Explicit release date", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x","name":"X","category":"home","priceCents":100,"colors":["Red"],"sizes":["M"],"releasedAt":"2024-01-02T00:00:00Z"}]`), 0o600))

		catalog, err := LoadFile(path, now)
		require.NoError(t, err)
		p, err := catalog.Find("x")
		require.NoError(t, err)
		assert.Equal(t, 2024, p.ReleasedAt.Year())
	})

	t.Run("Invalid product", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x","name":"X","priceCents":100,"colors":[],"sizes":["M"]}]`), 0o600))

		_, err := LoadFile(path, now)
		assert.ErrorIs(t, err, model.ErrInvalidProduct)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), now)
		assert.Error(t, err)
	})
}
