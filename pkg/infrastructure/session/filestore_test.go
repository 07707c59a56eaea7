package session

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
)

func TestFileStore(t *testing.T) {
	user := model.User{ID: "user_1", Name: "ada", Email: "ada@example.com", Role: model.RoleCustomer, Token: "t"}

	t.Run("Empty slot", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "")
		_, err := store.Load()
		assert.ErrorIs(t, err, model.ErrNoSession)
		assert.NoError(t, store.Clear())
	})

	t.Run("Round trip and clear", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), DefaultKey)
		saved := &model.SessionRecord{Version: model.SessionSchemaVersion, User: user, SavedAt: time.Now().UTC().Truncate(time.Second)}
		require.NoError(t, store.Save(saved))

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, user, loaded.User)
		assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))

		require.NoError(t, store.Clear())
		_, err = store.Load()
		assert.ErrorIs(t, err, model.ErrNoSession)
	})

	t.Run("Legacy bare user is upgraded", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "")
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{"id":"user_1","name":"ada","email":"ada@example.com","role":"customer","token":"t"}`), 0o600))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, model.SessionSchemaVersion, loaded.Version)
		assert.Equal(t, user, loaded.User)
	})

	t.Run("Corrupt content", func(t *testing.T) {
		for name, content := range map[string]string{
			"not json":      `{{{`,
			"bad version":   `{"version":0,"user":{"email":"ada@example.com"}}`,
			"missing email": `{"version":1,"user":{"name":"ada"}}`,
			"unknown shape": `{"foo":"bar"}`,
			"not an object": `[1,2,3]`,
		} {
			t.Run(name, func(t *testing.T) {
				store := NewFileStore(t.TempDir(), "")
				require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))
				_, err := store.Load()
				assert.ErrorIs(t, err, model.ErrCorruptSession)
			})
		}
	})

	t.Run("Newer schema is still read", func(t *testing.T) {
		store := NewFileStore(t.TempDir(), "")
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{"version":2,"user":{"email":"ada@example.com"},"extra":true}`), 0o600))
		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", loaded.User.Email)
	})
}
