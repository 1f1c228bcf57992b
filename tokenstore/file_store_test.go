package tokenstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/tokenstore"
)

func TestFileStore(t *testing.T) {
	t.Run("get on empty store", func(t *testing.T) {
		store, err := tokenstore.NewFileStore(t.TempDir())
		require.NoError(t, err)

		token, err := store.Get()
		require.NoError(t, err)
		require.Empty(t, token)
	})

	t.Run("set then get", func(t *testing.T) {
		store, err := tokenstore.NewFileStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set("T1"))
		token, err := store.Get()
		require.NoError(t, err)
		require.Equal(t, "T1", token)
	})

	t.Run("set overwrites", func(t *testing.T) {
		store, err := tokenstore.NewFileStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set("T1"))
		require.NoError(t, store.Set("T2"))
		token, err := store.Get()
		require.NoError(t, err)
		require.Equal(t, "T2", token)
	})

	t.Run("survives a restart", func(t *testing.T) {
		dir := t.TempDir()
		store, err := tokenstore.NewFileStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set("T1"))

		reopened, err := tokenstore.NewFileStore(dir)
		require.NoError(t, err)
		token, err := reopened.Get()
		require.NoError(t, err)
		require.Equal(t, "T1", token)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		store, err := tokenstore.NewFileStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Set("T1"))

		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		token, err := store.Get()
		require.NoError(t, err)
		require.Empty(t, token)
	})

	t.Run("requires a data folder", func(t *testing.T) {
		_, err := tokenstore.NewFileStore("")
		require.Error(t, err)
	})
}
