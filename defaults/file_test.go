package defaults_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxmanager/tbx/defaults"
)

func TestFileStore_CreatesFileAndDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "defaults.yaml")
	store := defaults.NewFileStore(path, "")

	require.NoError(t, store.SetAll(ctx, defaults.Record{Login: "alice", Password: "pw"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tbxmanager:")
	assert.Contains(t, string(data), "login: alice")
}

func TestFileStore_NamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "defaults.yaml")

	first := defaults.NewFileStore(path, "first")
	second := defaults.NewFileStore(path, "second")

	require.NoError(t, first.SetAll(ctx, defaults.Record{Package: "one"}))
	require.NoError(t, second.SetAll(ctx, defaults.Record{Package: "two"}))

	got, err := first.Get(ctx, "package")
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	require.NoError(t, first.DeleteAll(ctx))

	got, err = second.Get(ctx, "package")
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	_, err = os.Stat(path)
	assert.NoError(t, err, "file must remain while a namespace is left")
}

func TestFileStore_DeleteAllRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	store := defaults.NewFileStore(path, "")

	require.NoError(t, store.SetAll(ctx, defaults.Record{Package: "mpt"}))
	require.NoError(t, store.DeleteAll(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_InvalidYAML(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`invalid: [yaml: content`), 0o600))

	store := defaults.NewFileStore(path, "")
	_, err := store.Get(ctx, "login")
	assert.ErrorContains(t, err, "parse defaults file")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		store, cleanup, err := defaults.Open(ctx, defaults.Config{Type: "file", Path: filepath.Join(dir, "d.yaml")})
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &defaults.FileStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, cleanup, err := defaults.Open(ctx, defaults.Config{Type: "sqlite", Path: filepath.Join(dir, "d.db")})
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &defaults.SQLiteStore{}, store)

		require.NoError(t, store.SetAll(ctx, defaults.Record{Platform: "all"}))
		got, err := store.Get(ctx, "platform")
		require.NoError(t, err)
		assert.Equal(t, "all", got)
	})

	t.Run("sqlite creates parent directory", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "tbx", "d.db")
		_, cleanup, err := defaults.Open(ctx, defaults.Config{Type: "sqlite", Path: path})
		require.NoError(t, err)
		defer cleanup()
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("memory", func(t *testing.T) {
		store, cleanup, err := defaults.Open(ctx, defaults.Config{Type: "memory"})
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &defaults.MapStore{}, store)
	})

	t.Run("missing path", func(t *testing.T) {
		_, _, err := defaults.Open(ctx, defaults.Config{Type: "file"})
		assert.Error(t, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, _, err := defaults.Open(ctx, defaults.Config{Type: "postgres", Path: "x"})
		assert.ErrorContains(t, err, "unsupported defaults store type")
	})

	t.Run("invalid table", func(t *testing.T) {
		_, _, err := defaults.Open(ctx, defaults.Config{Type: "sqlite", Path: ":memory:", Table: "Bad-Name"})
		assert.ErrorContains(t, err, "invalid table name")
	})
}
