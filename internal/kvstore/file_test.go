package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set("authToken", "tok-123"))
	require.NoError(t, store.Set("userData", `{"id":"1"}`))

	v, err := store.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", v)

	// A new instance over the same path sees the persisted values.
	reopened := NewFileStore(path)
	v, err = reopened.Get("userData")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, v)
}

func TestFileStoreMissingKey(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, store.Set("authToken", "tok"))
	require.NoError(t, store.Delete("authToken"))

	_, err := store.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("authToken"))
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	_, err := store.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)

	// And it is writable again afterwards.
	require.NoError(t, store.Set("authToken", "tok"))
	v, err := store.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}
