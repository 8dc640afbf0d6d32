package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStorageContract(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyToken, "tok-123"))
	v, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-123", v)

	require.NoError(t, s.Set(KeyToken, "tok-456"))
	v, _, _ = s.Get(KeyToken)
	assert.Equal(t, "tok-456", v)

	require.NoError(t, s.Delete(KeyToken))
	_, ok, err = s.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	require.NoError(t, s.Delete(KeyToken))

	require.NoError(t, s.Set(KeyUser, `{"name":"Ada"}`))
	require.NoError(t, s.Set(KeyCartItems, `[]`))
	require.NoError(t, s.Clear())
	_, ok, _ = s.Get(KeyUser)
	assert.False(t, ok)
	_, ok, _ = s.Get(KeyCartItems)
	assert.False(t, ok)
}

func TestMemoryStorage(t *testing.T) {
	runStorageContract(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	s, err := NewFileStorage(path)
	require.NoError(t, err)
	runStorageContract(t, s)
}

func TestFileStorageReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	s, err := NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyCartItems, `[{"id":"1","quantity":2}]`))

	again, err := NewFileStorage(path)
	require.NoError(t, err)
	v, ok, err := again.Get(KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1","quantity":2}]`, v)
}

func TestFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFileStorage(path)
	assert.Error(t, err)
}

func TestFileStorageLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(filepath.Join(dir, "ctx.json"))
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ctx.json", entries[0].Name())
}

func TestRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedisStorage(mr.Addr(), uuid.NewString())
	require.NoError(t, err)
	runStorageContract(t, s)
}

func TestRedisStorageContextsAreIsolated(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	a, err := NewRedisStorage(mr.Addr(), "ctx-a")
	require.NoError(t, err)
	b, err := NewRedisStorage(mr.Addr(), "ctx-b")
	require.NoError(t, err)

	require.NoError(t, a.Set(KeyToken, "tok-a"))
	_, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "contexts must not share keys")
}
