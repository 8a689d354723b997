package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreSetGet(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)

	ok, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Delete(ctx, "k"))
	val, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestMemoryStateStoreTTL(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestMemoryStateStoreGetDel(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	val, err := store.GetDel(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)

	// The first consumer took it with them.
	val, err = store.GetDel(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestMemoryStateStoreGetDelExpired(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	val, err := store.GetDel(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)
}
