package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte(`{"id":"1"}`)
	require.NoError(t, store.Set(ctx, "user", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))

	got[0] = 'Y'
	again, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(again))

	require.NoError(t, store.Remove(ctx, "user"))
	require.NoError(t, store.Remove(ctx, "user"))
	_, err = store.Get(ctx, "user")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestPrefixedStore(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()
	a := NewPrefixedStore(backing, "session:a:")
	b := NewPrefixedStore(backing, "session:b:")

	require.NoError(t, a.Set(ctx, "ecommerce_user", []byte("alice")))
	require.NoError(t, b.Set(ctx, "ecommerce_user", []byte("bob")))

	got, err := a.Get(ctx, "ecommerce_user")
	require.NoError(t, err)
	assert.Equal(t, "alice", string(got))

	raw, err := backing.Get(ctx, "session:b:ecommerce_user")
	require.NoError(t, err)
	assert.Equal(t, "bob", string(raw))

	require.NoError(t, a.Remove(ctx, "ecommerce_user"))
	_, err = a.Get(ctx, "ecommerce_user")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 1, backing.Len())
}
