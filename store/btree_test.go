package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")

	// nothing there yet
	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, base.Set(k, v))
	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	has, err := base.Has(k)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBTreeCacheWrapWrite(t *testing.T) {
	base := MemStore()
	k, v := []byte("top"), []byte("hat")

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	// not visible on the base until written
	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())

	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestBTreeCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	k, v := []byte("winter"), []byte("storm")
	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("extra"), []byte("entry")))
	require.NoError(t, cache.Delete(k))

	// the wrap sees its own writes
	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	cache.Discard()

	// the base is untouched
	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
	has, err := base.Has([]byte("extra"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBTreeCacheWrapShadowsDelete(t *testing.T) {
	base := MemStore()
	k, v := []byte("sun"), []byte("set")
	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete(k))
	require.NoError(t, cache.Write())

	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBTreeCacheWrapIterator(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("c"), []byte("3")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("c")))

	iter, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	var keys, values []string
	for ; iter.Valid(); require.NoError(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
		values = append(values, string(iter.Value()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, []string{"1", "2"}, values)
}

func TestBTreeCacheWrapReverseIterator(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("c"), []byte("3")))

	iter, err := cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); require.NoError(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}
