package service

import (
	"testing"

	"github.com/spyglass-dev/spyglass/internal/query_engine/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCache(t *testing.T) {
	cache, err := NewResultCache()
	require.NoError(t, err)

	t.Run("returns error if key is not found", func(t *testing.T) {
		_, err := cache.Get("missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("returns cached rows after put", func(t *testing.T) {
		rows := []query.ResultRow{{"@message": "m1"}, {"@message": "m2"}}
		require.NoError(t, cache.Put("run-1", rows))

		got, err := cache.Get("run-1")
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("delete removes the rows", func(t *testing.T) {
		require.NoError(t, cache.Put("run-2", []query.ResultRow{{"a": "b"}}))
		cache.Delete("run-2")
		_, err := cache.Get("run-2")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}
