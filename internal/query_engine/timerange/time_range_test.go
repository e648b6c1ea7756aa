package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelative(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("1h window ends at now and spans exactly one hour", func(t *testing.T) {
		result, err := Resolve(Relative(Window1h), now)
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), result.EndMs)
		assert.Equal(t, int64(3_600_000), result.EndMs-result.StartMs)
	})

	t.Run("6h window spans exactly six hours", func(t *testing.T) {
		result, err := Resolve(Relative(Window6h), now)
		require.NoError(t, err)
		assert.Equal(t, int64(21_600_000), result.EndMs-result.StartMs)
	})

	t.Run("24h window spans exactly one day", func(t *testing.T) {
		result, err := Resolve(Relative(Window24h), now)
		require.NoError(t, err)
		assert.Equal(t, int64(86_400_000), result.EndMs-result.StartMs)
	})

	t.Run("resolution is deterministic for a fixed now", func(t *testing.T) {
		first, err := Resolve(Relative(Window1h), now)
		require.NoError(t, err)
		second, err := Resolve(Relative(Window1h), now)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestResolveAllTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	result, err := Resolve(AllTime(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.StartMs)
	assert.Equal(t, now.UnixMilli(), result.EndMs)
}

func TestResolveCustom(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("parses local wall-clock bounds at minute precision", func(t *testing.T) {
		result, err := Resolve(Custom("2024-01-01T10:00", "2024-01-02T10:00"), now)
		require.NoError(t, err)
		start, err := time.ParseInLocation(CustomLayout, "2024-01-01T10:00", time.Local)
		require.NoError(t, err)
		end, err := time.ParseInLocation(CustomLayout, "2024-01-02T10:00", time.Local)
		require.NoError(t, err)
		assert.Equal(t, start.UnixMilli(), result.StartMs)
		assert.Equal(t, end.UnixMilli(), result.EndMs)
	})

	t.Run("equal bounds are allowed", func(t *testing.T) {
		result, err := Resolve(Custom("2024-01-01T10:00", "2024-01-01T10:00"), now)
		require.NoError(t, err)
		assert.Equal(t, result.StartMs, result.EndMs)
	})

	t.Run("inverted bounds are a user error", func(t *testing.T) {
		_, err := Resolve(Custom("2024-01-02T10:00", "2024-01-01T10:00"), now)
		assert.ErrorIs(t, err, ErrInvertedRange)
	})

	t.Run("unparsable start is rejected", func(t *testing.T) {
		_, err := Resolve(Custom("not-a-time", "2024-01-01T10:00"), now)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("unparsable end is rejected", func(t *testing.T) {
		_, err := Resolve(Custom("2024-01-01T10:00", "yesterday"), now)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}
