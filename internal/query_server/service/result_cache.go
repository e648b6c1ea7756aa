package service

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/spyglass-dev/spyglass/internal/query_engine/query"
)

var (
	ErrKeyNotFound = errors.New("key not found in cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
)

// ResultCache holds the row sets of completed query runs. It is bounded:
// under memory pressure old results are evicted and the caller sees the run
// as complete with its results expired.
type ResultCache struct {
	cache *ristretto.Cache
}

func NewResultCache() (*ResultCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &ResultCache{cache: cache}, nil
}

func (rc *ResultCache) Put(runId string, rows []query.ResultRow) error {
	cost := int64(1)
	for _, row := range rows {
		for field, value := range row {
			cost += int64(len(field) + len(value))
		}
	}
	if !rc.cache.Set(runId, rows, cost) {
		return ErrSetFailed
	}
	// Set is buffered; wait so the rows are visible to the next Get.
	rc.cache.Wait()
	return nil
}

func (rc *ResultCache) Get(runId string) ([]query.ResultRow, error) {
	value, found := rc.cache.Get(runId)
	if !found {
		return nil, ErrKeyNotFound
	}
	rows, ok := value.([]query.ResultRow)
	if !ok {
		return nil, fmt.Errorf("value not of expected type %T returned from cache", value)
	}
	return rows, nil
}

func (rc *ResultCache) Delete(runId string) {
	rc.cache.Del(runId)
}
