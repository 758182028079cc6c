package storage

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// pageCache keeps copies of recently used page buffers. Writes go to disk first and then
// replace the cached copy, so a miss is always safe.
type pageCache struct {
	cache *ristretto.Cache[uint64, []byte]
}

func newPageCache(pages int) (*pageCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, []byte]{
		NumCounters: int64(pages) * 10,
		MaxCost:     int64(pages),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &pageCache{cache: c}, nil
}

func (pc *pageCache) get(num PageNum) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	data, ok := pc.cache.Get(uint64(num))
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (pc *pageCache) put(num PageNum, data []byte) {
	if pc == nil {
		return
	}
	// Drop the previous copy first so a rejected Set cannot leave stale bytes behind.
	pc.cache.Del(uint64(num))
	pc.cache.Set(uint64(num), append([]byte(nil), data...), 1)
	pc.cache.Wait()
}

func (pc *pageCache) close() {
	if pc == nil {
		return
	}
	pc.cache.Close()
}
