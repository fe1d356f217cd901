package server

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
	"github.com/google/uuid"

	"bptree"
)

var (
	errTooManyIndexes = errors.New("index limit reached")
	errDuplicateKey   = errors.New("key already exists")
)

// index is one tree plus its range cache. The tree itself is not safe for
// concurrent use: mutations take the write lock, reads share the read lock.
type index struct {
	id      uuid.UUID
	created time.Time

	mu    sync.RWMutex
	tree  *bptree.Tree
	cache *freelru.SyncedLRU[rangeKey, rangeResult] // nil when disabled
}

type rangeKey struct {
	low, high int64
}

type rangeResult struct {
	entries []entry
	etag    string
}

type entry struct {
	Key   int64   `json:"key"`
	Value float64 `json:"value"`
}

func hashRangeKey(k rangeKey) uint32 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], uint64(k.low))
	binary.LittleEndian.PutUint64(b[8:], uint64(k.high))
	return uint32(xxhash.Sum64(b[:]))
}

func newIndex(id uuid.UUID, tree *bptree.Tree, cacheSize uint32) (*index, error) {
	idx := &index{id: id, created: now(), tree: tree}
	if cacheSize > 0 {
		cache, err := freelru.NewSynced[rangeKey, rangeResult](cacheSize, hashRangeKey)
		if err != nil {
			return nil, fmt.Errorf("range cache: %w", err)
		}
		idx.cache = cache
	}
	return idx, nil
}

func (idx *index) insert(key int64, value float64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.tree.Search(key); exists {
		return errDuplicateKey
	}
	idx.tree.Insert(key, value)
	idx.invalidate()
	return nil
}

func (idx *index) delete(key int64) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.tree.Delete(key) {
		return false
	}
	idx.invalidate()
	return true
}

func (idx *index) search(key int64) (float64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.Search(key)
}

// searchRange returns the entries with low <= key <= high and an ETag
// derived from their contents. Results are served from the cache until the
// next mutation.
func (idx *index) searchRange(low, high int64) rangeResult {
	k := rangeKey{low: low, high: high}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.cache != nil {
		if res, ok := idx.cache.Get(k); ok {
			return res
		}
	}

	entries := make([]entry, 0)
	digest := xxhash.New()
	var b [16]byte
	for key, value := range idx.tree.Range(low, high) {
		entries = append(entries, entry{Key: key, Value: value})
		binary.LittleEndian.PutUint64(b[:8], uint64(key))
		binary.LittleEndian.PutUint64(b[8:], math.Float64bits(value))
		_, _ = digest.Write(b[:])
	}

	res := rangeResult{
		entries: entries,
		etag:    fmt.Sprintf(`"%016x"`, digest.Sum64()),
	}
	if idx.cache != nil {
		idx.cache.Add(k, res)
	}
	return res
}

func (idx *index) stats() bptree.Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.Stats()
}

// invalidate drops cached range results. Callers hold the write lock.
func (idx *index) invalidate() {
	if idx.cache != nil {
		idx.cache.Purge()
	}
}
