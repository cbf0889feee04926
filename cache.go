package sheetfix

import "sync"

// DefaultCacheEntries bounds a DetectionCache created with a zero size
const DefaultCacheEntries = 4096

type detectKey struct {
	snapshot uint64
	column   string
}

// DetectionCache memoizes detections per (snapshot identity, column).
// Snapshots are immutable, so an entry can never go stale; the cache only
// bounds memory by dropping the oldest snapshot's entries first.
type DetectionCache struct {
	mu     sync.RWMutex
	data   map[detectKey]Detection
	order  []uint64 // snapshot ids, least recently written first
	max    int
	hits   int
	misses int
}

// NewDetectionCache creates a cache holding at most maxEntries detections
func NewDetectionCache(maxEntries int) *DetectionCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &DetectionCache{
		data: make(map[detectKey]Detection),
		max:  maxEntries,
	}
}

// Get retrieves a memoized detection
func (c *DetectionCache) Get(snapshot uint64, column string) (Detection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	det, ok := c.data[detectKey{snapshot, column}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return det, ok
}

// Put stores a detection, evicting whole snapshots oldest first when full
func (c *DetectionCache) Put(snapshot uint64, column string, det Detection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := detectKey{snapshot, column}
	if _, exists := c.data[key]; exists {
		c.data[key] = det
		return
	}

	c.touchLocked(snapshot)

	for len(c.data) >= c.max && len(c.order) > 1 {
		c.evictLocked(c.order[0])
		c.order = c.order[1:]
	}

	c.data[key] = det
}

// Size returns the number of memoized detections
func (c *DetectionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Stats returns hit and miss counts
func (c *DetectionCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits, c.misses
}

// Clear removes all data
func (c *DetectionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[detectKey]Detection)
	c.order = nil
}

// touchLocked moves snapshot to the newest end of the eviction order
func (c *DetectionCache) touchLocked(snapshot uint64) {
	if n := len(c.order); n > 0 && c.order[n-1] == snapshot {
		return
	}
	for i, id := range c.order {
		if id == snapshot {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, snapshot)
}

func (c *DetectionCache) evictLocked(snapshot uint64) {
	for k := range c.data {
		if k.snapshot == snapshot {
			delete(c.data, k)
		}
	}
}
