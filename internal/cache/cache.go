// Package cache provides a bounded in-memory response cache for the
// embedding and generation adapters. Entries are keyed on the exact input
// text plus the model identifier so a cached response can never be returned
// for a different input. The cache is owned by collaborator adapters, never
// by the decision core.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached response with the bookkeeping the eviction policies
// need.
type Entry struct {
	Key          string
	Value        string
	Timestamp    time.Time
	LastAccessAt time.Time
	HitCount     int
}

// EvictionPolicy selects the entry to evict when the cache is full.
// SelectVictim returns -1 when there is nothing to evict.
type EvictionPolicy interface {
	SelectVictim(entries []Entry) int
}

// FIFOPolicy evicts the entry inserted first.
type FIFOPolicy struct{}

func (p *FIFOPolicy) SelectVictim(entries []Entry) int {
	if len(entries) == 0 {
		return -1
	}
	oldest := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[oldest].Timestamp) {
			oldest = i
		}
	}
	return oldest
}

// LRUPolicy evicts the entry accessed least recently.
type LRUPolicy struct{}

func (p *LRUPolicy) SelectVictim(entries []Entry) int {
	if len(entries) == 0 {
		return -1
	}
	oldest := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].LastAccessAt.Before(entries[oldest].LastAccessAt) {
			oldest = i
		}
	}
	return oldest
}

// Cache is a capacity-bounded string cache, safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	policy   EvictionPolicy
	now      func() time.Time
	entries  []Entry
	index    map[string]int
}

// New builds a cache with the given capacity. A nil policy defaults to FIFO;
// a nil clock defaults to time.Now. Capacity must be positive.
func New(capacity int, policy EvictionPolicy, now func() time.Time) *Cache {
	if policy == nil {
		policy = &FIFOPolicy{}
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		capacity: capacity,
		policy:   policy,
		now:      now,
		index:    make(map[string]int, capacity),
	}
}

// Key composes the canonical cache key for a model/input pair. The separator
// cannot occur in either component, so distinct pairs never collide.
func Key(model, text string) string {
	return model + "\x00" + text
}

// Get returns the cached value for key and whether it was present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		return "", false
	}
	c.entries[i].LastAccessAt = c.now()
	c.entries[i].HitCount++
	return c.entries[i].Value, true
}

// Put inserts or replaces the value for key, evicting one entry via the
// policy when the cache is at capacity.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now()
	if i, ok := c.index[key]; ok {
		c.entries[i].Value = value
		c.entries[i].LastAccessAt = ts
		return
	}

	if len(c.entries) >= c.capacity {
		victim := c.policy.SelectVictim(c.entries)
		if victim < 0 {
			return
		}
		delete(c.index, c.entries[victim].Key)
		last := len(c.entries) - 1
		if victim != last {
			c.entries[victim] = c.entries[last]
			c.index[c.entries[victim].Key] = victim
		}
		c.entries = c.entries[:last]
	}

	c.entries = append(c.entries, Entry{
		Key:          key,
		Value:        value,
		Timestamp:    ts,
		LastAccessAt: ts,
	})
	c.index[key] = len(c.entries) - 1
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
