package evalbackend

import (
	"container/list"
	"sync"

	"github.com/pathkit/jsonpath/internal/ratelimit"
)

const (
	defaultProgramCacheSize = 256
	defaultProgramSweepRate = 50
)

// ProgramCache memoizes Backend.Compile results, keyed by the backend's
// tag plus source text per §4.2: two backends can compile the same
// source text to different programs, so the tag is part of the key.
type ProgramCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[cacheKey]*list.Element
	order   *list.List
	sweeper *ratelimit.Limiter
}

type cacheKey struct {
	tag    string
	source string
}

type programCacheEntry struct {
	key cacheKey
	prg Program
}

// NewProgramCache returns a cache bounded at maxSize entries, falling
// back to a default when maxSize <= 0.
func NewProgramCache(maxSize int) *ProgramCache {
	if maxSize <= 0 {
		maxSize = defaultProgramCacheSize
	}
	return &ProgramCache{
		maxSize: maxSize,
		entries: make(map[cacheKey]*list.Element),
		order:   list.New(),
		sweeper: ratelimit.New(defaultProgramSweepRate),
	}
}

// Compile returns b's compiled Program for source, compiling and
// caching it on a miss.
func (c *ProgramCache) Compile(b Backend, source string) (Program, error) {
	key := cacheKey{tag: b.Tag(), source: source}

	if prg, ok := c.get(key); ok {
		return prg, nil
	}

	prg, err := b.Compile(source)
	if err != nil {
		return nil, err
	}

	c.put(key, prg)
	return prg, nil
}

func (c *ProgramCache) get(key cacheKey) (Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*programCacheEntry).prg, true
}

func (c *ProgramCache) put(key cacheKey, prg Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*programCacheEntry).prg = prg
		return
	}

	el := c.order.PushFront(&programCacheEntry{key: key, prg: prg})
	c.entries[key] = el

	if c.order.Len() > c.maxSize && c.sweeper.Allow() {
		c.evictExcess()
	}
}

func (c *ProgramCache) evictExcess() {
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*programCacheEntry).key)
	}
}

// Len reports the number of cached programs.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats is a snapshot of a ProgramCache's occupancy.
type Stats struct {
	Len       int
	MaxSize   int
	SweepRate float64 // eviction sweeps per second currently allowed, 0 = unlimited
}

// Stats reports the cache's current size, configured bound, and eviction
// sweep rate.
func (c *ProgramCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: c.order.Len(), MaxSize: c.maxSize, SweepRate: c.sweeper.Limit()}
}
