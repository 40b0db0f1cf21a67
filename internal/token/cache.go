package token

import (
	"container/list"
	"sync"

	"github.com/pathkit/jsonpath/internal/ratelimit"
)

const (
	defaultCacheSize = 512
	defaultSweepRate = 50 // eviction sweeps per second, at most
)

// Cache memoizes Compile by expression text, per §5's requirement that
// the token cache is a pure function of input strings. It bounds itself
// with an approximate LRU: eviction is only attempted when the sweep
// limiter allows it, so a burst of unique expressions doesn't pay a
// full-list scan on every single insert. Between sweeps the cache may
// temporarily hold a few more than maxSize entries.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	sweeper *ratelimit.Limiter
}

type cacheEntry struct {
	key    string
	tokens []Token
}

// NewCache returns a cache bounded at maxSize entries. maxSize <= 0
// falls back to a sensible default rather than growing unboundedly;
// §9 discourages unbounded process-wide state.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		sweeper: ratelimit.New(defaultSweepRate),
	}
}

// Compile returns the cached token list for expr, compiling and storing
// it on a miss.
func (c *Cache) Compile(expr string) ([]Token, error) {
	if tokens, ok := c.get(expr); ok {
		return tokens, nil
	}

	tokens, err := Compile(expr)
	if err != nil {
		return nil, err
	}

	c.put(expr, tokens)
	return tokens, nil
}

func (c *Cache) get(expr string) ([]Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[expr]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).tokens, true
}

func (c *Cache) put(expr string, tokens []Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[expr]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).tokens = tokens
		return
	}

	el := c.order.PushFront(&cacheEntry{key: expr, tokens: tokens})
	c.entries[expr] = el

	if c.order.Len() > c.maxSize && c.sweeper.Allow() {
		c.evictExcess()
	}
}

func (c *Cache) evictExcess() {
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len reports the number of entries currently cached, mostly useful for
// tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats is a snapshot of a Cache's occupancy, for callers that expose
// runtime diagnostics without reaching into the cache's internals.
type Stats struct {
	Len       int
	MaxSize   int
	SweepRate float64 // eviction sweeps per second currently allowed, 0 = unlimited
}

// Stats reports the cache's current size, configured bound, and eviction
// sweep rate.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: c.order.Len(), MaxSize: c.maxSize, SweepRate: c.sweeper.Limit()}
}
