package news

import (
	"container/list"
	"sync"
	"time"

	"news-hub/internal/domain/entity"
	"news-hub/internal/observability/metrics"
)

// ArticleCache maps article ids to the articles seen in recent searches.
type ArticleCache interface {
	Get(id string) (entity.Article, bool)
	Put(articles ...entity.Article)
	Len() int
}

// MemoryCache is an in-process ArticleCache.
// Entries expire after ttl; when maxEntries is reached expired entries are swept first,
// then the oldest insertions are evicted. Insertion order is kept in a list so eviction
// only touches the entries it removes.
//
// Thread safety: MemoryCache is safe for concurrent use.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*list.Element
	order      *list.List // of *cacheEntry, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	article  entity.Article
	storedAt time.Time
}

// NewMemoryCache creates a cache. A zero ttl disables expiry, a zero maxEntries disables the bound.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached article for id.
func (c *MemoryCache) Get(id string) (entity.Article, bool) {
	c.mu.RLock()
	var (
		e  cacheEntry
		ok bool
	)
	if el, found := c.entries[id]; found {
		e, ok = *el.Value.(*cacheEntry), true
	}
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		metrics.RecordCacheLookup("miss")
		return entity.Article{}, false
	}
	metrics.RecordCacheLookup("hit")
	return e.article, true
}

// Put stores articles, overwriting any entry with the same id.
// An overwritten entry counts as the newest insertion.
func (c *MemoryCache) Put(articles ...entity.Article) {
	if len(articles) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, a := range articles {
		if el, exists := c.entries[a.ID]; exists {
			el.Value = &cacheEntry{article: a, storedAt: now}
			c.order.MoveToBack(el)
			continue
		}
		if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
			c.evictLocked()
		}
		c.entries[a.ID] = c.order.PushBack(&cacheEntry{article: a, storedAt: now})
	}
	metrics.UpdateCacheEntries(len(c.entries))
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}

// evictLocked frees at least one slot. Caller must hold mu.
// The list is ordered by storedAt, so expired entries form its front.
func (c *MemoryCache) evictLocked() {
	for el := c.order.Front(); el != nil; el = c.order.Front() {
		if !c.expired(*el.Value.(*cacheEntry)) {
			break
		}
		c.removeLocked(el)
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	if el := c.order.Front(); el != nil {
		c.removeLocked(el)
	}
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	e := c.order.Remove(el).(*cacheEntry)
	delete(c.entries, e.article.ID)
}
