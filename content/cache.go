package content

import (
	"sync"
	"time"
)

// Cache memoizes a Service's results. Entries are published whole under a
// write lock and never mutated afterwards; readers always get copies.
//
// When the store implements Versioner, the cache is dropped as soon as the
// version changes. Otherwise entries expire after ttl.
type Cache struct {
	svc *Service
	ttl time.Duration

	mu       sync.RWMutex
	gen      uint64 // bumped by Invalidate
	version  string
	fetched  time.Time
	index    *Index
	articles map[string]Article
}

// NewCache wraps svc. ttl only applies to stores without a Versioner.
func NewCache(svc *Service, ttl time.Duration) *Cache {
	return &Cache{svc: svc, ttl: ttl, articles: make(map[string]Article)}
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Loads already in flight are not published.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.reset("")
	c.mu.Unlock()
}

// stamp identifies the cache state a load started from. A result is only
// published if the state is unchanged when the load finishes.
type stamp struct {
	gen     uint64
	version string
	fetched time.Time
}

func (c *Cache) current() stamp {
	return stamp{gen: c.gen, version: c.version, fetched: c.fetched}
}

func (c *Cache) reset(version string) {
	c.version = version
	c.fetched = time.Now()
	c.index = nil
	c.articles = make(map[string]Article)
}

// sync drops stale entries. It returns the stamp the caller should tag
// new entries with.
func (c *Cache) sync() (stamp, error) {
	if v, ok := c.svc.store.(Versioner); ok {
		version, err := v.Version()
		if err != nil {
			return stamp{}, err
		}
		c.mu.RLock()
		st := c.current()
		c.mu.RUnlock()
		if st.version != version {
			c.mu.Lock()
			if version != c.version {
				c.reset(version)
			}
			st = c.current()
			c.mu.Unlock()
		}
		return st, nil
	}

	c.mu.RLock()
	expired := time.Since(c.fetched) >= c.ttl
	st := c.current()
	c.mu.RUnlock()
	if expired {
		c.mu.Lock()
		if time.Since(c.fetched) >= c.ttl {
			c.reset("")
		}
		st = c.current()
		c.mu.Unlock()
	}
	return st, nil
}

// GetArticle returns a cached article or renders and publishes it.
func (c *Cache) GetArticle(slug string) (Article, error) {
	st, err := c.sync()
	if err != nil {
		return Article{}, err
	}
	c.mu.RLock()
	a, ok := c.articles[slug]
	c.mu.RUnlock()
	if ok {
		a.Extra = cloneExtra(a.Extra)
		return a, nil
	}

	a, err = c.svc.GetArticle(slug)
	if err != nil {
		return Article{}, err
	}
	c.mu.Lock()
	if c.current() == st {
		c.articles[slug] = a
	}
	c.mu.Unlock()
	a.Extra = cloneExtra(a.Extra)
	return a, nil
}

// GetCategorizedArticles returns a copy of the cached index, building it if needed.
func (c *Cache) GetCategorizedArticles() (*Index, error) {
	st, err := c.sync()
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	idx := c.index
	c.mu.RUnlock()
	if idx != nil {
		return idx.clone(), nil
	}

	idx, err = c.svc.GetCategorizedArticles()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.current() == st {
		c.index = idx
	}
	c.mu.Unlock()
	return idx.clone(), nil
}
