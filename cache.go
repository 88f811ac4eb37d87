package folio

import (
	"sync"
	"time"
)

// contentCache is an in-memory TTL cache over the public read paths:
// published posts and featured apps. Every admin write invalidates it.
type contentCache struct {
	mu       sync.RWMutex
	posts    []BlogPost
	featured []AppListing
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

func newContentCache(s *Store, ttl time.Duration) *contentCache {
	return &contentCache{store: s, ttl: ttl}
}

func (c *contentCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *contentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.featured = nil
	c.mu.Unlock()
}

func (c *contentCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPublishedPosts()
	if err != nil {
		return err
	}
	featured, err := c.store.ListFeaturedApps(featuredLimit)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.featured = featured
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first; only takes a write lock if a
// reload is needed.
func (c *contentCache) ensureLoaded() ([]BlogPost, []AppListing, error) {
	c.mu.RLock()
	if c.valid() {
		posts, featured := c.posts, c.featured
		c.mu.RUnlock()
		return posts, featured, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.featured, nil
}

// PublishedPosts returns published posts, newest first.
func (c *contentCache) PublishedPosts() ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// FeaturedApps returns the featured app listings for the home page.
func (c *contentCache) FeaturedApps() ([]AppListing, error) {
	_, featured, err := c.ensureLoaded()
	return featured, err
}

const featuredLimit = 3
