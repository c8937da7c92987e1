package portfolio

import (
	"strings"
	"sync"
	"time"

	"github.com/derekaspaulding/portfolio/content"
	"github.com/derekaspaulding/portfolio/metrics"
)

// PostCache is an in-memory cache of the posts in a content library with a
// TTL. Invalidate forces the next read to reload from disk.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	lib     *content.Library
}

// NewPostCache creates a PostCache backed by lib.
func NewPostCache(lib *content.Library, ttl time.Duration) *PostCache {
	return &PostCache{lib: lib, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.lib.Posts()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	c.posts = posts
	c.bySlug = bySlug
	c.fetched = time.Now()
	metrics.PostsLoaded.Set(float64(len(posts)))
	return nil
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]content.Post, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bySlug := c.posts, c.bySlug
		c.mu.RUnlock()
		return posts, bySlug, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bySlug, nil
}

// ListPosts returns every post, newest first.
func (c *PostCache) ListPosts() ([]content.Post, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// Recent returns at most n of the newest posts.
func (c *PostCache) Recent(n int) ([]content.Post, error) {
	posts, err := c.ListPosts()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// GetPost returns the post whose slug matches, along with its newer and
// older neighbours (nil at either end). The slug may omit the surrounding
// slashes.
func (c *PostCache) GetPost(slug string) (post content.Post, newer, older *content.Post, err error) {
	posts, bySlug, err := c.ensureLoaded()
	if err != nil {
		return content.Post{}, nil, nil, err
	}
	i, ok := bySlug["/"+strings.Trim(slug, "/")+"/"]
	if !ok {
		return content.Post{}, nil, nil, ErrNotFound
	}
	if i > 0 {
		newer = &posts[i-1]
	}
	if i < len(posts)-1 {
		older = &posts[i+1]
	}
	return posts[i], newer, older, nil
}
