package seotag

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// PostSource is the read side of the Store that PostCache fronts.
type PostSource interface {
	ListPosts(tag string) ([]Post, error)
	ListTags() ([]string, error)
	GetPost(slug string) (Post, error)
}

type listing struct {
	posts []Post
	tags  []string
}

// PostCache keeps published posts, tags and single-post lookups in memory
// for ttl. Misses on unknown slugs are not cached.
type PostCache struct {
	src PostSource

	// mu serializes listing reloads so concurrent misses hit the store once.
	mu       sync.Mutex
	listings *expirable.LRU[string, listing]
	posts    *expirable.LRU[string, Post]
}

const listingKey = "published"

// NewPostCache creates a PostCache backed by src holding up to size posts.
func NewPostCache(src PostSource, size int, ttl time.Duration) *PostCache {
	return &PostCache{
		src:      src,
		listings: expirable.NewLRU[string, listing](1, nil, ttl),
		posts:    expirable.NewLRU[string, Post](size, nil, ttl),
	}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.listings.Purge()
	c.posts.Purge()
}

func (c *PostCache) ensureLoaded() (listing, error) {
	if l, ok := c.listings.Get(listingKey); ok {
		return l, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.listings.Get(listingKey); ok {
		return l, nil
	}
	posts, err := c.src.ListPosts("")
	if err != nil {
		return listing{}, err
	}
	tags, err := c.src.ListTags()
	if err != nil {
		return listing{}, err
	}
	l := listing{posts: posts, tags: tags}
	c.listings.Add(listingKey, l)
	return l, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	l, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return l.posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Post
	for _, p := range l.posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	l, err := c.ensureLoaded()
	return l.tags, err
}

// GetPost returns a single published post by slug.
func (c *PostCache) GetPost(slug string) (Post, error) {
	if p, ok := c.posts.Get(slug); ok {
		return p, nil
	}
	p, err := c.src.GetPost(slug)
	if err != nil {
		return Post{}, err
	}
	c.posts.Add(slug, p)
	return p, nil
}
