// Package cache provides the bounded recency cache for user review lists.
package cache

import (
	"container/list"
	"sync"

	"github.com/codeGROOVE-dev/bookworm/review"
)

// ReviewCache maps user IDs to review-list snapshots with least-recently-used
// eviction. Capacity is fixed at construction. Every Get and Set moves the key
// to most-recent. Snapshots are treated as immutable once stored.
//
// The cache presents a single-consumer-at-a-time contract to its host; the
// mutex makes interleaved callers safe without any ordering promise between
// them.
type ReviewCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recent
	maxSize int
}

type entry struct {
	userID  string
	reviews []review.Record
}

// NewReviewCache creates a cache holding at most maxSize users.
func NewReviewCache(maxSize int) *ReviewCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &ReviewCache{
		entries: make(map[string]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
	}
}

// Get returns the cached review list for a user and refreshes its recency.
func (c *ReviewCache) Get(userID string) ([]review.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).reviews, true //nolint:forcetypeassert // only entries are stored
}

// Set stores a review-list snapshot for a user, evicting the least-recently-
// used entry when the cache is full.
func (c *ReviewCache) Set(userID string, reviews []review.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[userID]; ok {
		elem.Value.(*entry).reviews = reviews //nolint:forcetypeassert // only entries are stored
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).userID) //nolint:forcetypeassert // only entries are stored
		}
	}

	c.entries[userID] = c.order.PushFront(&entry{userID: userID, reviews: reviews})
}

// Len returns the number of cached users.
func (c *ReviewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
