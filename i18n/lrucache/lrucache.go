// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache.
The cache evicts the least recently used entry when it reaches capacity.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache[K comparable, V any] struct {
	size      int                 // Maximum capacity of the cache (number of entries)
	evictList *list.List          // Front is the most recently used entry
	items     map[K]*list.Element // Maps keys to their linked-list elements
	lock      sync.Mutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a new cache with the specified maximum size.
//
// It returns an error if size is not a positive integer.
func New[K comparable, V any](size int) (*Cache[K, V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[K, V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}, nil
}

// Add adds or updates the value for key.
//
// If the key exists, it becomes the most recently used.
// If the cache is at capacity, the least recently used item is evicted.
// Add reports whether an eviction occurred.
func (c *Cache[K, V]) Add(key K, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value.(*entry[K, V]).value = value

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// AddIfAbsent adds key only when it is not cached, as one atomic step. An
// existing key becomes the most recently used and keeps its value.
// AddIfAbsent reports whether key was added.
func (c *Cache[K, V]) AddIfAbsent(key K, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})

	if c.evictList.Len() > c.size {
		c.removeElement(c.evictList.Back())
	}

	return true
}

// Get retrieves the value for key and marks it as most recently used.
// The second result reports whether the key was found.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	c.evictList.MoveToFront(el)

	return el.Value.(*entry[K, V]).value, true
}

// Peek retrieves the value for key without modifying the LRU order.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	return el.Value.(*entry[K, V]).value, true
}

// GetOrAdd returns the cached value for key, or computes it with fn, stores
// and returns it. fn runs without the lock held, so two concurrent misses may
// both compute; the last one wins.
func (c *Cache[K, V]) GetOrAdd(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}

	v := fn()
	c.Add(key, v)

	return v
}

// Remove deletes the entry associated with key from the cache.
//
// Remove reports whether the key was present and removed.
func (c *Cache[K, V]) Remove(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)

		return true
	}

	return false
}

// Keys returns all keys in the cache, from the oldest to the newest.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]K, 0, len(c.items))

	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}

	return keys
}

// Len returns the current number of items in the cache.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *Cache[K, V]) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
}
