// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package literalcache implements a Cache that de-duplicates literals.
//
// Literals are bucketed by their structural hash (Literal.Hash, which depends only on the shape),
// and within a bucket a match is confirmed by comparing raw contents (Literal.BitEqual), so -0 and +0
// are different entries, and NaNs are de-duplicated. Different
// literals with the same shape share a bucket, and are counted as collisions.
//
// Each interned literal gets an Entry with a unique ID, which can be used as a handle for it.
//
// The Cache is safe for concurrent use.
package literalcache

import (
	"sync"

	"github.com/gomlx/lazytensors/pkg/core/literals"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Entry is a literal interned in the Cache.
type Entry struct {
	// ID is the unique handle of the entry.
	ID uuid.UUID

	// Hash is the structural hash of Literal.
	Hash uint64

	// Literal is owned by the Cache: it must not be modified.
	Literal *literals.Literal
}

// Stats of a Cache, see Cache.Stats.
type Stats struct {
	// Hits counts Intern calls that found an equal literal.
	Hits int

	// Misses counts Intern calls that inserted a new entry.
	Misses int

	// Collisions counts misses whose hash bucket already had (different) literals.
	Collisions int

	// Buckets is the current number of distinct hashes.
	Buckets int

	// Entries is the current number of interned literals.
	Entries int
}

// Cache de-duplicates literals. Create it with New.
type Cache struct {
	mu         sync.Mutex
	buckets    map[uint64][]*Entry
	byID       map[uuid.UUID]*Entry
	hits       int
	misses     int
	collisions int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		buckets: make(map[uint64][]*Entry),
		byID:    make(map[uuid.UUID]*Entry),
	}
}

// lockedFind returns the entry in the bucket bit-equal to l, or nil.
func (c *Cache) lockedFind(hash uint64, l *literals.Literal) *Entry {
	for _, entry := range c.buckets[hash] {
		if entry.Literal.BitEqual(l) {
			return entry
		}
	}
	return nil
}

// Intern returns the entry for a literal bit-equal to l, and whether it was already present.
//
// On a miss, l is inserted and its ownership moves to the Cache. On a hit, the caller keeps the
// ownership of l, which can be finalized if no longer needed.
//
// It panics if l has a tuple shape, see Literal.Hash.
func (c *Cache) Intern(l *literals.Literal) (entry *Entry, found bool) {
	hash := l.Hash()
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry = c.lockedFind(hash, l); entry != nil {
		c.hits++
		return entry, true
	}
	c.misses++
	if len(c.buckets[hash]) > 0 {
		c.collisions++
		klog.V(1).Infof("literalcache: hash %016x shared by %d literals of shape %s",
			hash, len(c.buckets[hash])+1, l.Shape())
	}
	entry = &Entry{ID: uuid.New(), Hash: hash, Literal: l}
	c.buckets[hash] = append(c.buckets[hash], entry)
	c.byID[entry.ID] = entry
	klog.V(2).Infof("literalcache: interned %s as %s", l.Shape(), entry.ID)
	return entry, false
}

// Lookup returns the entry for a literal bit-equal to l, or nil if there is none. It doesn't change the Cache.
func (c *Cache) Lookup(l *literals.Literal) *Entry {
	hash := l.Hash()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockedFind(hash, l)
}

// Get returns the entry with the given ID.
func (c *Cache) Get(id uuid.UUID) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, found := c.byID[id]
	return entry, found
}

// Remove the entry with the given ID from the Cache, and returns it.
// The ownership of the entry's literal moves back to the caller.
// It returns nil if the ID is not in the Cache.
func (c *Cache) Remove(id uuid.UUID) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, found := c.byID[id]
	if !found {
		return nil
	}
	delete(c.byID, id)
	bucket := c.buckets[entry.Hash]
	for ii, candidate := range bucket {
		if candidate == entry {
			bucket = append(bucket[:ii], bucket[ii+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.buckets, entry.Hash)
	} else {
		c.buckets[entry.Hash] = bucket
	}
	return entry
}

// Len returns the number of interned literals.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byID)
}

// Stats returns a snapshot of the Cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Collisions: c.collisions,
		Buckets:    len(c.buckets),
		Entries:    len(c.byID),
	}
}

// Reset removes all entries and zeroes the statistics.
// If finalize is true, the storage of all interned literals is freed.
func (c *Cache) Reset(finalize bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if finalize {
		for _, entry := range c.byID {
			entry.Literal.Finalize()
		}
	}
	c.buckets = make(map[uint64][]*Entry)
	c.byID = make(map[uuid.UUID]*Entry)
	c.hits, c.misses, c.collisions = 0, 0, 0
}
