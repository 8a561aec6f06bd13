// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package intern keeps owned copies of the short textual tags stored in a
// symbol table.  Type names, forms and scope labels repeat across most
// declarations, so one copy is shared among them.
package intern

import (
	"strings"

	"github.com/golang/groupcache/lru"
)

// DefaultSize is the number of distinct strings remembered by a Pool.
const DefaultSize = 256

// Pool hands out copies of strings that do not share memory with the
// caller's value.  A Pool is not safe for concurrent use.
type Pool struct {
	cache *lru.Cache

	hits, misses int
}

// New creates a Pool remembering up to size strings.  A size of zero or
// less means DefaultSize.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{cache: lru.New(size)}
}

// String returns an owned copy of s.  Evicted strings are copied afresh on
// their next use; only sharing is lost.
func (p *Pool) String(s string) string {
	if s == "" {
		return ""
	}
	if v, ok := p.cache.Get(s); ok {
		p.hits++
		return v.(string)
	}
	p.misses++
	c := strings.Clone(s)
	p.cache.Add(c, c)
	return c
}

// Len returns the number of strings currently held.
func (p *Pool) Len() int {
	return p.cache.Len()
}

// Stats returns the number of lookups served from and missing the pool.
func (p *Pool) Stats() (hits, misses int) {
	return p.hits, p.misses
}
