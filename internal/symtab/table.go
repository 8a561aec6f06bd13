// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"github.com/golang/glog"
)

const (
	// DefaultTableSize is the initial number of buckets in each scope.
	DefaultTableSize = 100
	// DefaultMaxLoadFactor is the symbols-per-bucket ratio above which a
	// scope's table is grown.
	DefaultMaxLoadFactor = 2.0

	hashMultiplier = 60
)

// hash returns the bucket index of name in a table of size buckets.
func hash(name string, size int) int {
	h := 0
	for i := 0; i < len(name); i++ {
		h = (h*hashMultiplier + int(name[i])) % size
	}
	return h
}

// table holds the symbols declared in one scope, in a hash table of
// collision chains.  New symbols go to the head of their chain.
type table struct {
	buckets       []*Symbol
	count         int
	maxLoadFactor float64 // Zero disables growth.
}

func newTable(size int, maxLoadFactor float64) *table {
	if size < 1 {
		size = 1
	}
	return &table{
		buckets:       make([]*Symbol, size),
		maxLoadFactor: maxLoadFactor,
	}
}

// find scans the bucket for name and returns the symbol and the number of
// chain links visited.
func (t *table) find(name string) (*Symbol, int) {
	steps := 0
	for s := t.buckets[hash(name, len(t.buckets))]; s != nil; s = s.next {
		steps++
		if s.Name == name {
			return s, steps
		}
	}
	return nil, steps
}

// put links sym at the head of its chain.  The caller has checked that the
// name is not already present.
func (t *table) put(sym *Symbol) {
	i := hash(sym.Name, len(t.buckets))
	sym.next = t.buckets[i]
	t.buckets[i] = sym
	t.count++
	if t.maxLoadFactor > 0 && float64(t.count)/float64(len(t.buckets)) > t.maxLoadFactor {
		t.grow()
	}
}

// grow doubles the bucket count and rehashes every chain.
func (t *table) grow() {
	old := t.buckets
	t.buckets = make([]*Symbol, 2*len(old))
	for _, head := range old {
		for s := head; s != nil; {
			next := s.next
			i := hash(s.Name, len(t.buckets))
			s.next = t.buckets[i]
			t.buckets[i] = s
			s = next
		}
	}
	glog.V(1).Infof("grew scope table from %d to %d buckets for %d symbols", len(old), len(t.buckets), t.count)
}

// each calls fn for every symbol in bucket order, then chain order.
func (t *table) each(fn func(*Symbol)) {
	for _, head := range t.buckets {
		for s := head; s != nil; s = s.next {
			fn(s)
		}
	}
}

// longestChain returns the length of the longest collision chain.
func (t *table) longestChain() int {
	longest := 0
	for _, head := range t.buckets {
		n := 0
		for s := head; s != nil; s = s.next {
			n++
		}
		if n > longest {
			longest = n
		}
	}
	return longest
}

// release drops every symbol so that nothing handed out earlier can reach
// the chains.
func (t *table) release() {
	for i, head := range t.buckets {
		for s := head; s != nil; {
			next := s.next
			s.next = nil
			s = next
		}
		t.buckets[i] = nil
	}
	t.buckets = nil
	t.count = 0
}
