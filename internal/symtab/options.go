// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a new Arena.
type Option func(*Arena) error

// TableSize sets the initial number of buckets in each scope's table.
func TableSize(size int) Option {
	return func(a *Arena) error {
		if size < 1 {
			return errors.Errorf("table size must be at least 1, got %d", size)
		}
		a.tableSize = size
		return nil
	}
}

// MaxLoadFactor sets the average chain length above which a scope's table
// doubles its bucket count.  Zero keeps every table at its initial size.
func MaxLoadFactor(f float64) Option {
	return func(a *Arena) error {
		if f < 0 {
			return errors.Errorf("max load factor must not be negative, got %v", f)
		}
		a.maxLoadFactor = f
		return nil
	}
}

// AllowShadowing makes Insert check only the target scope for an existing
// name, so that an inner scope may redeclare a name bound in an enclosing
// one.  By default Insert rejects any name visible from the target scope.
func AllowShadowing() Option {
	return func(a *Arena) error {
		a.allowShadowing = true
		return nil
	}
}

// InternCacheSize sets how many distinct textual tags the Arena shares
// between symbols.
func InternCacheSize(size int) Option {
	return func(a *Arena) error {
		if size < 1 {
			return errors.Errorf("intern cache size must be at least 1, got %d", size)
		}
		a.internSize = size
		return nil
	}
}

// Registerer registers the Arena's metrics with reg.
func Registerer(reg prometheus.Registerer) Option {
	return func(a *Arena) error {
		a.reg = reg
		return nil
	}
}

// setOption takes one or more option functions and applies them in order to the Arena.
func (a *Arena) setOption(options ...Option) error {
	for _, option := range options {
		if err := option(a); err != nil {
			return err
		}
	}
	return nil
}
