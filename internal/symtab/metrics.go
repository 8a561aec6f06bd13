// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	opInsert = "insert"
	opUpdate = "update"
	opLookup = "lookup"
	opEnter  = "enter"
	opExit   = "exit"
	opReport = "report"
)

type arenaMetrics struct {
	ops        *prometheus.CounterVec
	liveScopes prometheus.Gauge
	chainScans prometheus.Histogram
	growths    prometheus.Counter
}

func newArenaMetrics() *arenaMetrics {
	return &arenaMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scopetab",
			Subsystem: "symtab",
			Name:      "operations_total",
			Help:      "Symbol table operations by kind and result.",
		}, []string{"op", "result"}),
		liveScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scopetab",
			Subsystem: "symtab",
			Name:      "live_scopes",
			Help:      "Number of scopes entered and not yet exited.",
		}),
		chainScans: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scopetab",
			Subsystem: "symtab",
			Name:      "chain_scan_length",
			Help:      "Collision chain links visited per bucket scan.",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
		growths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scopetab",
			Subsystem: "symtab",
			Name:      "table_growths_total",
			Help:      "Number of times a scope table doubled its bucket count.",
		}),
	}
}

// register adds the collectors to reg.  Arenas sharing a registry share the
// collectors registered first.
func (m *arenaMetrics) register(reg prometheus.Registerer) error {
	var err error
	if m.ops, err = registerOrExisting(reg, m.ops); err != nil {
		return err
	}
	if m.liveScopes, err = registerOrExisting(reg, m.liveScopes); err != nil {
		return err
	}
	if m.chainScans, err = registerOrExisting(reg, m.chainScans); err != nil {
		return err
	}
	if m.growths, err = registerOrExisting(reg, m.growths); err != nil {
		return err
	}
	return nil
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "registering symtab metrics")
	}
	return c, nil
}

func (m *arenaMetrics) result(op string, err error) {
	r := "ok"
	if err != nil {
		switch errors.Cause(err) {
		case ErrAlreadyExists:
			r = "exists"
		case ErrNotFound:
			r = "not_found"
		case ErrInvalidSymbol:
			r = "invalid"
		case ErrStaleScope:
			r = "stale_scope"
		case ErrScopeInUse:
			r = "scope_in_use"
		default:
			r = "error"
		}
	}
	m.ops.WithLabelValues(op, r).Inc()
}
