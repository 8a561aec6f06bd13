// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package config reads symbol table settings from a TOML file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/scopetab/scopetab/internal/intern"
	"github.com/scopetab/scopetab/internal/symtab"
)

// Config holds the tunables of a symbol table Arena.
//
//	[table]
//	size = 100
//	max_load_factor = 2.0
//	allow_shadowing = false
//
//	[intern]
//	cache_size = 256
type Config struct {
	Table  Table  `toml:"table"`
	Intern Intern `toml:"intern"`
}

// Table configures the per-scope hash tables.
type Table struct {
	Size           int      `toml:"size"`
	MaxLoadFactor  *float64 `toml:"max_load_factor"`
	AllowShadowing bool     `toml:"allow_shadowing"`
}

// Intern configures the shared string pool.
type Intern struct {
	CacheSize int `toml:"cache_size"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	glog.V(1).Infof("loaded config %q: %+v", path, cfg)
	return cfg, nil
}

// Parse decodes and validates a configuration from TOML text.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "decoding")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys %v", undecoded)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Table.Size == 0 {
		cfg.Table.Size = symtab.DefaultTableSize
	}
	if cfg.Table.MaxLoadFactor == nil {
		f := symtab.DefaultMaxLoadFactor
		cfg.Table.MaxLoadFactor = &f
	}
	if cfg.Intern.CacheSize == 0 {
		cfg.Intern.CacheSize = intern.DefaultSize
	}
}

func validate(cfg *Config) error {
	if cfg.Table.Size < 1 {
		return errors.Errorf("table.size must be at least 1, got %d", cfg.Table.Size)
	}
	if *cfg.Table.MaxLoadFactor < 0 {
		return errors.Errorf("table.max_load_factor must not be negative, got %v", *cfg.Table.MaxLoadFactor)
	}
	if cfg.Intern.CacheSize < 1 {
		return errors.Errorf("intern.cache_size must be at least 1, got %d", cfg.Intern.CacheSize)
	}
	return nil
}

// Options converts the configuration into Arena options.
func (c *Config) Options() []symtab.Option {
	opts := []symtab.Option{
		symtab.TableSize(c.Table.Size),
		symtab.InternCacheSize(c.Intern.CacheSize),
	}
	if c.Table.MaxLoadFactor != nil {
		opts = append(opts, symtab.MaxLoadFactor(*c.Table.MaxLoadFactor))
	}
	if c.Table.AllowShadowing {
		opts = append(opts, symtab.AllowShadowing())
	}
	return opts
}
