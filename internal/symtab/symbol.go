// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"fmt"

	"github.com/pkg/errors"
)

// Form describes the shape of a declared object.  The set is open; callers
// may use their own tags.
type Form string

// Forms understood by the analysis phase.
const (
	Scalar    Form = "scalar"
	Array     Form = "array"
	Structure Form = "structure"
)

// Symbol describes one declared identifier.
type Symbol struct {
	Name          string // identifier name, unique within its scope
	Type          string // type tag, e.g. "int" or a structure name
	Form          Form   // shape of the object
	MemoryAddress int    // offset or absolute address assigned by the caller
	ScopeLabel    string // informational scope descriptor, e.g. "global"
	DeclLine      int    // source line of the declaration
	Size          int    // memory footprint in caller units

	next *Symbol // collision chain
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s, Type: %s, Form: %s, Address: %d, Scope: %s, Line: %d, Size: %d",
		s.Name, s.Type, s.Form, s.MemoryAddress, s.ScopeLabel, s.DeclLine, s.Size)
}

// clone returns a detached copy of s, safe to hand out to callers.
func (s *Symbol) clone() Symbol {
	c := *s
	c.next = nil
	return c
}

// Decl carries the fields of a new declaration.
type Decl struct {
	Name          string
	Type          string
	Form          Form
	MemoryAddress int
	ScopeLabel    string
	DeclLine      int
	Size          int
}

func (d Decl) validate() error {
	return validate(d.Name, d.DeclLine, d.Size)
}

// Patch describes a change to an existing symbol.  Nil string fields are
// left untouched; the integer fields are always overwritten.
type Patch struct {
	Type       *string
	Form       *Form
	ScopeLabel *string

	MemoryAddress int
	DeclLine      int
	Size          int
}

// Str returns a pointer to s, for filling in a Patch.
func Str(s string) *string { return &s }

// FormOf returns a pointer to f, for filling in a Patch.
func FormOf(f Form) *Form { return &f }

func validate(name string, line, size int) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidSymbol, "empty name")
	case line < 1:
		return errors.Wrapf(ErrInvalidSymbol, "%q: declaration line %d", name, line)
	case size < 0:
		return errors.Wrapf(ErrInvalidSymbol, "%q: size %d", name, size)
	}
	return nil
}
