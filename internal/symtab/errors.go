// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned by the Arena.  They are wrapped with the offending name;
// use errors.Cause to compare.
var (
	ErrAlreadyExists = errors.New("symbol already exists")
	ErrNotFound      = errors.New("symbol not found")
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrStaleScope    = errors.New("scope has been exited")
	ErrScopeInUse    = errors.New("scope has live child scopes")
)

type declError struct {
	line int
	err  error
}

func (e declError) Error() string {
	if e.line < 1 {
		return e.err.Error()
	}
	return fmt.Sprintf("line %d: %s", e.line, e.err)
}

// ErrorList contains the declarations rejected by an Arena, in the order
// they were attempted.
type ErrorList []*declError

// Add appends an error for a declaration at line to the list of errors.
func (p *ErrorList) Add(line int, err error) {
	*p = append(*p, &declError{line, err})
}

// Append puts an ErrorList on the end of this ErrorList.
func (p *ErrorList) Append(l ErrorList) {
	*p = append(*p, l...)
}

// ErrorList implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var r string
	for _, e := range p {
		r += fmt.Sprintf("%s\n", e)
	}
	return r[:len(r)-1]
}
