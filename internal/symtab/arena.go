// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package symtab implements the scoped symbol table used by semantic
// analysis.  Each scope is a hash table of symbols linked to the scope that
// lexically encloses it; lookups walk outward from the innermost scope and
// the nearest declaration wins.
//
// Scopes live in an Arena and are addressed by ScopeID handles.  A handle
// to an exited scope is detected and rejected, so a released table can never
// be read or written through an old handle.
//
// An Arena is not safe for concurrent use.  Independent analysis passes
// should each use their own Arena.
package symtab

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/scopetab/scopetab/internal/intern"
)

// ScopeID is a handle to a scope in an Arena.  The zero value is NoScope.
type ScopeID struct {
	slot uint32 // index+1 into Arena.scopes
	gen  uint32 // generation of the slot when the scope was entered
}

// NoScope is the parent of a root scope, and the result of exiting one.
var NoScope ScopeID

func (id ScopeID) String() string {
	if id == NoScope {
		return "scope(none)"
	}
	return fmt.Sprintf("scope(%d.%d)", id.slot-1, id.gen)
}

type scope struct {
	t        *table
	parent   ScopeID
	depth    int // zero for a root
	children int // live scopes whose parent is this one
	gen      uint32
	live     bool
}

// Arena owns a set of scope chains.
type Arena struct {
	scopes []*scope
	free   []uint32 // released slot indexes available for reuse
	root   ScopeID

	tableSize      int
	maxLoadFactor  float64
	allowShadowing bool
	internSize     int
	reg            prometheus.Registerer

	strs *intern.Pool
	errs ErrorList
	m    *arenaMetrics
}

// New creates an Arena holding one empty root scope.
func New(options ...Option) (*Arena, error) {
	a := &Arena{
		tableSize:     DefaultTableSize,
		maxLoadFactor: DefaultMaxLoadFactor,
		internSize:    intern.DefaultSize,
	}
	if err := a.setOption(options...); err != nil {
		return nil, err
	}
	a.strs = intern.New(a.internSize)
	a.m = newArenaMetrics()
	if a.reg != nil {
		if err := a.m.register(a.reg); err != nil {
			return nil, err
		}
	}
	a.root = a.NewRoot()
	return a, nil
}

// Root returns the root scope created with the Arena, or NoScope once it has
// been exited.
func (a *Arena) Root() ScopeID {
	return a.root
}

// NewRoot creates an empty scope with no parent, starting an independent
// scope chain.
func (a *Arena) NewRoot() ScopeID {
	id := a.alloc(NoScope, 0)
	a.m.result(opEnter, nil)
	glog.V(2).Infof("created root %s", id)
	return id
}

// EnterScope creates an empty scope whose parent is parent.
func (a *Arena) EnterScope(parent ScopeID) (ScopeID, error) {
	p, err := a.get(parent)
	if err != nil {
		a.m.result(opEnter, err)
		return NoScope, err
	}
	p.children++
	id := a.alloc(parent, p.depth+1)
	a.m.result(opEnter, nil)
	glog.V(2).Infof("entered %s (depth %d) from %s", id, p.depth+1, parent)
	return id, nil
}

// ExitScope releases the scope id and every symbol declared in it, and
// returns its parent.  The parent is not modified.  A scope with live child
// scopes cannot be exited.  id must not be used afterwards; doing so yields
// ErrStaleScope.
func (a *Arena) ExitScope(id ScopeID) (ScopeID, error) {
	sc, err := a.get(id)
	if err == nil && sc.children > 0 {
		err = errors.Wrapf(ErrScopeInUse, "%s has %d", id, sc.children)
	}
	a.m.result(opExit, err)
	if err != nil {
		return NoScope, err
	}
	parent := sc.parent
	n := sc.t.count
	sc.t.release()
	sc.t = nil
	sc.live = false
	sc.gen++
	a.free = append(a.free, id.slot-1)
	if parent != NoScope {
		a.scopes[parent.slot-1].children--
	}
	if id == a.root {
		a.root = NoScope
	}
	a.m.liveScopes.Dec()
	glog.V(2).Infof("exited %s, released %d symbols, back to %s", id, n, parent)
	return parent, nil
}

func (a *Arena) alloc(parent ScopeID, depth int) ScopeID {
	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		slot = uint32(len(a.scopes))
		a.scopes = append(a.scopes, &scope{})
	}
	sc := a.scopes[slot]
	sc.t = newTable(a.tableSize, a.maxLoadFactor)
	sc.parent = parent
	sc.depth = depth
	sc.children = 0
	sc.live = true
	a.m.liveScopes.Inc()
	return ScopeID{slot: slot + 1, gen: sc.gen}
}

// get resolves a live scope handle.
func (a *Arena) get(id ScopeID) (*scope, error) {
	if id == NoScope || int(id.slot) > len(a.scopes) {
		return nil, errors.Wrapf(ErrStaleScope, "%s", id)
	}
	sc := a.scopes[id.slot-1]
	if !sc.live || sc.gen != id.gen {
		return nil, errors.Wrapf(ErrStaleScope, "%s", id)
	}
	return sc, nil
}

// resolve walks outward from the scope sc, named id, and returns the nearest
// symbol called name and the scope that holds it.  The ancestors of a live
// scope are always live.
func (a *Arena) resolve(id ScopeID, sc *scope, name string) (*Symbol, ScopeID) {
	for {
		s, steps := sc.t.find(name)
		a.m.chainScans.Observe(float64(steps))
		if s != nil {
			return s, id
		}
		if sc.parent == NoScope {
			return nil, NoScope
		}
		id = sc.parent
		sc = a.scopes[id.slot-1]
	}
}

// Lookup finds the nearest declaration of name visible from the scope id,
// and returns a copy of it along with the scope that declares it.
func (a *Arena) Lookup(id ScopeID, name string) (Symbol, ScopeID, error) {
	sc, err := a.get(id)
	if err != nil {
		a.m.result(opLookup, err)
		return Symbol{}, NoScope, err
	}
	s, owner := a.resolve(id, sc, name)
	if s == nil {
		err = errors.Wrapf(ErrNotFound, "%q", name)
		a.m.result(opLookup, err)
		return Symbol{}, NoScope, err
	}
	a.m.result(opLookup, nil)
	return s.clone(), owner, nil
}

// LookupLocal finds name in the scope id only, without consulting its
// enclosing scopes.
func (a *Arena) LookupLocal(id ScopeID, name string) (Symbol, error) {
	sc, err := a.get(id)
	if err != nil {
		a.m.result(opLookup, err)
		return Symbol{}, err
	}
	s, steps := sc.t.find(name)
	a.m.chainScans.Observe(float64(steps))
	if s == nil {
		err = errors.Wrapf(ErrNotFound, "%q in %s", name, id)
		a.m.result(opLookup, err)
		return Symbol{}, err
	}
	a.m.result(opLookup, nil)
	return s.clone(), nil
}

// Insert declares a new symbol in the scope id.  If the name is already
// visible from id, in id itself or any enclosing scope, nothing changes and
// ErrAlreadyExists is returned.  With the AllowShadowing option only id
// itself is checked.
func (a *Arena) Insert(id ScopeID, d Decl) error {
	err := a.insert(id, d)
	a.m.result(opInsert, err)
	if err != nil {
		a.errs.Add(d.DeclLine, err)
		glog.V(2).Infof("insert %q into %s: %s", d.Name, id, err)
	}
	return err
}

func (a *Arena) insert(id ScopeID, d Decl) error {
	if err := d.validate(); err != nil {
		return err
	}
	sc, err := a.get(id)
	if err != nil {
		return err
	}
	var alt *Symbol
	if a.allowShadowing {
		alt, _ = sc.t.find(d.Name)
	} else {
		alt, _ = a.resolve(id, sc, d.Name)
	}
	if alt != nil {
		return errors.Wrapf(ErrAlreadyExists, "%q declared at line %d", d.Name, alt.DeclLine)
	}
	sym := &Symbol{
		Name:          strings.Clone(d.Name),
		Type:          a.strs.String(d.Type),
		Form:          Form(a.strs.String(string(d.Form))),
		MemoryAddress: d.MemoryAddress,
		ScopeLabel:    a.strs.String(d.ScopeLabel),
		DeclLine:      d.DeclLine,
		Size:          d.Size,
	}
	before := len(sc.t.buckets)
	sc.t.put(sym)
	if len(sc.t.buckets) != before {
		a.m.growths.Inc()
	}
	glog.V(2).Infof("added to %s: %s", id, sym)
	return nil
}

// Update changes the nearest declaration of name visible from the scope id,
// which may live in an enclosing scope, and returns the updated symbol.
// Nil string fields of p are left as they were.
func (a *Arena) Update(id ScopeID, name string, p Patch) (Symbol, error) {
	s, err := a.update(id, name, p)
	a.m.result(opUpdate, err)
	if err != nil {
		a.errs.Add(p.DeclLine, err)
		glog.V(2).Infof("update %q from %s: %s", name, id, err)
		return Symbol{}, err
	}
	glog.V(2).Infof("updated from %s: %s", id, s)
	return s.clone(), nil
}

func (a *Arena) update(id ScopeID, name string, p Patch) (*Symbol, error) {
	if err := validate(name, p.DeclLine, p.Size); err != nil {
		return nil, err
	}
	sc, err := a.get(id)
	if err != nil {
		return nil, err
	}
	s, _ := a.resolve(id, sc, name)
	if s == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if p.Type != nil {
		s.Type = a.strs.String(*p.Type)
	}
	if p.Form != nil {
		s.Form = Form(a.strs.String(string(*p.Form)))
	}
	if p.ScopeLabel != nil {
		s.ScopeLabel = a.strs.String(*p.ScopeLabel)
	}
	s.MemoryAddress = p.MemoryAddress
	s.DeclLine = p.DeclLine
	s.Size = p.Size
	return s, nil
}

// Entry is one line of a Report.
type Entry struct {
	Scope  ScopeID // scope declaring the symbol
	Depth  int     // nesting depth of that scope, zero for a root
	Symbol Symbol
}

// Report lists every symbol declared in the scope id and then in each
// enclosing scope out to the root.  Within a scope, symbols are listed in
// bucket order, then chain order.
func (a *Arena) Report(id ScopeID) ([]Entry, error) {
	sc, err := a.get(id)
	a.m.result(opReport, err)
	if err != nil {
		return nil, err
	}
	var r []Entry
	for {
		sc.t.each(func(s *Symbol) {
			r = append(r, Entry{Scope: id, Depth: sc.depth, Symbol: s.clone()})
		})
		if sc.parent == NoScope {
			return r, nil
		}
		id = sc.parent
		sc = a.scopes[id.slot-1]
	}
}

// Dump renders the scope id and all its parents for debug logging.
func (a *Arena) Dump(id ScopeID) string {
	var buf bytes.Buffer
	sc, err := a.get(id)
	if err != nil {
		fmt.Fprintf(&buf, "%s\n", err)
		return buf.String()
	}
	for {
		fmt.Fprintf(&buf, "%s depth %d {\n", id, sc.depth)
		sc.t.each(func(s *Symbol) {
			fmt.Fprintf(&buf, "\t%s\n", s)
		})
		fmt.Fprintf(&buf, "}\n")
		if sc.parent == NoScope {
			return buf.String()
		}
		id = sc.parent
		sc = a.scopes[id.slot-1]
	}
}

// Parent returns the scope enclosing id, or NoScope for a root.
func (a *Arena) Parent(id ScopeID) (ScopeID, error) {
	sc, err := a.get(id)
	if err != nil {
		return NoScope, err
	}
	return sc.parent, nil
}

// Depth returns the nesting depth of id; roots have depth zero.
func (a *Arena) Depth(id ScopeID) (int, error) {
	sc, err := a.get(id)
	if err != nil {
		return 0, err
	}
	return sc.depth, nil
}

// Live returns the number of scopes that have not been exited.
func (a *Arena) Live() int {
	return len(a.scopes) - len(a.free)
}

// TableStats describes the hash table of one scope.
type TableStats struct {
	Symbols      int
	Buckets      int
	LongestChain int
}

// Stats returns the table statistics of the scope id.
func (a *Arena) Stats(id ScopeID) (TableStats, error) {
	sc, err := a.get(id)
	if err != nil {
		return TableStats{}, err
	}
	return TableStats{
		Symbols:      sc.t.count,
		Buckets:      len(sc.t.buckets),
		LongestChain: sc.t.longestChain(),
	}, nil
}

// Errors returns the rejected inserts and updates seen so far.
func (a *Arena) Errors() ErrorList {
	return append(ErrorList(nil), a.errs...)
}
