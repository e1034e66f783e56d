// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"sync"
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
)

func sp() ast.Span { return ast.Span{} }

func makeModule(name string, decls ...ast.Decl) *Module {
	program := &ast.Program{Mod: ast.Module{Name: name}, Declarations: decls}
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())
	resolve.NewBuilder(table, diags).Build(program)
	return &Module{Name: name, Program: program, Table: table, Diags: diags}
}

func exportedVar(name string) *ast.VariableDecl {
	d := &ast.VariableDecl{}
	d.Name = name
	d.Exported = true
	d.TypeAnnotation = "byte"
	d.Initializer = ast.NewIntLiteral(sp(), 1)
	return d
}

func importOf(fromModule, symbolName string) *ast.ImportDecl {
	d := &ast.ImportDecl{}
	d.Name = symbolName
	d.FromModule = fromModule
	d.SymbolName = symbolName
	return d
}

func TestValidateNameAcceptsDottedAndSlashedPaths(t *testing.T) {
	for _, name := range []string{"demo.video.sprites", "demo/video/sprites", "a"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("expected %q to be a valid module name, got %v", name, err)
		}
	}
}

func TestValidateNameRejectsEmptyAndMalformed(t *testing.T) {
	for _, name := range []string{"", ".", "a..b", "/a", "a/"} {
		if err := ValidateName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestCompilationOrderRespectsImportEdges(t *testing.T) {
	base := makeModule("base", exportedVar("x"))
	mid := makeModule("mid", importOf("base", "x"))
	top := makeModule("top", importOf("mid", "x"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	for _, m := range []*Module{top, base, mid} { // registered out of order
		if !r.Register(m, diags) {
			t.Fatalf("unexpected registration failure: %v", diags.Diagnostics())
		}
	}

	order := CompilationOrder(r, diags)
	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos["base"] >= pos["mid"] || pos["mid"] >= pos["top"] {
		t.Fatalf("expected base < mid < top in %v", order)
	}
	if !diags.Success() {
		t.Fatalf("expected no diagnostics for an acyclic graph, got %v", diags.Diagnostics())
	}
}

func TestCompilationOrderReportsCircularImport(t *testing.T) {
	a := makeModule("a", importOf("b", "x"))
	b := makeModule("b", importOf("a", "x"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	r.Register(a, diags)
	r.Register(b, diags)

	order := CompilationOrder(r, diags)

	found := 0
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.CircularImport {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("expected CIRCULAR_IMPORT for both modules, got %d: %v", found, diags.Diagnostics())
	}
	if len(order) != 2 {
		t.Fatalf("expected fallback registration order to still list both modules, got %v", order)
	}
}

func TestResolveImportsBuildsGlobalSymbolTable(t *testing.T) {
	base := makeModule("base", exportedVar("x"))
	user := makeModule("user", importOf("base", "x"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	r.Register(base, diags)
	r.Register(user, diags)

	g := ResolveImports(r, diags)
	if !diags.Success() {
		t.Fatalf("expected the import to resolve cleanly, got %v", diags.Diagnostics())
	}
	if _, ok := g.Lookup("base", "x"); !ok {
		t.Fatalf("expected base.x in the global symbol table")
	}
}

func TestResolveImportsReportsModuleNotFound(t *testing.T) {
	user := makeModule("user", importOf("missing", "x"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	r.Register(user, diags)

	ResolveImports(r, diags)

	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.ModuleNotFound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MODULE_NOT_FOUND, got %v", diags.Diagnostics())
	}
}

func TestResolveImportsReportsSymbolNotExported(t *testing.T) {
	hidden := &ast.VariableDecl{}
	hidden.Name = "secret"
	hidden.Exported = false
	hidden.TypeAnnotation = "byte"
	hidden.Initializer = ast.NewIntLiteral(sp(), 1)

	base := makeModule("base", hidden)
	user := makeModule("user", importOf("base", "secret"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	r.Register(base, diags)
	r.Register(user, diags)

	ResolveImports(r, diags)

	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.SymbolNotExported {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SYMBOL_NOT_EXPORTED, got %v", diags.Diagnostics())
	}
}

func TestAnalyzeMultipleRunsDependenciesBeforeDependents(t *testing.T) {
	base := makeModule("base", exportedVar("x"))
	top := makeModule("top", importOf("base", "x"))

	r := NewRegistry()
	diags := diag.NewCollector(diag.DefaultOptions())
	r.Register(base, diags)
	r.Register(top, diags)

	var analyzed []string
	var mu sync.Mutex
	err := AnalyzeMultiple(r, diags, func(mod *Module) error {
		mu.Lock()
		analyzed = append(analyzed, mod.Name)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analyzed) != 2 || analyzed[0] != "base" {
		t.Fatalf("expected base to analyze before top, got %v", analyzed)
	}
}
