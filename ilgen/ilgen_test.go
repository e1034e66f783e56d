// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ilgen

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/il"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
	"github.com/blendsdk/blend65/typecheck"
)

func sp() ast.Span { return ast.Span{} }

// generate runs the full Pass 1/2/3 pipeline (resolve, resolve, typecheck)
// before handing the program to Generate, matching the contract Generate's
// doc comment requires.
func generate(t *testing.T, program *ast.Program) (*il.Module, *diag.Collector) {
	t.Helper()
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())
	tgt := target.C64()

	resolve.NewBuilder(table, diags).Build(program)
	resolve.NewResolver(table, diags).Resolve()
	typecheck.NewChecker(table, diags, tgt).Check(program)

	mod := Generate(program, table, tgt, diags)
	return mod, diags
}

// buildTableOnly runs Pass 1/2 (resolve) only, for tests that exercise
// ilgen's own diagnostics independent of the type checker.
func buildTableOnly(t *testing.T, fn *ast.FunctionDecl) (*symbols.Table, *diag.Collector) {
	t.Helper()
	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{fn}}
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())
	resolve.NewBuilder(table, diags).Build(program)
	resolve.NewResolver(table, diags).Resolve()
	return table, diags
}

func defaultTarget() *target.Config { return target.C64() }

func TestGenerateLowersGlobal(t *testing.T) {
	decl := &ast.VariableDecl{}
	decl.Name = "counter"
	decl.TypeAnnotation = "byte"
	decl.Exported = true
	decl.Storage = ast.StorageZeroPage

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{decl}}
	mod, diags := generate(t, program)
	if diags.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", diags.Diagnostics())
	}

	g, ok := mod.Globals["counter"]
	if !ok {
		t.Fatal("expected global \"counter\" to be lowered")
	}
	if !g.Exported {
		t.Error("expected global to carry Exported=true")
	}
	if g.Storage != string(ast.StorageZeroPage) {
		t.Errorf("storage = %q, want %q", g.Storage, ast.StorageZeroPage)
	}
}

func TestGenerateLowersExtern(t *testing.T) {
	decl := &ast.ImportDecl{FromModule: "other", SymbolName: "helper"}
	decl.Name = "helper"

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{decl}}
	mod, _ := generate(t, program)

	ext, ok := mod.Extern("other", "helper")
	if !ok {
		t.Fatal("expected extern \"other.helper\" to be lowered")
	}
	if ext.Module != "other" || ext.Name != "helper" {
		t.Errorf("unexpected extern: %+v", ext)
	}
}

func TestGenerateSkipsStubFunctions(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "peek"
	fn.Stub = true

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{fn}}
	mod, _ := generate(t, program)

	if _, ok := mod.Functions["peek"]; ok {
		t.Error("stub function should not be lowered into the module")
	}
}

func TestGenerateLowersFunctionWithParams(t *testing.T) {
	fn := &ast.FunctionDecl{
		Params:     []ast.Param{{Name: "a", TypeAnnotation: "byte"}, {Name: "b", TypeAnnotation: "word"}},
		ReturnType: "word",
	}
	fn.Name = "add"
	fn.Body = []ast.Stmt{
		ast.NewReturnStmt(sp(), ast.NewBinaryExpr(sp(), ast.OpAdd, ast.NewIdent(sp(), "a"), ast.NewIdent(sp(), "b"))),
	}

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{fn}}
	mod, diags := generate(t, program)
	if diags.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", diags.Diagnostics())
	}

	f, ok := mod.Functions["add"]
	if !ok {
		t.Fatal("expected function \"add\" to be lowered")
	}
	if len(f.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(f.Params))
	}
	if f.Params[0].ID >= f.Params[1].ID {
		t.Error("parameter register ids must be allocated in declaration order")
	}
	if errs := f.Validate(); len(errs) != 0 {
		t.Errorf("generated function fails Validate: %v", errs)
	}
}
