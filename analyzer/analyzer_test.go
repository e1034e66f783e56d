// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/target"
)

func sp() ast.Span { return ast.Span{} }

func addFn() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{
		Params:     []ast.Param{{Name: "a", TypeAnnotation: "byte"}, {Name: "b", TypeAnnotation: "byte"}},
		ReturnType: "byte",
	}
	fn.Name = "add"
	fn.Body = []ast.Stmt{
		ast.NewReturnStmt(sp(), ast.NewBinaryExpr(sp(), ast.OpAdd, ast.NewIdent(sp(), "a"), ast.NewIdent(sp(), "b"))),
	}
	return fn
}

func TestAnalyzeSucceedsOnWellFormedProgram(t *testing.T) {
	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{addFn()}}
	res := Analyze(program, diag.DefaultOptions(), target.C64())

	if !res.Success {
		t.Fatalf("expected success, got diagnostics: %v", res.Diagnostics)
	}
	if res.CallGraph == nil {
		t.Error("expected a call graph")
	}
	if _, ok := res.CFGs["add"]; !ok {
		t.Error("expected a CFG for function \"add\"")
	}
	if res.Generation == nil {
		t.Fatal("expected IL generation to run on a successful analysis")
	}
	if !res.Generation.Success {
		t.Errorf("expected generation success, got diagnostics: %v", res.Generation.Diagnostics)
	}
	if _, ok := res.Generation.Module.Functions["add"]; !ok {
		t.Error("expected function \"add\" in the generated module")
	}
}

func TestAnalyzeReportsUndefinedVariable(t *testing.T) {
	fn := &ast.FunctionDecl{ReturnType: "byte"}
	fn.Name = "f"
	fn.Body = []ast.Stmt{ast.NewReturnStmt(sp(), ast.NewIdent(sp(), "nope"))}

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{fn}}
	res := Analyze(program, diag.DefaultOptions(), target.C64())

	if res.Success {
		t.Fatal("expected failure for a reference to an undefined variable")
	}
	if res.Generation != nil {
		t.Error("IL generation must not run when semantic analysis failed")
	}
}

func TestAnalyzeStopsOnFirstErrorSkipsLaterPasses(t *testing.T) {
	fn := &ast.FunctionDecl{ReturnType: "byte"}
	fn.Name = "f"
	fn.Body = []ast.Stmt{ast.NewReturnStmt(sp(), ast.NewIdent(sp(), "nope"))}

	program := &ast.Program{Mod: ast.Module{Name: "m"}, Declarations: []ast.Decl{fn}}
	opts := diag.Options{StopOnFirstError: true, ReportWarnings: true}
	res := Analyze(program, opts, target.C64())

	for _, p := range res.PassResults {
		if p.Name == "cfg.Build" {
			t.Error("cfg.Build must not run after typecheck tripped StopOnFirstError")
		}
	}
}

func TestAnalyzeMultipleOrdersByImportDependency(t *testing.T) {
	lib := &ast.Program{Mod: ast.Module{Name: "lib"}, Declarations: []ast.Decl{addFn()}}
	libAdd := lib.Declarations[0].(*ast.FunctionDecl)
	libAdd.Exported = true

	imp := &ast.ImportDecl{FromModule: "lib", SymbolName: "add"}
	imp.Name = "add"
	main := &ast.Program{Mod: ast.Module{Name: "main"}, Declarations: []ast.Decl{imp}}

	res := AnalyzeMultiple([]Program{{Name: "main", Program: main}, {Name: "lib", Program: lib}}, diag.DefaultOptions(), target.C64())

	libIdx, mainIdx := -1, -1
	for i, name := range res.CompilationOrder {
		switch name {
		case "lib":
			libIdx = i
		case "main":
			mainIdx = i
		}
	}
	if libIdx == -1 || mainIdx == -1 {
		t.Fatalf("expected both modules in compilation order, got %v", res.CompilationOrder)
	}
	if libIdx >= mainIdx {
		t.Errorf("expected \"lib\" before \"main\" in compilation order, got %v", res.CompilationOrder)
	}
	if _, ok := res.GlobalSymbolTable.Lookup("lib", "add"); !ok {
		t.Error("expected lib.add in the global symbol table")
	}
}
