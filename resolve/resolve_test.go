// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/types"
)

func run(t *testing.T, program *ast.Program) (*symbols.Table, *diag.Collector) {
	t.Helper()
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())
	resolve.NewBuilder(table, diags).Build(program)
	resolve.NewResolver(table, diags).Resolve()
	return table, diags
}

func TestArraySizeInference(t *testing.T) {
	lit := ast.NewArrayLiteral(ast.Span{}, []ast.Expr{
		ast.NewIntLiteral(ast.Span{}, 1),
		ast.NewIntLiteral(ast.Span{}, 2),
		ast.NewIntLiteral(ast.Span{}, 3),
	})
	decl := &ast.VariableDecl{Initializer: lit}
	decl.Name = "x"
	program := &ast.Program{Declarations: []ast.Decl{decl}}

	table, diags := run(t, program)
	sym, ok := table.Root().LookupLocal("x")
	if !ok {
		t.Fatal("x not declared")
	}
	arr, ok := sym.Type.(*types.Array)
	if !ok {
		t.Fatalf("x has type %T, want *types.Array", sym.Type)
	}
	if !arr.HasSize || arr.Length != 3 {
		t.Errorf("inferred array size = %+v, want size 3", arr)
	}
	if diags.ErrorCount() != 0 {
		t.Errorf("unexpected errors: %v", diags.Diagnostics())
	}
}

func TestUnknownTypeReported(t *testing.T) {
	decl := &ast.VariableDecl{}
	decl.Name = "x"
	decl.TypeAnnotation = "bogus"
	program := &ast.Program{Declarations: []ast.Decl{decl}}

	_, diags := run(t, program)
	if diags.ErrorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", diags.ErrorCount(), diags.Diagnostics())
	}
	if diags.Diagnostics()[0].Code != diag.UnknownType {
		t.Errorf("got code %s, want UNKNOWN_TYPE", diags.Diagnostics()[0].Code)
	}
}

func TestFunctionSignatureResolved(t *testing.T) {
	decl := &ast.FunctionDecl{
		Params:     []ast.Param{{Name: "a", TypeAnnotation: "byte"}, {Name: "b", TypeAnnotation: "byte"}},
		ReturnType: "byte",
	}
	decl.Name = "add"
	program := &ast.Program{Declarations: []ast.Decl{decl}}

	table, diags := run(t, program)
	if diags.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", diags.Diagnostics())
	}
	sym, ok := table.Root().LookupLocal("add")
	if !ok {
		t.Fatal("add not declared")
	}
	cb, ok := sym.Type.(*types.Callback)
	if !ok {
		t.Fatalf("add has type %T, want *types.Callback", sym.Type)
	}
	if len(cb.Signature.ParameterTypes) != 2 || cb.Signature.ReturnType.Kind() != types.KindByte {
		t.Errorf("unexpected signature: %s", cb.Signature)
	}
}

func TestDuplicateDeclarationInFunctionScope(t *testing.T) {
	inner := &ast.VariableDecl{}
	inner.Name = "i"
	outer := &ast.VariableDecl{}
	outer.Name = "i"
	whileStmt := ast.NewWhileStmt(ast.Span{}, ast.NewBoolLiteral(ast.Span{}, true), []ast.Stmt{
		ast.NewVarDeclStmt(ast.Span{}, inner),
	})
	decl := &ast.FunctionDecl{
		Body: []ast.Stmt{ast.NewVarDeclStmt(ast.Span{}, outer), whileStmt},
	}
	decl.Name = "f"
	program := &ast.Program{Declarations: []ast.Decl{decl}}

	_, diags := run(t, program)
	if diags.ErrorCount() != 1 {
		t.Fatalf("expected 1 duplicate-declaration error for function-scoped redeclare, got %d: %v", diags.ErrorCount(), diags.Diagnostics())
	}
}
