// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package callgraph

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
)

func sp() ast.Span { return ast.Span{} }

func callTo(name string) ast.Stmt {
	return ast.NewExprStmt(sp(), ast.NewCallExpr(sp(), ast.NewIdent(sp(), name), nil))
}

func TestIndirectRecursionDetectedForMutualCalls(t *testing.T) {
	a := &ast.FunctionDecl{}
	a.Name = "a"
	a.Body = []ast.Stmt{callTo("b")}
	b := &ast.FunctionDecl{}
	b.Name = "b"
	b.Body = []ast.Stmt{callTo("a")}

	program := &ast.Program{Declarations: []ast.Decl{a, b}}
	g := Build(program)

	diags := diag.NewCollector(diag.DefaultOptions())
	CheckRecursion(g, diags)

	count := 0
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.IndirectRecursionDetected {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected one INDIRECT_RECURSION_DETECTED per function, got %d: %v", count, diags.Diagnostics())
	}
}

func TestDirectSelfRecursionDetected(t *testing.T) {
	f := &ast.FunctionDecl{}
	f.Name = "f"
	f.Body = []ast.Stmt{callTo("f")}

	program := &ast.Program{Declarations: []ast.Decl{f}}
	g := Build(program)

	diags := diag.NewCollector(diag.DefaultOptions())
	CheckRecursion(g, diags)

	if diags.ErrorCount() != 1 || diags.Diagnostics()[0].Code != diag.RecursionDetected {
		t.Fatalf("expected a single RECURSION_DETECTED, got %v", diags.Diagnostics())
	}
}

func TestAcyclicGraphReportsNothing(t *testing.T) {
	a := &ast.FunctionDecl{}
	a.Name = "a"
	a.Body = []ast.Stmt{callTo("b")}
	b := &ast.FunctionDecl{}
	b.Name = "b"

	program := &ast.Program{Declarations: []ast.Decl{a, b}}
	g := Build(program)

	diags := diag.NewCollector(diag.DefaultOptions())
	CheckRecursion(g, diags)

	if !diags.Success() {
		t.Fatalf("expected no recursion diagnostics, got %v", diags.Diagnostics())
	}
}

func TestIndirectCallRecordedAgainstSentinel(t *testing.T) {
	f := &ast.FunctionDecl{}
	f.Name = "f"
	f.Params = []ast.Param{{Name: "cb", TypeAnnotation: "()->void"}}
	f.Body = []ast.Stmt{callTo("cb")}

	program := &ast.Program{Declarations: []ast.Decl{f}}
	g := Build(program)

	node, ok := g.Lookup("f")
	if !ok {
		t.Fatalf("expected node for f")
	}
	if len(node.Out()) != 1 || node.Out()[0].Callee != g.Root {
		t.Fatalf("expected the call to an unresolved name to target the indirect sentinel")
	}
}
