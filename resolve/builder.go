// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve implements Pass 1 (symbol-table builder) and Pass 2
// (type resolver) of §4.C/§4.D.
package resolve

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/symbols"
)

// Builder walks the AST once, creating the module scope, a function scope
// per FunctionDecl, and declaring every top-level and nested declaration
// (§4.C). Variables declared inside control-flow bodies are declared into
// the *enclosing function scope*, never a block scope, per §3/§9's
// function-scoped semantics.
type Builder struct {
	table *symbols.Table
	diags *diag.Collector
}

// NewBuilder creates a Builder that will populate table, reporting errors
// to diags.
func NewBuilder(table *symbols.Table, diags *diag.Collector) *Builder {
	return &Builder{table: table, diags: diags}
}

// Build runs Pass 1 over program. The Table returned by NewBuilder's
// caller ends up with one scope per function plus the module scope.
func (b *Builder) Build(program *ast.Program) {
	for _, d := range program.Declarations {
		b.declareTop(d)
	}
}

func (b *Builder) declareTop(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.VariableDecl:
		b.declareVariable(decl, decl.Const)
	case *ast.FunctionDecl:
		b.declareFunction(decl)
	case *ast.SimpleMapDecl:
		b.declareSymbol(decl.Name, symbols.Map, decl, decl.Span())
	case *ast.RangeMapDecl:
		b.declareSymbol(decl.Name, symbols.Map, decl, decl.Span())
	case *ast.SequentialStructMapDecl:
		b.declareSymbol(decl.Name, symbols.Map, decl, decl.Span())
	case *ast.ExplicitStructMapDecl:
		b.declareSymbol(decl.Name, symbols.Map, decl, decl.Span())
	case *ast.ImportDecl:
		b.declareSymbol(decl.Name, symbols.Import, decl, decl.Span())
	}
}

func (b *Builder) declareVariable(decl *ast.VariableDecl, isConst bool) *symbols.Symbol {
	kind := symbols.Variable
	if isConst {
		kind = symbols.Const
	}
	sym := &symbols.Symbol{
		Name:             decl.Name,
		SymKind:          kind,
		Location:         decl.Span(),
		IsConst:          isConst,
		IsExported:       decl.Exported,
		IsStub:           decl.Stub,
		StorageClassHint: decl.Storage,
		AstNode:          decl,
	}
	if err := b.table.Declare(sym); err != nil {
		b.reportDuplicate(decl.Name, decl.Span())
		return nil
	}
	return sym
}

func (b *Builder) declareFunction(decl *ast.FunctionDecl) {
	sym := &symbols.Symbol{
		Name:       decl.Name,
		SymKind:    symbols.Function,
		Location:   decl.Span(),
		IsExported: decl.Exported,
		IsStub:     decl.Stub,
		AstNode:    decl,
	}
	if err := b.table.Declare(sym); err != nil {
		b.reportDuplicate(decl.Name, decl.Span())
	}

	fnScope := b.table.EnterScope(symbols.FunctionScope, decl)
	defer b.table.ExitScope()
	_ = fnScope

	for _, p := range decl.Params {
		psym := &symbols.Symbol{
			Name:     p.Name,
			SymKind:  symbols.Parameter,
			Location: p.Span_,
		}
		if err := b.table.Declare(psym); err != nil {
			b.reportDuplicate(p.Name, p.Span_)
		}
	}

	for _, s := range decl.Body {
		b.declareStmt(s)
	}
}

// declareStmt recurses into control-flow bodies *without* entering a new
// scope (§3's invariant), so nested `let`s land in the function scope
// that's already current.
func (b *Builder) declareStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		b.declareVariable(st.Decl, st.Decl.Const)
	case *ast.IfStmt:
		for _, s2 := range st.Then {
			b.declareStmt(s2)
		}
		for _, s2 := range st.Else {
			b.declareStmt(s2)
		}
	case *ast.WhileStmt:
		for _, s2 := range st.Body {
			b.declareStmt(s2)
		}
	case *ast.ForStmt:
		if st.IsRange {
			sym := &symbols.Symbol{Name: st.Var, SymKind: symbols.Variable, Location: st.Span(), AstNode: st}
			if err := b.table.Declare(sym); err != nil {
				b.reportDuplicate(st.Var, st.Span())
			}
			for _, s2 := range st.Body {
				b.declareStmt(s2)
			}
			return
		}
		if st.Init != nil {
			b.declareStmt(st.Init)
		}
		if st.Incr != nil {
			b.declareStmt(st.Incr)
		}
		for _, s2 := range st.Body {
			b.declareStmt(s2)
		}
	case *ast.MatchStmt:
		for _, c := range st.Cases {
			for _, s2 := range c.Body {
				b.declareStmt(s2)
			}
		}
	case *ast.BlockStmt:
		for _, s2 := range st.List {
			b.declareStmt(s2)
		}
	}
}

func (b *Builder) declareSymbol(name string, kind symbols.Kind, node ast.Decl, span ast.Span) *symbols.Symbol {
	sym := &symbols.Symbol{
		Name:       name,
		SymKind:    kind,
		Location:   span,
		IsExported: node.IsExported(),
		IsStub:     node.IsStub(),
		AstNode:    node,
	}
	if err := b.table.Declare(sym); err != nil {
		b.reportDuplicate(name, span)
		return nil
	}
	return sym
}

func (b *Builder) reportDuplicate(name string, span ast.Span) {
	b.diags.Add(diag.Errorf(toRange(span), diag.DuplicateDeclaration, "duplicate declaration of %q", name))
}

func toRange(s ast.Span) diag.Range {
	return diag.Range{
		Start: diag.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   diag.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}
