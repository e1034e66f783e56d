// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typecheck implements Pass 3 (§4.E): expression and statement
// type-checking, lvalue/const/assignability rules.
package typecheck

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
	"github.com/blendsdk/blend65/types"
)

// Options bundles the knobs §4.E documents: stopOnFirstError, maxErrors,
// reportWarnings. These are folded directly into diag.Options, which the
// Collector already enforces.
type Options = diag.Options

// Checker visits every expression, computes and attaches its Type, and
// validates the rules of §4.E.
type Checker struct {
	table     *symbols.Table
	diags     *diag.Collector
	tgt       *target.Config
	loopDepth int
	funcStack []*funcCtx
}

type funcCtx struct {
	returnType types.Type
	decl       *ast.FunctionDecl
	sawReturn  bool
}

// NewChecker creates a Checker over a table already populated by Pass 1
// and Pass 2. tgt supplies the intrinsic catalogue consulted by call
// type-checking (§4.K's intrinsics are recognized without a declaration).
func NewChecker(table *symbols.Table, diags *diag.Collector, tgt *target.Config) *Checker {
	return &Checker{table: table, diags: diags, tgt: tgt}
}

// Check runs Pass 3 over program, returning early (but leaving all
// accumulated diagnostics intact) if the collector signals abort.
func (c *Checker) Check(program *ast.Program) {
	for _, d := range program.Declarations {
		if c.checkDecl(d) == errAbort {
			return
		}
	}
}

// abortSignal distinguishes "keep going" from "the collector asked us to
// stop" without needing every check* method to return an error value.
type abortSignal int

const (
	errContinue abortSignal = iota
	errAbort
)

func (c *Checker) add(d diag.Diagnostic) abortSignal {
	if err := c.diags.Add(d); err != nil {
		return errAbort
	}
	return errContinue
}

func (c *Checker) checkDecl(d ast.Decl) abortSignal {
	switch decl := d.(type) {
	case *ast.VariableDecl:
		return c.checkVariableDecl(decl)
	case *ast.FunctionDecl:
		return c.checkFunctionDecl(decl)
	default:
		return errContinue
	}
}

func (c *Checker) checkVariableDecl(decl *ast.VariableDecl) abortSignal {
	if decl.Initializer == nil {
		return errContinue
	}
	sym, _ := c.table.Root().LookupLocal(decl.Name)
	if sym == nil && c.currentFunc() != nil {
		sym, _ = c.currentScopeForVar(decl)
	}
	initT, sig := c.checkExpr(decl.Initializer)
	if sig == errAbort {
		return errAbort
	}
	if sym != nil && sym.Type != nil && !types.Assignable(initT, sym.Type) {
		return c.add(diag.Errorf(span(decl.Initializer), diag.TypeMismatch,
			"cannot initialize %q of type %s with value of type %s", decl.Name, sym.Type, initT))
	}
	return errContinue
}

// currentScopeForVar looks up a function-scoped variable declared via a
// VarDeclStmt; Pass 1 declared it into the enclosing function scope, so a
// plain Root().LookupLocal() would miss it.
func (c *Checker) currentScopeForVar(decl *ast.VariableDecl) (*symbols.Symbol, bool) {
	fn := c.currentFunc()
	scope := c.table.ScopeOf(fn.decl)
	if scope == nil {
		return nil, false
	}
	return scope.LookupLocal(decl.Name)
}

func (c *Checker) currentFunc() *funcCtx {
	if len(c.funcStack) == 0 {
		return nil
	}
	return c.funcStack[len(c.funcStack)-1]
}

func (c *Checker) checkFunctionDecl(decl *ast.FunctionDecl) abortSignal {
	if decl.Stub || decl.Body == nil {
		return errContinue
	}
	sym, _ := c.table.Root().LookupLocal(decl.Name)
	var retType types.Type = types.Void
	if sym != nil {
		if cb, ok := sym.Type.(*types.Callback); ok {
			retType = cb.Signature.ReturnType
		}
	}
	c.funcStack = append(c.funcStack, &funcCtx{returnType: retType, decl: decl})
	defer func() { c.funcStack = c.funcStack[:len(c.funcStack)-1] }()

	scope := c.table.ScopeOf(decl)
	if scope != nil {
		c.table.EnterExistingScope(scope)
		defer c.table.ExitScope()
	}

	for _, s := range decl.Body {
		if c.checkStmt(s) == errAbort {
			return errAbort
		}
	}
	return errContinue
}

func span(n ast.Node) diag.Range {
	s := n.Span()
	return diag.Range{
		Start: diag.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   diag.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}
