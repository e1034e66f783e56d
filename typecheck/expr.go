// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/types"
)

// checkExpr computes e's Type, attaches it via SetMeta(ast.MetaType, ...),
// and reports any §4.E violation found along the way. The returned Type is
// always non-nil; on error it is types.Unknown, so callers stay total.
func (c *Checker) checkExpr(e ast.Expr) (types.Type, abortSignal) {
	t, sig := c.checkExprKind(e)
	if t == nil {
		t = types.Unknown
	}
	e.SetMeta(ast.MetaType, t)
	return t, sig
}

func (c *Checker) checkExprKind(e ast.Expr) (types.Type, abortSignal) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return c.checkIntLiteral(ex)
	case *ast.BoolLiteral:
		return types.Boolean, errContinue
	case *ast.StringLiteral:
		return types.Str, errContinue
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(ex)
	case *ast.Ident:
		return c.checkIdent(ex)
	case *ast.BinaryExpr:
		return c.checkBinaryExpr(ex)
	case *ast.UnaryExpr:
		return c.checkUnaryExpr(ex)
	case *ast.AssignExpr:
		return c.checkAssignExpr(ex)
	case *ast.CallExpr:
		return c.checkCallExpr(ex)
	case *ast.IndexExpr:
		return c.checkIndexExpr(ex)
	case *ast.MemberExpr:
		return c.checkMemberExpr(ex)
	default:
		return types.Unknown, errContinue
	}
}

func (c *Checker) checkIntLiteral(lit *ast.IntLiteral) (types.Type, abortSignal) {
	if lit.Value < 0 {
		if sig := c.add(diag.Errorf(span(lit), diag.NegativeLiteral,
			"negative literal %d is not representable (this language has no signed integers)", lit.Value)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	if lit.Value > 65535 {
		if sig := c.add(diag.Errorf(span(lit), diag.IntegerLiteralOverflow,
			"integer literal %d exceeds the 16-bit word range", lit.Value)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	if lit.Value <= 255 {
		return types.Byte, errContinue
	}
	return types.Word, errContinue
}

func (c *Checker) checkArrayLiteral(lit *ast.ArrayLiteral) (types.Type, abortSignal) {
	if len(lit.Elements) == 0 {
		if sig := c.add(diag.Errorf(span(lit), diag.EmptyArrayLiteral,
			"array literal must have at least one element")); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	elemT, sig := c.checkExpr(lit.Elements[0])
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	for _, el := range lit.Elements[1:] {
		t, sig := c.checkExpr(el)
		if sig == errAbort {
			return types.Unknown, errAbort
		}
		if !types.Assignable(t, elemT) && !types.Assignable(elemT, t) {
			if sig := c.add(diag.Errorf(span(el), diag.MixedArrayElementTypes,
				"array element has type %s, expected %s", t, elemT)); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
	}
	return types.CreateArrayType(elemT, len(lit.Elements)), errContinue
}

func (c *Checker) checkIdent(id *ast.Ident) (types.Type, abortSignal) {
	sym, ok := c.table.Lookup(id.Name)
	if !ok {
		if c.tgt != nil && c.tgt.IsIntrinsic(id.Name) {
			return types.Unknown, errContinue
		}
		if sig := c.add(diag.Errorf(span(id), diag.UndefinedVariable,
			"undefined variable %q", id.Name)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	if sym.Type == nil {
		return types.Unknown, errContinue
	}
	return sym.Type, errContinue
}

func (c *Checker) checkBinaryExpr(b *ast.BinaryExpr) (types.Type, abortSignal) {
	lt, sig := c.checkExpr(b.Left)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	rt, sig := c.checkExpr(b.Right)
	if sig == errAbort {
		return types.Unknown, errAbort
	}

	switch {
	case b.Op.IsArithmetic(), b.Op.IsBitwise():
		if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			if sig := c.add(diag.Errorf(span(b), diag.TypeMismatch,
				"operator %s requires numeric operands, got %s and %s", b.Op, lt, rt)); sig == errAbort {
				return types.Unknown, errAbort
			}
			return types.Unknown, errContinue
		}
		return types.PromoteNumeric(lt, rt), errContinue
	case b.Op.IsComparison():
		if types.IsNumeric(lt) && types.IsNumeric(rt) {
			return types.Boolean, errContinue
		}
		if types.Identical(lt, rt) {
			return types.Boolean, errContinue
		}
		if sig := c.add(diag.Errorf(span(b), diag.TypeMismatch,
			"cannot compare %s and %s", lt, rt)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Boolean, errContinue
	case b.Op.IsLogical():
		if !types.IsBoolean(lt) || !types.IsBoolean(rt) {
			if sig := c.add(diag.Errorf(span(b), diag.TypeMismatch,
				"operator %s requires boolean operands, got %s and %s", b.Op, lt, rt)); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
		return types.Boolean, errContinue
	default:
		return types.Unknown, errContinue
	}
}

func (c *Checker) checkUnaryExpr(u *ast.UnaryExpr) (types.Type, abortSignal) {
	operandT, sig := c.checkExpr(u.Operand)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	switch u.Op {
	case ast.OpNeg, ast.OpBitNot:
		if !types.IsNumeric(operandT) {
			if sig := c.add(diag.Errorf(span(u), diag.TypeMismatch,
				"unary operator requires a numeric operand, got %s", operandT)); sig == errAbort {
				return types.Unknown, errAbort
			}
			return types.Unknown, errContinue
		}
		return operandT, errContinue
	case ast.OpNot:
		if !types.IsBoolean(operandT) {
			if sig := c.add(diag.Errorf(span(u), diag.TypeMismatch,
				"'!' requires a boolean operand, got %s", operandT)); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
		return types.Boolean, errContinue
	case ast.OpAddressOf:
		if !ast.IsLvalue(u.Operand) {
			if sig := c.add(diag.Errorf(span(u), diag.AddressOfNonLvalue,
				"cannot take the address of a non-lvalue expression")); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
		return types.Word, errContinue
	default:
		return types.Unknown, errContinue
	}
}

func (c *Checker) checkAssignExpr(a *ast.AssignExpr) (types.Type, abortSignal) {
	if !ast.IsLvalue(a.Target) {
		if sig := c.add(diag.Errorf(span(a), diag.InvalidLvalue,
			"left-hand side of assignment is not an assignable location")); sig == errAbort {
			return types.Unknown, errAbort
		}
	} else if id, ok := a.Target.(*ast.Ident); ok {
		if sym, found := c.table.Lookup(id.Name); found && sym.IsConst {
			if sig := c.add(diag.Errorf(span(a), diag.AssignToConst,
				"cannot assign to constant %q", id.Name)); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
	}

	targetT, sig := c.checkExpr(a.Target)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	valueT, sig := c.checkExpr(a.Value)
	if sig == errAbort {
		return types.Unknown, errAbort
	}

	if a.Op != ast.AssignSet && !types.IsNumeric(targetT) {
		if sig := c.add(diag.Errorf(span(a), diag.TypeMismatch,
			"compound assignment requires a numeric target, got %s", targetT)); sig == errAbort {
			return types.Unknown, errAbort
		}
	}

	if !types.Assignable(valueT, targetT) {
		if sig := c.add(diag.Errorf(span(a), diag.NotAssignable,
			"cannot assign value of type %s to target of type %s", valueT, targetT)); sig == errAbort {
			return types.Unknown, errAbort
		}
	}
	return targetT, errContinue
}

func (c *Checker) checkCallExpr(call *ast.CallExpr) (types.Type, abortSignal) {
	if id, ok := call.Callee.(*ast.Ident); ok {
		if c.tgt != nil && c.tgt.IsIntrinsic(id.Name) {
			return c.checkIntrinsicCall(id.Name, call)
		}
	}

	calleeT, sig := c.checkExpr(call.Callee)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	for _, a := range call.Args {
		if _, sig := c.checkExpr(a); sig == errAbort {
			return types.Unknown, errAbort
		}
	}
	cb, ok := calleeT.(*types.Callback)
	if !ok {
		if types.IsUnknown(calleeT) {
			return types.Unknown, errContinue
		}
		if sig := c.add(diag.Errorf(span(call), diag.NotCallable,
			"cannot call value of type %s", calleeT)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	if len(call.Args) != len(cb.Signature.ParameterTypes) {
		if sig := c.add(diag.Errorf(span(call), diag.ArityMismatch,
			"expected %d arguments, got %d", len(cb.Signature.ParameterTypes), len(call.Args))); sig == errAbort {
			return types.Unknown, errAbort
		}
		return cb.Signature.ReturnType, errContinue
	}
	for i, a := range call.Args {
		argT, _ := a.GetMeta(ast.MetaType)
		at, _ := argT.(types.Type)
		if at != nil && !types.Assignable(at, cb.Signature.ParameterTypes[i]) {
			if sig := c.add(diag.Errorf(span(a), diag.TypeMismatch,
				"argument %d has type %s, expected %s", i+1, at, cb.Signature.ParameterTypes[i])); sig == errAbort {
				return types.Unknown, errAbort
			}
		}
	}
	return cb.Signature.ReturnType, errContinue
}

func (c *Checker) checkIntrinsicCall(name string, call *ast.CallExpr) (types.Type, abortSignal) {
	intr := c.tgt.Intrinsics[name]
	for _, a := range call.Args {
		if _, sig := c.checkExpr(a); sig == errAbort {
			return types.Unknown, errAbort
		}
	}
	if intr.ParamCount >= 0 && len(call.Args) != intr.ParamCount {
		if sig := c.add(diag.Errorf(span(call), diag.ArityMismatch,
			"intrinsic %q expects %d arguments, got %d", name, intr.ParamCount, len(call.Args))); sig == errAbort {
			return types.Unknown, errAbort
		}
	}
	switch name {
	case "peek", "lo", "hi", "sizeof", "length":
		return types.Byte, errContinue
	case "peekw":
		return types.Word, errContinue
	default:
		return types.Void, errContinue
	}
}

func (c *Checker) checkIndexExpr(ix *ast.IndexExpr) (types.Type, abortSignal) {
	baseT, sig := c.checkExpr(ix.Base)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	idxT, sig := c.checkExpr(ix.Index)
	if sig == errAbort {
		return types.Unknown, errAbort
	}
	if !types.IsNumeric(idxT) {
		if sig := c.add(diag.Errorf(span(ix.Index), diag.TypeMismatch,
			"array index must be numeric, got %s", idxT)); sig == errAbort {
			return types.Unknown, errAbort
		}
	}
	arr, ok := baseT.(*types.Array)
	if !ok {
		if types.IsUnknown(baseT) {
			return types.Unknown, errContinue
		}
		if sig := c.add(diag.Errorf(span(ix), diag.NotIndexable,
			"cannot index value of type %s", baseT)); sig == errAbort {
			return types.Unknown, errAbort
		}
		return types.Unknown, errContinue
	}
	return arr.Element, errContinue
}

func (c *Checker) checkMemberExpr(m *ast.MemberExpr) (types.Type, abortSignal) {
	if _, sig := c.checkExpr(m.Base); sig == errAbort {
		return types.Unknown, errAbort
	}
	if sig := c.add(diag.Errorf(span(m), diag.MemberAccessUnsupported,
		"member access is not supported (struct maps are not type-checked, see §9)")); sig == errAbort {
		return types.Unknown, errAbort
	}
	return types.Unknown, errContinue
}
