// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/blendsdk/blend65/ast"
)

// The JSON-encoded AST this command reads is not part of the semantic
// core's contract (§6 leaves the parser out of scope entirely); it lives
// only here, as the thin substitute for a real lexer/parser front end.
// Every node is a {"kind": "...", ...} object; decodeProgram walks it
// into the real ast.Program the core operates on.

type jsonProgram struct {
	Module       string        `json:"module"`
	Declarations []jsonDecl    `json:"declarations"`
}

type jsonDecl struct {
	Kind       string        `json:"kind"`
	Name       string        `json:"name"`
	Exported   bool          `json:"exported"`
	Stub       bool          `json:"stub"`
	Type       string        `json:"type"`
	Params     []jsonParam   `json:"params"`
	ReturnType string        `json:"returnType"`
	Body       []jsonStmt    `json:"body"`
	Interrupt  bool          `json:"interrupt"`
	Storage    string        `json:"storage"`
	Const      bool          `json:"const"`
	Init       *jsonExpr     `json:"init"`
	Address    int           `json:"address"`
	EndAddress int           `json:"endAddress"`
	FromModule string        `json:"fromModule"`
	SymbolName string        `json:"symbolName"`
	Alias      string        `json:"alias"`
}

type jsonParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonStmt struct {
	Kind    string      `json:"kind"`
	Value   *jsonExpr   `json:"value"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Const   bool        `json:"const"`
	Storage string      `json:"storage"`
	Init    *jsonExpr   `json:"init"`
	Cond    *jsonExpr   `json:"cond"`
	Then    []jsonStmt  `json:"then"`
	Else    []jsonStmt  `json:"else"`
	Body    []jsonStmt  `json:"body"`
	InitS   *jsonStmt   `json:"initStmt"`
	Incr    *jsonStmt   `json:"incr"`
	IsRange bool        `json:"isRange"`
	Var     string      `json:"var"`
	Start   *jsonExpr   `json:"start"`
	End     *jsonExpr   `json:"end"`
	Step    *jsonExpr   `json:"step"`
	Subject *jsonExpr   `json:"subject"`
	Cases   []jsonCase  `json:"cases"`
	X       *jsonExpr   `json:"x"`
	List    []jsonStmt  `json:"list"`
}

type jsonCase struct {
	Test *jsonExpr  `json:"test"`
	Body []jsonStmt `json:"body"`
}

type jsonExpr struct {
	Kind     string      `json:"kind"`
	Value    int64       `json:"value"`
	Bool     bool        `json:"bool"`
	Str      string      `json:"str"`
	Elements []jsonExpr  `json:"elements"`
	Name     string      `json:"name"`
	Op       string      `json:"op"`
	Left     *jsonExpr   `json:"left"`
	Right    *jsonExpr   `json:"right"`
	Operand  *jsonExpr   `json:"operand"`
	Target   *jsonExpr   `json:"target"` // assign: the lvalue; Right doubles as the assigned value
	Callee   *jsonExpr   `json:"callee"`
	Args     []jsonExpr  `json:"args"`
	Base     *jsonExpr   `json:"base"`
	Index    *jsonExpr   `json:"index"`
	Field    string      `json:"field"`
}

var binaryOps = map[string]ast.BinaryOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe, "==": ast.OpEq, "!=": ast.OpNe,
	"&&": ast.OpAnd, "||": ast.OpOr, "&": ast.OpBitAnd, "|": ast.OpBitOr, "^": ast.OpBitXor,
	"<<": ast.OpShl, ">>": ast.OpShr,
}

var unaryOps = map[string]ast.UnaryOp{
	"-": ast.OpNeg, "!": ast.OpNot, "~": ast.OpBitNot, "&": ast.OpAddressOf,
}

var assignOps = map[string]ast.AssignOp{
	"=": ast.AssignSet, "+=": ast.AssignAdd, "-=": ast.AssignSub, "*=": ast.AssignMul,
	"/=": ast.AssignDiv, "%=": ast.AssignMod, "&=": ast.AssignAnd, "|=": ast.AssignOr,
	"^=": ast.AssignXor, "<<=": ast.AssignShl, ">>=": ast.AssignShr,
}

func decodeProgram(data []byte) (*ast.Program, error) {
	var jp jsonProgram
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	prog := &ast.Program{Mod: ast.Module{Name: jp.Module}}
	for _, jd := range jp.Declarations {
		d, err := decodeDecl(jd)
		if err != nil {
			return nil, err
		}
		prog.Declarations = append(prog.Declarations, d)
	}
	return prog, nil
}

func decodeDecl(jd jsonDecl) (ast.Decl, error) {
	switch jd.Kind {
	case "function":
		fn := &ast.FunctionDecl{ReturnType: jd.ReturnType, Interrupt: jd.Interrupt}
		fn.Name = jd.Name
		fn.Exported = jd.Exported
		fn.Stub = jd.Stub
		for _, p := range jd.Params {
			fn.Params = append(fn.Params, ast.Param{Name: p.Name, TypeAnnotation: p.Type})
		}
		body, err := decodeStmts(jd.Body)
		if err != nil {
			return nil, err
		}
		fn.Body = body
		return fn, nil

	case "variable":
		v := &ast.VariableDecl{Storage: ast.StorageClass(jd.Storage), Const: jd.Const}
		v.Name = jd.Name
		v.Exported = jd.Exported
		v.TypeAnnotation = jd.Type
		if jd.Init != nil {
			init, err := decodeExpr(*jd.Init)
			if err != nil {
				return nil, err
			}
			v.Initializer = init
		}
		return v, nil

	case "import":
		imp := &ast.ImportDecl{FromModule: jd.FromModule, SymbolName: jd.SymbolName, Alias: jd.Alias}
		imp.Name = jd.Name
		return imp, nil

	case "simplemap":
		m := &ast.SimpleMapDecl{Address: jd.Address}
		m.Name = jd.Name
		m.TypeAnnotation = jd.Type
		return m, nil

	case "rangemap":
		m := &ast.RangeMapDecl{StartAddress: jd.Address, EndAddress: jd.EndAddress}
		m.Name = jd.Name
		m.TypeAnnotation = jd.Type
		return m, nil

	default:
		return nil, fmt.Errorf("decodeDecl: unknown kind %q", jd.Kind)
	}
}

func decodeStmts(js []jsonStmt) ([]ast.Stmt, error) {
	if js == nil {
		return nil, nil
	}
	out := make([]ast.Stmt, 0, len(js))
	for _, s := range js {
		stmt, err := decodeStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeStmt(js jsonStmt) (ast.Stmt, error) {
	sp := ast.Span{}
	switch js.Kind {
	case "expr":
		x, err := decodeExpr(*js.X)
		if err != nil {
			return nil, err
		}
		return ast.NewExprStmt(sp, x), nil

	case "vardecl":
		v := &ast.VariableDecl{Storage: ast.StorageClass(js.Storage), Const: js.Const}
		v.Name = js.Name
		v.TypeAnnotation = js.Type
		if js.Init != nil {
			init, err := decodeExpr(*js.Init)
			if err != nil {
				return nil, err
			}
			v.Initializer = init
		}
		return ast.NewVarDeclStmt(sp, v), nil

	case "if":
		cond, err := decodeExpr(*js.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmts(js.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmts(js.Else)
		if err != nil {
			return nil, err
		}
		return ast.NewIfStmt(sp, cond, then, els), nil

	case "while":
		cond, err := decodeExpr(*js.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(js.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewWhileStmt(sp, cond, body), nil

	case "for":
		if js.IsRange {
			start, err := decodeExpr(*js.Start)
			if err != nil {
				return nil, err
			}
			end, err := decodeExpr(*js.End)
			if err != nil {
				return nil, err
			}
			var step ast.Expr
			if js.Step != nil {
				step, err = decodeExpr(*js.Step)
				if err != nil {
					return nil, err
				}
			}
			body, err := decodeStmts(js.Body)
			if err != nil {
				return nil, err
			}
			return ast.NewForRangeStmt(sp, js.Var, start, end, step, body), nil
		}
		var init ast.Stmt
		var err error
		if js.InitS != nil {
			init, err = decodeStmt(*js.InitS)
			if err != nil {
				return nil, err
			}
		}
		var cond ast.Expr
		if js.Cond != nil {
			cond, err = decodeExpr(*js.Cond)
			if err != nil {
				return nil, err
			}
		}
		var incr ast.Stmt
		if js.Incr != nil {
			incr, err = decodeStmt(*js.Incr)
			if err != nil {
				return nil, err
			}
		}
		body, err := decodeStmts(js.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewForStmt(sp, init, cond, incr, body), nil

	case "match":
		subj, err := decodeExpr(*js.Subject)
		if err != nil {
			return nil, err
		}
		var cases []ast.MatchCase
		for _, jc := range js.Cases {
			var test ast.Expr
			if jc.Test != nil {
				test, err = decodeExpr(*jc.Test)
				if err != nil {
					return nil, err
				}
			}
			body, err := decodeStmts(jc.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.MatchCase{Test: test, Body: body})
		}
		return ast.NewMatchStmt(sp, subj, cases), nil

	case "return":
		var value ast.Expr
		if js.Value != nil {
			v, err := decodeExpr(*js.Value)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return ast.NewReturnStmt(sp, value), nil

	case "break":
		return ast.NewBreakStmt(sp), nil

	case "continue":
		return ast.NewContinueStmt(sp), nil

	case "block":
		list, err := decodeStmts(js.List)
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStmt(sp, list), nil

	default:
		return nil, fmt.Errorf("decodeStmt: unknown kind %q", js.Kind)
	}
}

func decodeExpr(je jsonExpr) (ast.Expr, error) {
	sp := ast.Span{}
	switch je.Kind {
	case "int":
		return ast.NewIntLiteral(sp, je.Value), nil

	case "bool":
		return ast.NewBoolLiteral(sp, je.Bool), nil

	case "string":
		return ast.NewStringLiteral(sp, je.Str), nil

	case "array":
		elems := make([]ast.Expr, 0, len(je.Elements))
		for _, e := range je.Elements {
			el, err := decodeExpr(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
		return ast.NewArrayLiteral(sp, elems), nil

	case "ident":
		return ast.NewIdent(sp, je.Name), nil

	case "binary":
		op, ok := binaryOps[je.Op]
		if !ok {
			return nil, fmt.Errorf("decodeExpr: unknown binary op %q", je.Op)
		}
		left, err := decodeExpr(*je.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(*je.Right)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpr(sp, op, left, right), nil

	case "unary":
		op, ok := unaryOps[je.Op]
		if !ok {
			return nil, fmt.Errorf("decodeExpr: unknown unary op %q", je.Op)
		}
		operand, err := decodeExpr(*je.Operand)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(sp, op, operand), nil

	case "assign":
		op, ok := assignOps[je.Op]
		if !ok {
			return nil, fmt.Errorf("decodeExpr: unknown assign op %q", je.Op)
		}
		target, err := decodeExpr(*je.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(*je.Right)
		if err != nil {
			return nil, err
		}
		return ast.NewAssignExpr(sp, op, target, value), nil

	case "call":
		callee, err := decodeExpr(*je.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(je.Args))
		for _, a := range je.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return ast.NewCallExpr(sp, callee, args), nil

	case "index":
		base, err := decodeExpr(*je.Base)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(*je.Index)
		if err != nil {
			return nil, err
		}
		return ast.NewIndexExpr(sp, base, index), nil

	case "member":
		base, err := decodeExpr(*je.Base)
		if err != nil {
			return nil, err
		}
		return ast.NewMemberExpr(sp, base, je.Field), nil

	default:
		return nil, fmt.Errorf("decodeExpr: unknown kind %q", je.Kind)
	}
}
