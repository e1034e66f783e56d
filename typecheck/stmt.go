// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/types"
)

func (c *Checker) checkStmt(s ast.Stmt) abortSignal {
	switch st := s.(type) {
	case *ast.ExprStmt:
		_, sig := c.checkExpr(st.X)
		return sig
	case *ast.VarDeclStmt:
		return c.checkLocalVarDecl(st)
	case *ast.IfStmt:
		return c.checkIfStmt(st)
	case *ast.WhileStmt:
		return c.checkWhileStmt(st)
	case *ast.ForStmt:
		return c.checkForStmt(st)
	case *ast.MatchStmt:
		return c.checkMatchStmt(st)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(st)
	case *ast.BreakStmt:
		return c.checkLoopExit(st, diag.BreakOutsideLoop, "break")
	case *ast.ContinueStmt:
		return c.checkLoopExit(st, diag.ContinueOutsideLoop, "continue")
	case *ast.BlockStmt:
		return c.checkStmtList(st.List)
	default:
		return errContinue
	}
}

func (c *Checker) checkStmtList(list []ast.Stmt) abortSignal {
	for _, s := range list {
		if c.checkStmt(s) == errAbort {
			return errAbort
		}
	}
	return errContinue
}

func (c *Checker) checkLocalVarDecl(st *ast.VarDeclStmt) abortSignal {
	return c.checkVariableDecl(st.Decl)
}

func (c *Checker) checkIfStmt(st *ast.IfStmt) abortSignal {
	condT, sig := c.checkExpr(st.Cond)
	if sig == errAbort {
		return errAbort
	}
	if !types.IsBoolean(condT) {
		if sig := c.add(diag.Errorf(span(st.Cond), diag.TypeMismatch,
			"if condition must be boolean, got %s", condT)); sig == errAbort {
			return errAbort
		}
	}
	if c.checkStmtList(st.Then) == errAbort {
		return errAbort
	}
	return c.checkStmtList(st.Else)
}

func (c *Checker) checkWhileStmt(st *ast.WhileStmt) abortSignal {
	condT, sig := c.checkExpr(st.Cond)
	if sig == errAbort {
		return errAbort
	}
	if !types.IsBoolean(condT) {
		if sig := c.add(diag.Errorf(span(st.Cond), diag.TypeMismatch,
			"while condition must be boolean, got %s", condT)); sig == errAbort {
			return errAbort
		}
	}
	c.loopDepth++
	defer func() { c.loopDepth-- }()
	return c.checkStmtList(st.Body)
}

func (c *Checker) checkForStmt(st *ast.ForStmt) abortSignal {
	if st.IsRange {
		if _, sig := c.checkExpr(st.Start); sig == errAbort {
			return errAbort
		}
		if _, sig := c.checkExpr(st.End); sig == errAbort {
			return errAbort
		}
		if st.Step != nil {
			if _, sig := c.checkExpr(st.Step); sig == errAbort {
				return errAbort
			}
		}
	} else {
		if st.Init != nil {
			if c.checkStmt(st.Init) == errAbort {
				return errAbort
			}
		}
		if st.Cond != nil {
			condT, sig := c.checkExpr(st.Cond)
			if sig == errAbort {
				return errAbort
			}
			if !types.IsBoolean(condT) {
				if sig := c.add(diag.Errorf(span(st.Cond), diag.TypeMismatch,
					"for condition must be boolean, got %s", condT)); sig == errAbort {
					return errAbort
				}
			}
		}
		if st.Incr != nil {
			if c.checkStmt(st.Incr) == errAbort {
				return errAbort
			}
		}
	}
	c.loopDepth++
	defer func() { c.loopDepth-- }()
	return c.checkStmtList(st.Body)
}

func (c *Checker) checkMatchStmt(st *ast.MatchStmt) abortSignal {
	subjT, sig := c.checkExpr(st.Subject)
	if sig == errAbort {
		return errAbort
	}
	for _, cs := range st.Cases {
		if cs.Test != nil {
			testT, sig := c.checkExpr(cs.Test)
			if sig == errAbort {
				return errAbort
			}
			if !types.Identical(subjT, testT) && types.IsNumeric(subjT) != types.IsNumeric(testT) {
				if sig := c.add(diag.Errorf(span(cs.Test), diag.TypeMismatch,
					"case value has type %s, expected %s", testT, subjT)); sig == errAbort {
					return errAbort
				}
			}
		}
		if c.checkStmtList(cs.Body) == errAbort {
			return errAbort
		}
	}
	return errContinue
}

func (c *Checker) checkReturnStmt(st *ast.ReturnStmt) abortSignal {
	fn := c.currentFunc()
	var want types.Type = types.Void
	if fn != nil {
		want = fn.returnType
		fn.sawReturn = true
	}
	if st.Value == nil {
		if want != nil && want.Kind() != types.KindVoid && !types.IsUnknown(want) {
			return c.add(diag.Errorf(span(st), diag.MissingReturnValue,
				"missing return value; function returns %s", want))
		}
		return errContinue
	}
	gotT, sig := c.checkExpr(st.Value)
	if sig == errAbort {
		return errAbort
	}
	if want != nil && want.Kind() == types.KindVoid {
		return c.add(diag.Errorf(span(st.Value), diag.ReturnTypeMismatch,
			"function returns void but a value was returned"))
	}
	if want != nil && !types.Assignable(gotT, want) {
		return c.add(diag.Errorf(span(st.Value), diag.ReturnTypeMismatch,
			"returned value has type %s, expected %s", gotT, want))
	}
	return errContinue
}

func (c *Checker) checkLoopExit(n ast.Node, code diag.Code, what string) abortSignal {
	if c.loopDepth == 0 {
		return c.add(diag.Errorf(span(n), code, "%s used outside of a loop", what))
	}
	return errContinue
}
