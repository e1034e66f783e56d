// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbols_test

import (
	"testing"

	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/types"
)

func TestDeclareDuplicateRejected(t *testing.T) {
	tbl := symbols.NewTable(nil)
	a := &symbols.Symbol{Name: "x", SymKind: symbols.Variable, Type: types.Byte}
	b := &symbols.Symbol{Name: "x", SymKind: symbols.Variable, Type: types.Word}
	if err := tbl.Declare(a); err != nil {
		t.Fatalf("first declare failed: %v", err)
	}
	if err := tbl.Declare(b); err == nil {
		t.Fatalf("expected duplicate declaration error")
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	tbl := symbols.NewTable(nil)
	tbl.Declare(&symbols.Symbol{Name: "g", SymKind: symbols.Variable, Type: types.Byte})
	tbl.EnterScope(symbols.FunctionScope, nil)
	defer tbl.ExitScope()
	if _, ok := tbl.Lookup("g"); !ok {
		t.Errorf("expected to find module symbol g from nested function scope")
	}
	if _, ok := tbl.LookupLocal("g"); ok {
		t.Errorf("LookupLocal should not see parent scope's symbol")
	}
}

func TestUnbalancedExitPanics(t *testing.T) {
	tbl := symbols.NewTable(nil)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on unbalanced ExitScope")
		}
	}()
	tbl.ExitScope()
}

func TestGetVisibleSymbols(t *testing.T) {
	tbl := symbols.NewTable(nil)
	tbl.Declare(&symbols.Symbol{Name: "g", SymKind: symbols.Variable, Type: types.Byte})
	tbl.EnterScope(symbols.FunctionScope, nil)
	tbl.Declare(&symbols.Symbol{Name: "p", SymKind: symbols.Parameter, Type: types.Word})
	vis := tbl.GetVisibleSymbols()
	if len(vis) != 2 {
		t.Fatalf("expected 2 visible symbols, got %d", len(vis))
	}
}
