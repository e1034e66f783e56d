// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"golang.org/x/sync/errgroup"

	"github.com/blendsdk/blend65/diag"
)

// AnalyzeFunc runs the single-module Pass 1-7 pipeline over mod,
// recording diagnostics on mod.Diags and populating mod.Table.
type AnalyzeFunc func(mod *Module) error

// AnalyzeMultiple runs analyze over every registered module, honoring
// import dependency order: modules whose registered dependencies are
// already fully analyzed run concurrently in the same wave, using
// errgroup.Group the way
// _examples/golang-tools/gopls/internal/cache/check.go fans out
// type-checking across packages (§4.I, §5's one sanctioned concurrency
// point). If the dependency graph has a cycle, CIRCULAR_IMPORT is
// reported and every module runs sequentially in registration order
// instead, since no valid concurrent wave can be computed.
func AnalyzeMultiple(r *Registry, diags *diag.Collector, analyze AnalyzeFunc) error {
	levels, acyclic := kahnLevels(r)
	if !acyclic {
		reportCycle(r, levels, diags)
		for _, name := range r.RegistrationOrder() {
			if err := analyze(r.modules[name]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, wave := range levels {
		var g errgroup.Group
		for _, name := range wave {
			mod := r.modules[name]
			g.Go(func() error {
				return analyze(mod)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
