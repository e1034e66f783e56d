// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/module"
)

// localNamePattern accepts a dotted/slashed sequence of identifier-like
// components (e.g. "demo.video.sprites", "demo/video/sprites"), the shape
// §4.I's module names actually take. It's deliberately more permissive
// than a Go module path (no registrable-domain requirement).
var localNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*([./][A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidateName checks a module name against golang.org/x/mod/module's
// escaping/character rules first (these are stricter than this language
// needs in places, e.g. requiring a dot in the path's first element, and
// they let an element hold consecutive dots, so a name containing ".." is
// never accepted on this path). Names that don't pass it fall back to
// localNamePattern, which accepts the plain dotted names (e.g.
// "demo.video.sprites") this language actually uses and that
// module.CheckPath rejects for lacking a "." in a lone first element's
// domain-like position.
func ValidateName(name string) error {
	if err := module.CheckPath(name); err == nil && !strings.Contains(name, "..") {
		return nil
	}
	if localNamePattern.MatchString(name) {
		return nil
	}
	return fmt.Errorf("module: %q is not a valid dotted/slashed module name", name)
}
