// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package il

import (
	"fmt"

	"github.com/blendsdk/blend65/types"
)

// VirtualRegister is one SSA-eligible value slot within a function (§3).
// Ids are monotone within a function and never reused; SSAVersion is
// filled in by the ssaconv package and left at 0 until then.
type VirtualRegister struct {
	ID         int
	Type       types.Type
	DebugName  string
	SSAVersion int
}

func (v *VirtualRegister) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.DebugName != "" {
		return fmt.Sprintf("%%%s%d", v.DebugName, v.ID)
	}
	return fmt.Sprintf("%%r%d", v.ID)
}
