// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package il

// Instruction is one IL operation within a BasicBlock. Not every field is
// meaningful for every Op; which ones apply is determined by Op alone,
// matching §3's "opaque opcode list" model rather than one Go type per
// opcode (ssa.go's old per-kind Value/Instruction types proved more
// machinery than this closed, non-extensible opcode set needs).
type Instruction struct {
	Op Opcode

	// Result is the register this instruction defines, nil for
	// side-effect-only instructions (STORE_VAR, terminators, intrinsics
	// with no return value).
	Result *VirtualRegister

	// Args are the operand registers, in opcode-defined order (e.g.
	// left/right for a binary op, the stored value for STORE_VAR, the
	// condition for BRANCH).
	Args []*VirtualRegister

	// ConstValue holds the immediate for OpConst.
	ConstValue int

	// VarName names the source variable for LOAD_VAR/STORE_VAR.
	VarName string

	// Callee names the called function for OpCall; CalleeIsIntrinsic
	// marks a call to one of the built-ins in IntrinsicOpcode.
	Callee            string
	CalleeIsIntrinsic bool

	// Jump/Branch targets, valid only on a terminator instruction.
	Jump       BlockID
	BranchThen BlockID
	BranchElse BlockID

	// PhiArgs maps a predecessor block to the value flowing in from it,
	// valid only for OpPhi (§4.L step 5).
	PhiArgs map[BlockID]*VirtualRegister
}

func (i *Instruction) String() string {
	if i.Result != nil {
		return i.Result.String() + " = " + i.Op.String()
	}
	return i.Op.String()
}
