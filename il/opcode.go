// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package il implements the IL model (§4.J): ILModule, ILFunction,
// BasicBlock, Instruction and VirtualRegister, plus the CFG utilities
// (reachability, postorder, dominators, dominance frontier, structural
// validation) the IL generator and SSA constructor build on.
package il

// Opcode enumerates the IL's opaque instruction set (§3's IL model).
type Opcode int

const (
	OpConst Opcode = iota
	OpLoadVar
	OpStoreVar
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpNeg
	OpNot
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe
	OpIndexLoad
	OpIndexStore
	OpAddressOf
	OpCall
	OpReturn
	OpReturnVoid
	OpJump
	OpBranch
	OpPhi

	// Intrinsic opcodes (§4.K: built-ins recognized without declarations).
	OpPeek
	OpPoke
	OpPeekW
	OpPokeW
	OpLo
	OpHi
	OpSei
	OpCli
	OpNop
	OpBrk
	OpPha
	OpPla
	OpPhp
	OpPlp
	OpBarrier
	OpVolatileRead
	OpVolatileWrite
)

var opcodeNames = map[Opcode]string{
	OpConst: "CONST", OpLoadVar: "LOAD_VAR", OpStoreVar: "STORE_VAR",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpAnd: "AND", OpOr: "OR", OpXor: "XOR", OpShl: "SHL", OpShr: "SHR",
	OpNeg: "NEG", OpNot: "NOT",
	OpCmpEq: "CMP_EQ", OpCmpNe: "CMP_NE", OpCmpLt: "CMP_LT", OpCmpLe: "CMP_LE",
	OpCmpGt: "CMP_GT", OpCmpGe: "CMP_GE",
	OpIndexLoad: "INDEX_LOAD", OpIndexStore: "INDEX_STORE",
	OpAddressOf: "ADDRESS_OF",
	OpCall:      "CALL", OpReturn: "RETURN", OpReturnVoid: "RETURN_VOID",
	OpJump: "JUMP", OpBranch: "BRANCH", OpPhi: "PHI",
	OpPeek: "PEEK", OpPoke: "POKE", OpPeekW: "PEEKW", OpPokeW: "POKEW",
	OpLo: "LO", OpHi: "HI", OpSei: "SEI", OpCli: "CLI", OpNop: "NOP",
	OpBrk: "BRK", OpPha: "PHA", OpPla: "PLA", OpPhp: "PHP", OpPlp: "PLP",
	OpBarrier: "BARRIER", OpVolatileRead: "VOLATILE_READ", OpVolatileWrite: "VOLATILE_WRITE",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "OP(?)"
}

// IsTerminator reports whether op ends a basic block (§3: "a terminator
// occurs at most once and is always last").
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpReturn, OpReturnVoid, OpJump, OpBranch:
		return true
	default:
		return false
	}
}

// IntrinsicOpcode maps a recognized built-in name to its opcode (§4.K).
// sizeof/length are not included: they fold to OpConst at lowering time
// rather than surviving as a call-like opcode.
var IntrinsicOpcode = map[string]Opcode{
	"peek": OpPeek, "poke": OpPoke, "peekw": OpPeekW, "pokew": OpPokeW,
	"lo": OpLo, "hi": OpHi, "sei": OpSei, "cli": OpCli, "nop": OpNop,
	"brk": OpBrk, "pha": OpPha, "pla": OpPla, "php": OpPhp, "plp": OpPlp,
	"barrier": OpBarrier, "volatile_read": OpVolatileRead, "volatile_write": OpVolatileWrite,
}

// CompileTimeIntrinsics names the built-ins that fold to a constant
// during lowering instead of emitting a call-like instruction (§4.K).
var CompileTimeIntrinsics = map[string]bool{"sizeof": true, "length": true}
