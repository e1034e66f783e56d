// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types implements the canonical type values of the blend65
// semantic core (§4.A): Byte, Word, Boolean, Void, String, Array,
// Callback and Unknown, together with assignability and promotion rules.
package types

import "fmt"

// Kind identifies which of the closed set of type shapes a Type is.
type Kind int

const (
	Invalid Kind = iota
	KindByte
	KindWord
	KindBoolean
	KindVoid
	KindString
	KindArray
	KindCallback
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindCallback:
		return "callback"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Type is implemented by every value in this package's closed type
// lattice. Types are compared by structural value equality (Identical),
// never by pointer identity, since arrays and callbacks are constructed
// freely by the resolver.
type Type interface {
	Kind() Kind
	// Name is the human-readable spelling used in diagnostics.
	Name() string
	// Size is the type's size in bytes on the target.
	Size() int
	// Signed reports whether arithmetic on this type is signed. This
	// language has no signed integers, but the field exists so a future
	// signed kind doesn't require an interface change.
	Signed() bool
	String() string
}

// Basic is a predeclared scalar type: byte, word, boolean, void or string.
type Basic struct {
	kind Kind
	name string
	size int
}

func (b *Basic) Kind() Kind    { return b.kind }
func (b *Basic) Name() string  { return b.name }
func (b *Basic) Size() int     { return b.size }
func (b *Basic) Signed() bool  { return false }
func (b *Basic) String() string { return b.name }

// Predeclared Basic singletons, canonicalized once so equality checks that
// only need "is this the byte type" can compare pointers; structural
// Identical is still used everywhere assignability matters, since Array
// and Callback are never singletons.
var (
	Byte    = &Basic{kind: KindByte, name: "byte", size: 1}
	Word    = &Basic{kind: KindWord, name: "word", size: 2}
	Boolean = &Basic{kind: KindBoolean, name: "boolean", size: 1}
	Void    = &Basic{kind: KindVoid, name: "void", size: 0}
	Str     = &Basic{kind: KindString, name: "string", size: 2} // pointer-sized descriptor
	Unknown = &Basic{kind: KindUnknown, name: "unknown", size: 0}
)

// builtins maps the predeclared type names to their singleton, used by
// GetBuiltin.
var builtins = map[string]Type{
	"byte":    Byte,
	"word":    Word,
	"boolean": Boolean,
	"void":    Void,
	"string":  Str,
}

// GetBuiltin resolves one of the predeclared builtin type names, returning
// (nil, false) if name does not name a builtin.
func GetBuiltin(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// Array is element[length] or element[] when Length is absent pending
// inference (§4.D).
type Array struct {
	Element Type
	Length  int // element count; meaningless when HasSize is false
	HasSize bool
}

func (a *Array) Kind() Kind   { return KindArray }
func (a *Array) Signed() bool { return false }
func (a *Array) Size() int {
	if !a.HasSize {
		return 0
	}
	return a.Element.Size() * a.Length
}
func (a *Array) Name() string { return a.String() }
func (a *Array) String() string {
	if a.HasSize {
		return fmt.Sprintf("array<%s,%d>", a.Element.String(), a.Length)
	}
	return fmt.Sprintf("array<%s,?>", a.Element.String())
}

// CreateArrayType constructs an Array type. size < 0 means "unsized,
// pending inference" (§4.D's empty-bracket array declarations).
func CreateArrayType(element Type, size int) *Array {
	if size < 0 {
		return &Array{Element: element}
	}
	return &Array{Element: element, Length: size, HasSize: true}
}

// FunctionSignature is the parameter/return shape of a callback value,
// carried in full so two Callback types can be compared for compatibility.
type FunctionSignature struct {
	ParameterTypes []Type
	ParameterNames []string
	ReturnType     Type
}

func (s *FunctionSignature) String() string {
	out := "("
	for i, p := range s.ParameterTypes {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}
	out += ") -> "
	if s.ReturnType != nil {
		out += s.ReturnType.String()
	} else {
		out += "void"
	}
	return out
}

// Callback is a function-pointer type; its identity for compatibility
// purposes is its full signature, not a name.
type Callback struct {
	Signature *FunctionSignature
}

func (c *Callback) Kind() Kind     { return KindCallback }
func (c *Callback) Signed() bool   { return false }
func (c *Callback) Size() int      { return 2 } // a code/vector address
func (c *Callback) Name() string   { return c.String() }
func (c *Callback) String() string { return "callback" + c.Signature.String() }

// CreateCallbackType constructs a Callback type around sig.
func CreateCallbackType(sig *FunctionSignature) *Callback {
	return &Callback{Signature: sig}
}

// Identical reports whether a and b denote the same type by structure.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() == KindUnknown || b.Kind() == KindUnknown {
		return true // Unknown absorbs errors, see §3.
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Basic:
		return true // same Kind implies same Basic singleton
	case *Array:
		bv := b.(*Array)
		if av.HasSize != bv.HasSize {
			return false
		}
		if av.HasSize && av.Length != bv.Length {
			return false
		}
		return Identical(av.Element, bv.Element)
	case *Callback:
		bv := b.(*Callback)
		return signaturesIdentical(av.Signature, bv.Signature)
	default:
		return false
	}
}

func signaturesIdentical(a, b *FunctionSignature) bool {
	if len(a.ParameterTypes) != len(b.ParameterTypes) {
		return false
	}
	for i := range a.ParameterTypes {
		if !Identical(a.ParameterTypes[i], b.ParameterTypes[i]) {
			return false
		}
	}
	if (a.ReturnType == nil) != (b.ReturnType == nil) {
		return false
	}
	if a.ReturnType != nil && !Identical(a.ReturnType, b.ReturnType) {
		return false
	}
	return true
}
