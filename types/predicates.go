// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the type predicates and compatibility rules of §3:
// assignability, numeric promotion, and numeric/boolean classification.

package types

// IsNumeric reports whether t is byte or word; Unknown also counts, so an
// earlier error does not cascade.
func IsNumeric(t Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case KindByte, KindWord, KindUnknown:
		return true
	}
	return false
}

// IsBoolean reports whether t is the boolean type or Unknown.
func IsBoolean(t Type) bool {
	return t != nil && (t.Kind() == KindBoolean || t.Kind() == KindUnknown)
}

// Assignable implements §3's assignability rule for source S to target T:
// identical kinds succeed; byte widens to word; word never narrows to
// byte; Unknown is bidirectionally compatible to avoid error cascades.
func Assignable(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Kind() == KindUnknown || to.Kind() == KindUnknown {
		return true
	}
	if Identical(from, to) {
		return true
	}
	if from.Kind() == KindByte && to.Kind() == KindWord {
		return true
	}
	return false
}

// PromoteNumeric implements §3's arithmetic/bitwise promotion rule: the
// result is Unknown if either operand is Unknown (or nil), else Word if
// either operand is Word, else Byte. Callers must have
// already checked IsNumeric(a) && IsNumeric(b).
func PromoteNumeric(a, b Type) Type {
	if a == nil || b == nil {
		return Unknown
	}
	if a.Kind() == KindUnknown || b.Kind() == KindUnknown {
		return Unknown
	}
	if a.Kind() == KindWord || b.Kind() == KindWord {
		return Word
	}
	return Byte
}

// IsArray reports whether t is an Array type.
func IsArray(t Type) bool {
	_, ok := t.(*Array)
	return ok
}

// IsCallback reports whether t is a Callback type.
func IsCallback(t Type) bool {
	_, ok := t.(*Callback)
	return ok
}

// IsUnknown reports whether t is the Unknown sentinel, the "bottom" value
// that lets downstream analyses remain total functions after an error (§7).
func IsUnknown(t Type) bool {
	return t == nil || t.Kind() == KindUnknown
}
