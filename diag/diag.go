// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag defines the diagnostic shape shared by every pass of the
// semantic core: severities, enumerated codes, and source positions.
package diag

import "fmt"

// Severity classifies a Diagnostic along the axis that determines whether
// it disables code generation.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "severity(?)"
	}
}

// Code enumerates the diagnostic codes a pass may emit. New passes add new
// codes here rather than embedding ad hoc strings, so that callers can
// switch on Code without string comparisons.
type Code string

const (
	DuplicateDeclaration     Code = "DUPLICATE_DECLARATION"
	UndefinedVariable        Code = "UNDEFINED_VARIABLE"
	UnknownType              Code = "UNKNOWN_TYPE"
	TypeMismatch             Code = "TYPE_MISMATCH"
	RecursionDetected        Code = "RECURSION_DETECTED"
	IndirectRecursionDetected Code = "INDIRECT_RECURSION_DETECTED"
	UnreachableCode          Code = "UNREACHABLE_CODE"
	UnusedVariable           Code = "UNUSED_VARIABLE"
	CircularImport           Code = "CIRCULAR_IMPORT"
	ModuleNotFound           Code = "MODULE_NOT_FOUND"
	ImportSymbolNotFound     Code = "IMPORT_SYMBOL_NOT_FOUND"
	SymbolNotExported        Code = "SYMBOL_NOT_EXPORTED"
	InvalidImportSyntax      Code = "INVALID_IMPORT_SYNTAX"
	ExpectedToken            Code = "EXPECTED_TOKEN"
	UnexpectedToken          Code = "UNEXPECTED_TOKEN"
	InvalidLvalue            Code = "INVALID_LVALUE"
	AssignToConst            Code = "ASSIGN_TO_CONST"
	NotAssignable            Code = "NOT_ASSIGNABLE"
	NotCallable              Code = "NOT_CALLABLE"
	ArityMismatch            Code = "ARITY_MISMATCH"
	NotIndexable             Code = "NOT_INDEXABLE"
	MemberAccessUnsupported  Code = "MEMBER_ACCESS_UNSUPPORTED"
	BreakOutsideLoop         Code = "BREAK_OUTSIDE_LOOP"
	ContinueOutsideLoop      Code = "CONTINUE_OUTSIDE_LOOP"
	ReturnTypeMismatch       Code = "RETURN_TYPE_MISMATCH"
	MissingReturnValue       Code = "MISSING_RETURN_VALUE"
	ArraySizeRequired        Code = "ARRAY_SIZE_REQUIRED"
	IntegerLiteralOverflow   Code = "INTEGER_LITERAL_OVERFLOW"
	NegativeLiteral          Code = "NEGATIVE_LITERAL"
	EmptyArrayLiteral        Code = "EMPTY_ARRAY_LITERAL"
	MixedArrayElementTypes   Code = "MIXED_ARRAY_ELEMENT_TYPES"
	AddressOfNonLvalue       Code = "ADDRESS_OF_NON_LVALUE"
	StackOverflowRisk        Code = "STACK_OVERFLOW_RISK"

	// ILLoweringError marks a node the IL generator could not lower
	// (§4.K's error policy: emit an error, substitute a placeholder CONST,
	// and keep going so the CFG stays well-formed).
	ILLoweringError Code = "IL_LOWERING_ERROR"

	// ImplicitReturnInNonVoidFunction is the warning §4.K requires when a
	// non-void function falls off the end of its body without a return.
	ImplicitReturnInNonVoidFunction Code = "IMPLICIT_RETURN_IN_NON_VOID_FUNCTION"
)

// Position is a single point in source text.
type Position struct {
	Line, Column int
	Offset       int
}

// Range is a half-open source span [Start, End).
type Range struct {
	Start, End Position
}

// Diagnostic is the uniform output of every pass.
type Diagnostic struct {
	Severity        Severity
	Code            Code
	Message         string
	Location        Range
	RelatedLocations []Range
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", "", d.Location.Start.Line, d.Location.Start.Column, d.Severity, d.Message)
}

// Errorf builds an Error-severity diagnostic with a formatted message.
func Errorf(loc Range, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Warnf builds a Warning-severity diagnostic with a formatted message.
func Warnf(loc Range, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Infof builds an Info-severity diagnostic with a formatted message.
func Infof(loc Range, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Info, Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}
