// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types_test

import (
	"testing"

	"github.com/blendsdk/blend65/types"
)

func TestAssignable(t *testing.T) {
	tests := []struct {
		from, to types.Type
		want     bool
	}{
		{types.Byte, types.Byte, true},
		{types.Byte, types.Word, true},
		{types.Word, types.Byte, false},
		{types.Boolean, types.Byte, false},
		{types.Unknown, types.Byte, true},
		{types.Byte, types.Unknown, true},
	}
	for _, tt := range tests {
		if got := types.Assignable(tt.from, tt.to); got != tt.want {
			t.Errorf("Assignable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPromoteNumeric(t *testing.T) {
	if got := types.PromoteNumeric(types.Byte, types.Byte); got.Kind() != types.KindByte {
		t.Errorf("byte+byte promoted to %s, want byte", got)
	}
	if got := types.PromoteNumeric(types.Byte, types.Word); got.Kind() != types.KindWord {
		t.Errorf("byte+word promoted to %s, want word", got)
	}
	if got := types.PromoteNumeric(types.Word, types.Word); got.Kind() != types.KindWord {
		t.Errorf("word+word promoted to %s, want word", got)
	}
}

func TestArrayIdentical(t *testing.T) {
	a := types.CreateArrayType(types.Byte, 3)
	b := types.CreateArrayType(types.Byte, 3)
	c := types.CreateArrayType(types.Byte, 4)
	if !types.Identical(a, b) {
		t.Errorf("array<byte,3> != array<byte,3>")
	}
	if types.Identical(a, c) {
		t.Errorf("array<byte,3> == array<byte,4>")
	}
}

func TestCallbackIdentical(t *testing.T) {
	sig1 := &types.FunctionSignature{ParameterTypes: []types.Type{types.Byte, types.Byte}, ReturnType: types.Byte}
	sig2 := &types.FunctionSignature{ParameterTypes: []types.Type{types.Byte, types.Byte}, ReturnType: types.Byte}
	sig3 := &types.FunctionSignature{ParameterTypes: []types.Type{types.Word}, ReturnType: types.Byte}
	cb1 := types.CreateCallbackType(sig1)
	cb2 := types.CreateCallbackType(sig2)
	cb3 := types.CreateCallbackType(sig3)
	if !types.Identical(cb1, cb2) {
		t.Errorf("identical signatures compared unequal")
	}
	if types.Identical(cb1, cb3) {
		t.Errorf("different signatures compared equal")
	}
}

func TestGetBuiltin(t *testing.T) {
	if _, ok := types.GetBuiltin("word"); !ok {
		t.Errorf("word should be a builtin")
	}
	if _, ok := types.GetBuiltin("nonsense"); ok {
		t.Errorf("nonsense should not be a builtin")
	}
}
