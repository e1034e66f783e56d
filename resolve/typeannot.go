// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strconv"
	"strings"

	"github.com/blendsdk/blend65/types"
)

// ParseTypeAnnotation parses the raw annotation strings the parser hands
// through on declarations (§4.D): a simple builtin/named type, `T[]`,
// `T[N]`, or a callback signature `callback(P1, P2): R`. ok is false when
// the annotation names an unknown type (caller reports UNKNOWN_TYPE).
func ParseTypeAnnotation(annotation string) (t types.Type, ok bool) {
	s := strings.TrimSpace(annotation)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "callback") {
		return parseCallback(s)
	}
	if idx := strings.LastIndex(s, "["); idx >= 0 && strings.HasSuffix(s, "]") {
		elemName := strings.TrimSpace(s[:idx])
		elem, ok := ParseTypeAnnotation(elemName)
		if !ok {
			return nil, false
		}
		sizeStr := strings.TrimSpace(s[idx+1 : len(s)-1])
		if sizeStr == "" {
			return types.CreateArrayType(elem, -1), true
		}
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n < 0 {
			return nil, false
		}
		return types.CreateArrayType(elem, n), true
	}
	return types.GetBuiltin(s)
}

// parseCallback parses `callback(p1, p2, ...): R` or `callback(): void`.
func parseCallback(s string) (types.Type, bool) {
	open := strings.Index(s, "(")
	close_ := strings.LastIndex(s, ")")
	if open < 0 || close_ < open {
		return nil, false
	}
	paramsStr := strings.TrimSpace(s[open+1 : close_])
	rest := strings.TrimSpace(s[close_+1:])
	var params []types.Type
	if paramsStr != "" {
		for _, p := range strings.Split(paramsStr, ",") {
			pt, ok := ParseTypeAnnotation(strings.TrimSpace(p))
			if !ok {
				return nil, false
			}
			params = append(params, pt)
		}
	}
	retType := types.Type(types.Void)
	if strings.HasPrefix(rest, ":") {
		retName := strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		rt, ok := ParseTypeAnnotation(retName)
		if !ok {
			return nil, false
		}
		retType = rt
	}
	sig := &types.FunctionSignature{ParameterTypes: params, ReturnType: retType}
	return types.CreateCallbackType(sig), true
}
