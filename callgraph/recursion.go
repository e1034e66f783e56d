// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package callgraph

import (
	"sort"

	"github.com/blendsdk/blend65/diag"
)

// tarjan finds the strongly connected components of g's real (non-
// sentinel) nodes using Tarjan's algorithm, returning them in the order
// they are closed (reverse topological order), each component's
// members in the order they are popped off the stack; determinism (§5)
// comes from visiting nodes in name order.
func tarjan(nodes []*Node) [][]*Node {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })

	index := 0
	indices := make(map[*Node]int)
	lowlink := make(map[*Node]int)
	onStack := make(map[*Node]bool)
	var stack []*Node
	var sccs [][]*Node

	var strongconnect func(v *Node)
	strongconnect = func(v *Node) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		callees := make([]*Node, 0, len(v.out))
		for _, e := range v.out {
			if !e.Callee.Indirect {
				callees = append(callees, e.Callee)
			}
		}
		sort.Slice(callees, func(i, j int) bool { return callees[i].Name < callees[j].Name })

		for _, w := range callees {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []*Node
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range nodes {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}

// hasSelfEdge reports whether n calls itself directly.
func hasSelfEdge(n *Node) bool {
	for _, e := range n.out {
		if e.Callee == n {
			return true
		}
	}
	return false
}

// CheckRecursion detects every non-trivial SCC (size > 1) and every
// self-loop, reporting RECURSION_DETECTED for a direct self-call and
// INDIRECT_RECURSION_DETECTED for a cycle spanning more than one
// function (§4.G: recursion is always an error for this target).
func CheckRecursion(g *Graph, diags *diag.Collector) {
	for _, scc := range tarjan(g.Nodes()) {
		if len(scc) > 1 {
			sort.Slice(scc, func(i, j int) bool { return scc[i].Name < scc[j].Name })
			for _, n := range scc {
				diags.Add(diag.Errorf(diag.Range{}, diag.IndirectRecursionDetected,
					"function %q participates in a recursive call cycle", n.Name))
			}
			continue
		}
		n := scc[0]
		if hasSelfEdge(n) {
			diags.Add(diag.Errorf(diag.Range{}, diag.RecursionDetected,
				"function %q calls itself recursively", n.Name))
		}
	}
}
