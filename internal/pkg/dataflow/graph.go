// Copyright 2026 The taintcheck Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dataflow builds directed data-dependency multigraphs over
// function bodies. Nodes are storage locations and sinks (calls, the
// return edge, control flow, inline blocks); edges record every
// statement that made data flow between two nodes, tagged move or used.
package dataflow

import (
	"fmt"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// NodeID indexes a node within one graph.
type NodeID int

// NodeKind discriminates the graph node union.
type NodeKind int

const (
	// KindLocal is a storage location.
	KindLocal NodeKind = iota
	// KindFunctionCall is the result of invoking a function at one
	// particular call site.
	KindFunctionCall
	// KindReturnedToCaller is the function's return edge.
	KindReturnedToCaller
	// KindFunctionInput is the synthetic origin of parameters.
	KindFunctionInput
	// KindControlFlow absorbs values consumed as branch conditions.
	KindControlFlow
	// KindAssembly is an opaque inline low-level block.
	KindAssembly
)

func (k NodeKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindFunctionCall:
		return "call"
	case KindReturnedToCaller:
		return "return"
	case KindFunctionInput:
		return "input"
	case KindControlFlow:
		return "control-flow"
	case KindAssembly:
		return "assembly"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is one vertex of the dependency graph. Identity is structural:
// interning the same node value twice yields the same NodeID.
type Node struct {
	Kind NodeKind

	// KindLocal.
	Local ir.LocalID
	Type  ir.TypeRef

	// KindFunctionCall. Ord distinguishes call sites: two calls to the
	// same function are distinct nodes.
	Callee ir.FuncRef
	Site   ir.Span
	Ord    int

	// KindAssembly. Every source span covered by the block.
	Spans []ir.Span
}

// nodeKey is the comparable identity of a Node. Assembly spans stay out
// of the key; assembly nodes are distinguished by Ord alone.
type nodeKey struct {
	kind   NodeKind
	local  ir.LocalID
	typ    ir.TypeRef
	callee ir.FuncRef
	site   ir.Span
	ord    int
}

func (n Node) key() nodeKey {
	return nodeKey{kind: n.Kind, local: n.Local, typ: n.Type, callee: n.Callee, site: n.Site, ord: n.Ord}
}

// Label renders a short human-readable description of the node.
func (n Node) Label() string {
	switch n.Kind {
	case KindLocal:
		return fmt.Sprintf("_%d: %s", int(n.Local), n.Type)
	case KindFunctionCall:
		return "call " + n.Callee.FQN()
	case KindReturnedToCaller:
		return "return"
	case KindFunctionInput:
		return "input"
	case KindControlFlow:
		return "control flow"
	case KindAssembly:
		return "assembly"
	}
	return n.Kind.String()
}

// LocalNode builds a node for a storage location.
func LocalNode(l ir.Local) Node {
	return Node{Kind: KindLocal, Local: l.ID, Type: l.Type}
}

// CallNode builds a node for one call site. ord must be unique per call
// expression within the body.
func CallNode(callee ir.FuncRef, site ir.Span, ord int) Node {
	return Node{Kind: KindFunctionCall, Callee: callee, Site: site, Ord: ord}
}

// ReturnNode is the sink representing the function's return edge.
func ReturnNode() Node { return Node{Kind: KindReturnedToCaller} }

// InputNode is the synthetic source feeding function parameters.
func InputNode() Node { return Node{Kind: KindFunctionInput} }

// ControlFlowNode is the sink absorbing branch scrutinees.
func ControlFlowNode() Node { return Node{Kind: KindControlFlow} }

// AssemblyNode builds a node for one inline block. ord must be unique
// per block within the body.
func AssemblyNode(ord int, spans []ir.Span) Node {
	return Node{Kind: KindAssembly, Ord: ord, Spans: spans}
}

// EdgeInstance is one statement's worth of flow along an edge.
type EdgeInstance struct {
	Span ir.Span
	Kind ir.FlowKind
}

// Edge is the ordered collection of flow instances between two nodes.
// Instances accumulate in statement order; the collection is never
// empty.
type Edge struct {
	From, To  NodeID
	Instances []EdgeInstance
}

// MoveOnly reports whether every instance on the edge moves the value.
// A non-move instance means a live copy of the value stays behind at
// the origin.
func (e *Edge) MoveOnly() bool {
	for _, in := range e.Instances {
		if in.Kind != ir.Move {
			return false
		}
	}
	return true
}

// Graph is a directed data-dependency multigraph. Node and edge
// insertion order is preserved so traversals are deterministic.
type Graph struct {
	nodes []Node
	index map[nodeKey]NodeID
	out   map[NodeID][]*Edge
	edges []*Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[nodeKey]NodeID),
		out:   make(map[NodeID][]*Edge),
	}
}

// Intern returns the id of the given node, inserting it on first use.
func (g *Graph) Intern(n Node) NodeID {
	if id, ok := g.index[n.key()]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.index[n.key()] = id
	return id
}

// AddEdge records one flow instance from one node to another, merging
// into the existing edge if the pair is already connected.
func (g *Graph) AddEdge(from, to Node, span ir.Span, kind ir.FlowKind) {
	fromID := g.Intern(from)
	toID := g.Intern(to)
	for _, e := range g.out[fromID] {
		if e.To == toID {
			e.Instances = append(e.Instances, EdgeInstance{Span: span, Kind: kind})
			return
		}
	}
	e := &Edge{From: fromID, To: toID, Instances: []EdgeInstance{{Span: span, Kind: kind}}}
	g.out[fromID] = append(g.out[fromID], e)
	g.edges = append(g.edges, e)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Node { return g.nodes }

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Out returns the outgoing edges of a node in insertion order.
func (g *Graph) Out(id NodeID) []*Edge { return g.out[id] }

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges }

// Lookup returns the id of a node if it has been interned.
func (g *Graph) Lookup(n Node) (NodeID, bool) {
	id, ok := g.index[n.key()]
	return id, ok
}
