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

// Package propagation implements the taint propagation analysis over a
// data-dependency graph: a classification scan marks sources and sinks,
// a breadth-first saturation marks everything reachable from a source
// as tainted, and a per-source walk reconstructs the path actually
// taken to classify how the taint escapes.
package propagation

import (
	"github.com/untrusted-value/taintcheck/internal/pkg/catalog"
	"github.com/untrusted-value/taintcheck/internal/pkg/dataflow"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/problem"
)

// Classifier decides which types and calls absorb tainted data. It is
// injected so the engine never hard-codes a wrapper type name.
type Classifier interface {
	// IsSinkType reports whether a local of this type is a sink.
	IsSinkType(ir.TypeRef) bool
	// IsSinkConstructor reports whether calling this function wraps
	// its input.
	IsSinkConstructor(ir.FuncRef) bool
	// IsSinkConversion reports whether this call is a generic
	// conversion into a sink type.
	IsSinkConversion(ir.FuncRef) bool
}

// Mark is the taint state of a graph node. Nodes absent from a Marking
// are implicitly unmarked.
type Mark int

const (
	// Unmarked: the node carries no taint state.
	Unmarked Mark = iota
	// MarkSource: the node introduces untrusted data.
	MarkSource
	// MarkTainted: the node is reachable from a source.
	MarkTainted
	// MarkSink: the node safely absorbs tainted data.
	MarkSink
)

func (m Mark) String() string {
	switch m {
	case Unmarked:
		return "unmarked"
	case MarkSource:
		return "source"
	case MarkTainted:
		return "tainted"
	case MarkSink:
		return "sink"
	}
	return "invalid"
}

// Marking holds the per-node taint state of one graph. Marks are
// monotonic: once set they are never overwritten, so sink marks
// assigned by the classification scan survive saturation.
type Marking struct {
	marks   map[dataflow.NodeID]Mark
	sources []dataflow.NodeID
	info    map[dataflow.NodeID]problem.SourceRef
}

// NewMarking returns an empty marking.
func NewMarking() *Marking {
	return &Marking{
		marks: make(map[dataflow.NodeID]Mark),
		info:  make(map[dataflow.NodeID]problem.SourceRef),
	}
}

// Insert sets the node's mark unless one is already present. It
// reports whether the mark was inserted.
func (m *Marking) Insert(id dataflow.NodeID, mark Mark) bool {
	if _, ok := m.marks[id]; ok {
		return false
	}
	m.marks[id] = mark
	return true
}

// Of returns the node's mark.
func (m *Marking) Of(id dataflow.NodeID) Mark {
	return m.marks[id]
}

// Sources returns the source nodes in graph declaration order.
func (m *Marking) Sources() []dataflow.NodeID {
	return m.sources
}

// SourceInfo returns the catalog descriptor recorded for a source node.
func (m *Marking) SourceInfo(id dataflow.NodeID) (problem.SourceRef, bool) {
	ref, ok := m.info[id]
	return ref, ok
}

// Classify performs the initial scan over every node: locals of the
// wrapper type and wrapper-constructing calls become sinks, calls found
// in the catalog become sources. Nodes are visited in insertion order
// and the first matching catalog entry wins, so the result is
// deterministic for a fixed graph and catalog.
func Classify(g *dataflow.Graph, cls Classifier, cat *catalog.Catalog) *Marking {
	m := NewMarking()
	for id, n := range g.Nodes() {
		nid := dataflow.NodeID(id)
		switch n.Kind {
		case dataflow.KindLocal:
			if cls.IsSinkType(n.Type) {
				m.Insert(nid, MarkSink)
			}
		case dataflow.KindFunctionCall:
			if cls.IsSinkConstructor(n.Callee) || cls.IsSinkConversion(n.Callee) {
				m.Insert(nid, MarkSink)
				continue
			}
			mod, src, ok := cat.Lookup(n.Callee.FQN())
			if ok && m.Insert(nid, MarkSource) {
				m.sources = append(m.sources, nid)
				m.info[nid] = problem.SourceRef{
					Module:            mod.Name,
					ModuleDescription: mod.Description,
					Description:       src.Description,
				}
			}
		}
	}
	return m
}

// Saturate propagates taint breadth-first from every source along
// outgoing edges. Already-marked nodes are never overwritten or
// re-enqueued, so the final marking set is a fixpoint independent of
// traversal order.
func (m *Marking) Saturate(g *dataflow.Graph) {
	queue := make([]dataflow.NodeID, len(m.sources))
	copy(queue, m.sources)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Out(cur) {
			if m.Insert(e.To, MarkTainted) {
				queue = append(queue, e.To)
			}
		}
	}
}

// Analyze runs all three phases and returns the diagnosed problems in
// source declaration order.
func Analyze(g *dataflow.Graph, cls Classifier, cat *catalog.Catalog) []problem.Problem {
	m := Classify(g, cls, cat)
	m.Saturate(g)
	return Check(g, m)
}
