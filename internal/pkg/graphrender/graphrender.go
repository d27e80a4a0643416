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

// Package graphrender produces DOT source code for a dependency graph,
// colored by taint marking. The output is meant for graphviz and for
// eyeballing why a particular flow was (or was not) reported.
package graphrender

import (
	"fmt"
	"strings"

	"github.com/untrusted-value/taintcheck/internal/pkg/dataflow"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/propagation"
)

// DOT renders the graph. A nil marking renders an uncolored graph.
func DOT(name string, g *dataflow.Graph, m *propagation.Marking) string {
	return (&renderer{g: g, m: m, name: name}).render()
}

type renderer struct {
	strings.Builder
	g    *dataflow.Graph
	m    *propagation.Marking
	name string
}

func (r *renderer) render() string {
	fmt.Fprintf(r, "digraph %q {\n", r.name)
	r.writeNodes()
	r.writeEdges()
	r.WriteString("}\n")
	return r.String()
}

func (r *renderer) writeNodes() {
	for id, n := range r.g.Nodes() {
		attrs := fmt.Sprintf("label=%q, shape=%s", n.Label(), shape(n))
		if fill := r.fill(dataflow.NodeID(id)); fill != "" {
			attrs += fmt.Sprintf(", style=filled, fillcolor=%s", fill)
		}
		fmt.Fprintf(r, "\tn%d [%s];\n", id, attrs)
	}
}

func (r *renderer) writeEdges() {
	for _, e := range r.g.Edges() {
		for _, in := range e.Instances {
			attrs := fmt.Sprintf("label=%q", in.Span)
			if in.Kind == ir.Used {
				attrs += ", style=dashed"
			}
			fmt.Fprintf(r, "\tn%d -> n%d [%s];\n", e.From, e.To, attrs)
		}
	}
}

func (r *renderer) fill(id dataflow.NodeID) string {
	if r.m == nil {
		return ""
	}
	switch r.m.Of(id) {
	case propagation.MarkSource:
		return "red"
	case propagation.MarkSink:
		return "green"
	case propagation.MarkTainted:
		return "orange"
	}
	return ""
}

func shape(n dataflow.Node) string {
	switch n.Kind {
	case dataflow.KindLocal:
		return "ellipse"
	case dataflow.KindFunctionCall:
		return "box"
	default:
		return "diamond"
	}
}
