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

package propagation

import (
	"log"

	"github.com/untrusted-value/taintcheck/internal/pkg/dataflow"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/problem"
)

// Check re-walks the graph from each source along the single path the
// taint value takes and classifies how it escapes tracking. At most one
// problem is reported per source; a source whose value is dropped or
// cleanly absorbed by a sink yields none.
func Check(g *dataflow.Graph, m *Marking) []problem.Problem {
	var problems []problem.Problem
	for _, src := range m.Sources() {
		if p := walkSource(g, m, src); p != nil {
			problems = append(problems, *p)
		}
	}
	return problems
}

func walkSource(g *dataflow.Graph, m *Marking, src dataflow.NodeID) *problem.Problem {
	node := g.Node(src)
	ref, _ := m.SourceInfo(src)
	report := func(d problem.Detail) *problem.Problem {
		return &problem.Problem{
			Source:     ref,
			SourceSig:  node.Callee.FQN(),
			SourceSpan: node.Site,
			Detail:     d,
		}
	}

	// First hop. Fan-out at the source means the value was copied to
	// several destinations before any of them could be tracked; a
	// non-move edge means a live copy stays behind. Either way the
	// analysis cannot follow a single owner, so it reports and stops.
	edges := g.Out(src)
	switch {
	case len(edges) == 0:
		// The value was dropped unused.
		return nil
	case len(edges) > 1:
		return report(problem.Duplicated{Targets: firstSpans(edges)})
	}
	first := edges[0]
	if !first.MoveOnly() {
		return report(problem.Used{
			UsedIn: firstUsedSpan(first),
			Usage:  problem.Usage{Kind: problem.UsageCopied},
		})
	}

	var chain []ir.Span
	chain = appendSpans(chain, first)
	visited := map[dataflow.NodeID]bool{src: true}
	cur := first.To
	lastEdge := first

	for {
		if visited[cur] {
			return report(problem.Loop{Chain: chain, Closure: firstSpan(lastEdge)})
		}
		visited[cur] = true

		edges := g.Out(cur)
		switch {
		case len(edges) == 0:
			// Dropped without further use.
			return nil
		case len(edges) > 1:
			return report(problem.Duplicated{Chain: chain, Targets: firstSpans(edges)})
		}
		e := edges[0]
		next := g.Node(e.To)

		switch next.Kind {
		case dataflow.KindLocal:
			if m.Of(e.To) == MarkSink {
				// Taint properly absorbed by the wrapper.
				return nil
			}
			if !e.MoveOnly() {
				return report(problem.Used{
					Chain:  chain,
					UsedIn: firstUsedSpan(e),
					Usage:  problem.Usage{Kind: problem.UsageCopied},
				})
			}
			chain = appendSpans(chain, e)
			lastEdge = e
			cur = e.To

		case dataflow.KindFunctionCall:
			if m.Of(e.To) == MarkSink {
				return nil
			}
			// Passing tainted data verbatim into another call is
			// unsafe; the engine does not recurse into the callee.
			site := next.Site
			return report(problem.Used{
				Chain:  chain,
				UsedIn: firstSpan(e),
				Usage:  problem.Usage{Kind: problem.UsageFunctionCall, Call: &site},
			})

		case dataflow.KindReturnedToCaller:
			return report(problem.Used{
				Chain:  chain,
				UsedIn: firstSpan(e),
				Usage:  problem.Usage{Kind: problem.UsageReturnedToCaller},
			})

		case dataflow.KindAssembly:
			return report(problem.Used{
				Chain:  chain,
				UsedIn: firstSpan(e),
				Usage:  problem.Usage{Kind: problem.UsageAssembly},
			})

		case dataflow.KindControlFlow:
			return report(problem.Used{
				Chain:  chain,
				UsedIn: firstSpan(e),
				Usage:  problem.Usage{Kind: problem.UsageControlFlow},
			})

		case dataflow.KindFunctionInput:
			// No edge may lead into the input node.
			log.Printf("taintcheck: internal invariant violated: walk from %s reached the function input node", node.Callee.FQN())
			return nil
		}
	}
}

// appendSpans records every instance of the traversed edge, not just
// the first, so diagnostics list repeated reassignments individually.
func appendSpans(chain []ir.Span, e *dataflow.Edge) []ir.Span {
	for _, in := range e.Instances {
		chain = append(chain, in.Span)
	}
	return chain
}

func firstSpan(e *dataflow.Edge) ir.Span {
	return e.Instances[0].Span
}

// firstUsedSpan returns the location of the first non-move instance,
// the flow that left a live copy behind.
func firstUsedSpan(e *dataflow.Edge) ir.Span {
	for _, in := range e.Instances {
		if in.Kind != ir.Move {
			return in.Span
		}
	}
	return e.Instances[0].Span
}

func firstSpans(edges []*dataflow.Edge) []ir.Span {
	spans := make([]ir.Span, len(edges))
	for i, e := range edges {
		spans[i] = firstSpan(e)
	}
	return spans
}
