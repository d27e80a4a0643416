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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/untrusted-value/taintcheck/internal/pkg/dataflow"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/problem"
)

func analyze(t *testing.T, g *dataflow.Graph) []problem.Problem {
	t.Helper()
	return Analyze(g, testClassifier{}, testCatalog())
}

func single(t *testing.T, problems []problem.Problem) problem.Problem {
	t.Helper()
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %+v", len(problems), problems)
	}
	p := problems[0]
	if p.SourceSig != "os.Getenv" {
		t.Errorf("source signature = %q, want os.Getenv", p.SourceSig)
	}
	return p
}

// sourceInto returns a graph where the source result moves into _0.
func sourceInto(g *dataflow.Graph) {
	g.AddEdge(dataflow.CallNode(getenv, span(2), 0), strLocal(0), span(2), ir.Move)
}

func TestCheckReturnedToCaller(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.ReturnNode(), span(3), ir.Move)

	p := single(t, analyze(t, g))
	want := problem.Used{
		Chain:  []ir.Span{span(3)},
		UsedIn: span(3),
		Usage:  problem.Usage{Kind: problem.UsageReturnedToCaller},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckWrappedIsSilent(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.CallNode(wrap, span(3), 1), span(3), ir.Move)

	if problems := analyze(t, g); len(problems) != 0 {
		t.Errorf("wrapped value reported: %+v", problems)
	}
}

func TestCheckWrapperTypedLocalIsSilent(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.LocalNode(ir.Local{ID: 1, Type: valueType}), span(3), ir.Move)

	if problems := analyze(t, g); len(problems) != 0 {
		t.Errorf("value absorbed by wrapper-typed local reported: %+v", problems)
	}
}

func TestCheckDroppedIsSilent(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)

	if problems := analyze(t, g); len(problems) != 0 {
		t.Errorf("dropped value reported: %+v", problems)
	}
}

func TestCheckDuplicated(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), strLocal(1), span(3), ir.Move)
	g.AddEdge(strLocal(0), strLocal(2), span(4), ir.Move)

	p := single(t, analyze(t, g))
	want := problem.Duplicated{
		Chain:   []ir.Span{span(2)},
		Targets: []ir.Span{span(3), span(4)},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckDuplicatedAtSource(t *testing.T) {
	// The call result itself fans out before reaching any local.
	g := dataflow.NewGraph()
	source := dataflow.CallNode(getenv, span(2), 0)
	g.AddEdge(source, strLocal(0), span(2), ir.Move)
	g.AddEdge(source, strLocal(1), span(3), ir.Move)

	p := single(t, analyze(t, g))
	want := problem.Duplicated{Targets: []ir.Span{span(2), span(3)}}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckCopied(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), strLocal(1), span(3), ir.Used)

	p := single(t, analyze(t, g))
	want := problem.Used{
		Chain:  []ir.Span{span(2)},
		UsedIn: span(3),
		Usage:  problem.Usage{Kind: problem.UsageCopied},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckFunctionCall(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.CallNode(exec, span(3), 1), span(3), ir.Move)

	p := single(t, analyze(t, g))
	site := span(3)
	want := problem.Used{
		Chain:  []ir.Span{span(2)},
		UsedIn: span(3),
		Usage:  problem.Usage{Kind: problem.UsageFunctionCall, Call: &site},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckControlFlow(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.ControlFlowNode(), span(3), ir.Used)

	p := single(t, analyze(t, g))
	want := problem.Used{
		Chain:  []ir.Span{span(2)},
		UsedIn: span(3),
		Usage:  problem.Usage{Kind: problem.UsageControlFlow},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckAssembly(t *testing.T) {
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), dataflow.AssemblyNode(0, []ir.Span{span(3)}), span(3), ir.Move)

	p := single(t, analyze(t, g))
	want := problem.Used{
		Chain:  []ir.Span{span(2)},
		UsedIn: span(3),
		Usage:  problem.Usage{Kind: problem.UsageAssembly},
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckLoop(t *testing.T) {
	// _0 -> _1 -> _0 closes a cycle back onto a visited node.
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), strLocal(1), span(3), ir.Move)
	g.AddEdge(strLocal(1), strLocal(0), span(4), ir.Move)

	p := single(t, analyze(t, g))
	want := problem.Loop{
		Chain:   []ir.Span{span(2), span(3), span(4)},
		Closure: span(4),
	}
	if diff := cmp.Diff(problem.Detail(want), p.Detail); diff != "" {
		t.Errorf("detail diff (-want +got):\n%s", diff)
	}
}

func TestCheckChainCollectsEveryInstance(t *testing.T) {
	// Two assignments along the same edge are both recorded.
	g := dataflow.NewGraph()
	sourceInto(g)
	g.AddEdge(strLocal(0), strLocal(1), span(3), ir.Move)
	g.AddEdge(strLocal(0), strLocal(1), span(4), ir.Move)
	g.AddEdge(strLocal(1), dataflow.ReturnNode(), span(5), ir.Move)

	p := single(t, analyze(t, g))
	used, ok := p.Detail.(problem.Used)
	if !ok {
		t.Fatalf("detail = %T, want Used", p.Detail)
	}
	wantChain := []ir.Span{span(2), span(3), span(4), span(5)}
	if diff := cmp.Diff(wantChain, used.Chain); diff != "" {
		t.Errorf("chain diff (-want +got):\n%s", diff)
	}
}

func TestCheckMultipleSources(t *testing.T) {
	// Two independent source calls each get their own problem.
	g := dataflow.NewGraph()
	g.AddEdge(dataflow.CallNode(getenv, span(2), 0), strLocal(0), span(2), ir.Move)
	g.AddEdge(dataflow.CallNode(getenv, span(5), 1), strLocal(1), span(5), ir.Move)
	g.AddEdge(strLocal(0), dataflow.ReturnNode(), span(3), ir.Move)
	g.AddEdge(strLocal(1), dataflow.ControlFlowNode(), span(6), ir.Used)

	problems := analyze(t, g)
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2: %+v", len(problems), problems)
	}
	if problems[0].SourceSpan != span(2) || problems[1].SourceSpan != span(5) {
		t.Errorf("problems out of source order: %+v", problems)
	}
}
