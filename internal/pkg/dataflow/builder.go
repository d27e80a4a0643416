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

package dataflow

import (
	"fmt"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// Build walks one function body and produces its data-dependency graph.
// Every statement and terminator contributes edges; the traversal is a
// total function over well-formed bodies. An error is returned only for
// structurally invalid input: a body without blocks, or a block without
// a terminator.
func Build(body *ir.Body) (*Graph, error) {
	if len(body.Blocks) == 0 {
		return nil, fmt.Errorf("function %s: body has no basic blocks", body.Func)
	}
	b := &builder{g: NewGraph(), body: body}

	for _, param := range body.Params {
		local, ok := body.Local(param)
		if !ok {
			return nil, fmt.Errorf("function %s: parameter refers to undeclared local _%d", body.Func, int(param))
		}
		b.g.AddEdge(InputNode(), LocalNode(local), body.Span, ir.Move)
	}

	for bi, block := range body.Blocks {
		for _, stmt := range block.Statements {
			b.statement(stmt)
		}
		if block.Terminator == nil {
			return nil, fmt.Errorf("function %s: block %d has no terminator", body.Func, bi)
		}
		b.terminator(block.Terminator)
	}
	return b.g, nil
}

type builder struct {
	g    *Graph
	body *ir.Body

	callOrd int
	asmOrd  int
}

// localNode resolves a local id against the body's declarations. An
// undeclared id still yields a usable node so the builder stays total.
func (b *builder) localNode(id ir.LocalID) Node {
	if local, ok := b.body.Local(id); ok {
		return LocalNode(local)
	}
	return LocalNode(ir.Local{ID: id})
}

func (b *builder) statement(stmt ir.Statement) {
	switch s := stmt.(type) {
	case ir.Assign:
		dst := b.localNode(s.Dst)
		for _, dep := range rvalueDeps(s.Value) {
			b.g.AddEdge(b.localNode(dep.Local), dst, s.Span, dep.Kind)
		}
	case ir.Nop:
		// Storage markers and ascriptions carry no data flow.
	}
}

// rvalueDeps extracts every local referenced by the rvalue, tagged by
// how the reference flows. Place-based shapes (references, lengths,
// discriminants, dereference copies) read the place without consuming
// it, so they always count as used.
func rvalueDeps(rv ir.Rvalue) []ir.Operand {
	switch v := rv.(type) {
	case ir.Use:
		return []ir.Operand{v.X}
	case ir.Repeat:
		return []ir.Operand{v.X}
	case ir.Ref:
		return []ir.Operand{ir.UsedOf(v.X)}
	case ir.Len:
		return []ir.Operand{ir.UsedOf(v.X)}
	case ir.Cast:
		return []ir.Operand{v.X}
	case ir.UnaryOp:
		return []ir.Operand{v.X}
	case ir.BinaryOp:
		return []ir.Operand{v.X, v.Y}
	case ir.NullaryOp:
		return nil
	case ir.Discriminant:
		return []ir.Operand{ir.UsedOf(v.X)}
	case ir.Aggregate:
		return v.Elems
	case ir.CopyForDeref:
		return []ir.Operand{ir.UsedOf(v.X)}
	}
	return nil
}

func (b *builder) terminator(term ir.Terminator) {
	switch t := term.(type) {
	case ir.Goto, ir.Unreachable, ir.Drop, ir.Assert, ir.Teardown:
		// No data flow.

	case ir.CondBranch:
		b.g.AddEdge(b.localNode(t.Scrutinee.Local), ControlFlowNode(), t.Span, t.Scrutinee.Kind)

	case ir.Return:
		for _, v := range t.Values {
			b.g.AddEdge(b.localNode(v.Local), ReturnNode(), t.Span, v.Kind)
		}

	case ir.Call:
		call := b.callNode(t.Callee, t.Span)
		for _, arg := range t.Args {
			b.g.AddEdge(b.localNode(arg.Local), call, t.Span, arg.Kind)
		}
		if t.HasDst {
			b.g.AddEdge(call, b.localNode(t.Dst), t.Span, ir.Move)
		}

	case ir.TailCall:
		call := b.callNode(t.Callee, t.Span)
		for _, arg := range t.Args {
			b.g.AddEdge(b.localNode(arg.Local), call, t.Span, arg.Kind)
		}
		b.g.AddEdge(call, ReturnNode(), t.Span, ir.Move)

	case ir.Yield:
		b.g.AddEdge(b.localNode(t.Value.Local), ReturnNode(), t.Span, t.Value.Kind)
		b.g.AddEdge(InputNode(), b.localNode(t.ResumeArg), t.Span, ir.Move)

	case ir.InlineBlock:
		asm := AssemblyNode(b.asmOrd, t.Spans)
		b.asmOrd++
		for _, in := range t.Inputs {
			b.g.AddEdge(b.localNode(in.Local), asm, t.Span, in.Kind)
		}
		for _, out := range t.Outputs {
			b.g.AddEdge(asm, b.localNode(out), t.Span, ir.Move)
		}
	}
}

// callNode mints the node for one call site. Identity is per call
// expression, not per callee.
func (b *builder) callNode(callee ir.FuncRef, site ir.Span) Node {
	n := CallNode(callee, site, b.callOrd)
	b.callOrd++
	return n
}
