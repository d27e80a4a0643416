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

// Package ssabody adapts an SSA function body to the intermediate
// representation consumed by the dependency graph builder. It is the
// single point of contact with the host compiler's body format; the
// graph and propagation layers only ever see ir values.
//
// Every SSA register, parameter and free variable becomes a local. An
// operand moves when its value has at most one referrer, and is merely
// used when other referrers keep the value live elsewhere. Calls end
// the current block, MIR-style, so each call site is a terminator.
package ssabody

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/utils"
)

// FromSSA translates one SSA function into an ir body. The returned
// position index maps every span the body carries back to its token
// position, for reporting diagnostics. Functions without a body
// (external declarations) yield an error.
func FromSSA(fn *ssa.Function) (*ir.Body, map[ir.Span]token.Pos, error) {
	if fn.Blocks == nil {
		return nil, nil, fmt.Errorf("function %s has no body", fn)
	}
	c := &converter{
		fset:   fn.Prog.Fset,
		locals: make(map[ssa.Value]ir.LocalID),
		pos:    make(map[ir.Span]token.Pos),
	}
	body := &ir.Body{
		Func: utils.DecomposeFunction(fn),
		Span: c.span(fn.Pos()),
	}

	for _, p := range fn.Params {
		body.Params = append(body.Params, c.localFor(p))
	}
	for _, fv := range fn.FreeVars {
		// Captured variables enter the body from outside, like
		// parameters.
		body.Params = append(body.Params, c.localFor(fv))
	}

	for _, b := range fn.Blocks {
		body.Blocks = append(body.Blocks, c.blocks(b)...)
	}
	body.Locals = c.decls
	return body, c.pos, nil
}

type converter struct {
	fset   *token.FileSet
	locals map[ssa.Value]ir.LocalID
	decls  []ir.Local
	pos    map[ir.Span]token.Pos
}

func (c *converter) span(pos token.Pos) ir.Span {
	if !pos.IsValid() {
		return ir.Span{}
	}
	p := c.fset.Position(pos)
	s := ir.Span{File: p.Filename, Line: p.Line, Column: p.Column}
	if _, ok := c.pos[s]; !ok {
		c.pos[s] = pos
	}
	return s
}

// localFor interns an SSA value as a storage location.
func (c *converter) localFor(v ssa.Value) ir.LocalID {
	if id, ok := c.locals[v]; ok {
		return id
	}
	id := ir.LocalID(len(c.decls))
	c.locals[v] = id
	c.decls = append(c.decls, ir.Local{ID: id, Type: utils.DecomposeType(v.Type())})
	return id
}

// operand classifies one SSA operand. Constants, globals, builtins and
// function references carry no local data dependency and report ok
// false. A value moves when this is its only use.
func (c *converter) operand(v ssa.Value) (ir.Operand, bool) {
	switch v.(type) {
	case nil, *ssa.Const, *ssa.Global, *ssa.Builtin, *ssa.Function:
		return ir.Operand{}, false
	}
	kind := ir.Move
	if refs := v.Referrers(); refs != nil && len(*refs) > 1 {
		kind = ir.Used
	}
	return ir.Operand{Local: c.localFor(v), Kind: kind}, true
}

func (c *converter) operands(vs []ssa.Value) []ir.Operand {
	var ops []ir.Operand
	for _, v := range vs {
		if op, ok := c.operand(v); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// blocks translates one SSA basic block, splitting it at every call so
// that calls are terminators.
func (c *converter) blocks(b *ssa.BasicBlock) []ir.Block {
	var out []ir.Block
	var cur ir.Block
	flush := func(t ir.Terminator) {
		cur.Terminator = t
		out = append(out, cur)
		cur = ir.Block{}
	}

	for _, instr := range b.Instrs {
		span := c.span(instr.Pos())
		switch v := instr.(type) {
		case *ssa.Call:
			flush(c.call(v.Common(), v, span))
		case *ssa.Defer:
			flush(c.call(v.Common(), nil, span))
		case *ssa.Go:
			flush(c.call(v.Common(), nil, span))

		case *ssa.If:
			t := ir.CondBranch{Span: span}
			if op, ok := c.operand(v.Cond); ok {
				t.Scrutinee = op
				flush(t)
			} else {
				flush(ir.Goto{Span: span})
			}
		case *ssa.Jump:
			flush(ir.Goto{Span: span})
		case *ssa.Return:
			flush(ir.Return{Values: c.operands(v.Results), Span: span})
		case *ssa.Panic:
			// A panic value escapes to the caller.
			var vals []ir.Operand
			if op, ok := c.operand(v.X); ok {
				vals = append(vals, op)
			}
			flush(ir.Return{Values: vals, Span: span})
		default:
			if stmt := c.statement(instr, span); stmt != nil {
				cur.Statements = append(cur.Statements, stmt)
			}
		}
	}
	if cur.Terminator == nil {
		if len(cur.Statements) == 0 {
			return out
		}
		flush(ir.Goto{})
	}
	return out
}

// call translates a call, defer or go instruction. The result local is
// only attached for ordinary calls with at least one result.
func (c *converter) call(common *ssa.CallCommon, result ssa.Value, span ir.Span) ir.Terminator {
	t := ir.Call{Span: span}

	switch {
	case common.IsInvoke():
		t.Callee = ir.FuncRef{
			Recv: utils.DecomposeType(common.Value.Type()).Name,
			Name: common.Method.Name(),
		}
		if pkg := common.Method.Pkg(); pkg != nil {
			t.Callee.Path = pkg.Path()
		}
		// The receiver flows into the call alongside the arguments.
		if op, ok := c.operand(common.Value); ok {
			t.Args = append(t.Args, op)
		}
	case common.StaticCallee() != nil:
		t.Callee = utils.DecomposeFunction(common.StaticCallee())
	default:
		if b, ok := common.Value.(*ssa.Builtin); ok {
			t.Callee = ir.FuncRef{Name: b.Name()}
		} else {
			t.Callee = ir.FuncRef{Name: "(dynamic call)"}
			if op, ok := c.operand(common.Value); ok {
				t.Args = append(t.Args, op)
			}
		}
	}
	t.Args = append(t.Args, c.operands(common.Args)...)

	if result != nil && common.Signature() != nil && common.Signature().Results().Len() > 0 {
		t.Dst = c.localFor(result)
		t.HasDst = true
	}
	return t
}

// statement translates a non-terminator instruction. Instructions that
// carry no data flow return nil.
func (c *converter) statement(instr ssa.Instruction, span ir.Span) ir.Statement {
	switch v := instr.(type) {
	case *ssa.UnOp:
		return c.assign(v, span, func() ir.Rvalue {
			if op, ok := c.operand(v.X); ok {
				return ir.UnaryOp{X: op}
			}
			return ir.NullaryOp{}
		})
	case *ssa.BinOp:
		return c.assign(v, span, func() ir.Rvalue {
			x, okx := c.operand(v.X)
			y, oky := c.operand(v.Y)
			switch {
			case okx && oky:
				return ir.BinaryOp{X: x, Y: y}
			case okx:
				return ir.UnaryOp{X: x}
			case oky:
				return ir.UnaryOp{X: y}
			}
			return ir.NullaryOp{}
		})
	case *ssa.Convert:
		return c.cast(v, v.X, span)
	case *ssa.ChangeType:
		return c.cast(v, v.X, span)
	case *ssa.ChangeInterface:
		return c.cast(v, v.X, span)
	case *ssa.MakeInterface:
		return c.cast(v, v.X, span)
	case *ssa.TypeAssert:
		return c.cast(v, v.X, span)
	case *ssa.SliceToArrayPointer:
		return c.cast(v, v.X, span)
	case *ssa.MultiConvert:
		return c.cast(v, v.X, span)

	case *ssa.FieldAddr:
		return c.place(v, v.X, span)
	case *ssa.IndexAddr:
		return c.place(v, v.X, span)

	case *ssa.Field:
		return c.use(v, v.X, span)
	case *ssa.Index:
		return c.use(v, v.X, span)
	case *ssa.Lookup:
		return c.use(v, v.X, span)
	case *ssa.Slice:
		return c.use(v, v.X, span)
	case *ssa.Extract:
		return c.use(v, v.Tuple, span)
	case *ssa.Range:
		return c.use(v, v.X, span)
	case *ssa.Next:
		return c.use(v, v.Iter, span)

	case *ssa.Phi:
		return c.assign(v, span, func() ir.Rvalue {
			return ir.Aggregate{Elems: c.operands(v.Edges)}
		})
	case *ssa.MakeClosure:
		return c.assign(v, span, func() ir.Rvalue {
			return ir.Aggregate{Elems: c.operands(v.Bindings)}
		})
	case *ssa.Select:
		return c.assign(v, span, func() ir.Rvalue {
			var sent []ssa.Value
			for _, st := range v.States {
				if st.Send != nil {
					sent = append(sent, st.Send)
				}
			}
			return ir.Aggregate{Elems: c.operands(sent)}
		})

	case *ssa.Alloc, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeSlice:
		return c.assign(v.(ssa.Value), span, func() ir.Rvalue { return ir.NullaryOp{} })

	case *ssa.Store:
		if _, isGlobal := v.Addr.(*ssa.Global); isGlobal {
			// Flow into globals is not tracked.
			return ir.Nop{Span: span}
		}
		if op, ok := c.operand(v.Val); ok {
			return ir.Assign{Dst: c.localFor(v.Addr), Value: ir.Use{X: op}, Span: span}
		}
		return ir.Nop{Span: span}
	case *ssa.MapUpdate:
		elems := c.operands([]ssa.Value{v.Key, v.Value})
		if len(elems) == 0 {
			return ir.Nop{Span: span}
		}
		return ir.Assign{Dst: c.localFor(v.Map), Value: ir.Aggregate{Elems: elems}, Span: span}
	case *ssa.Send:
		if op, ok := c.operand(v.X); ok {
			return ir.Assign{Dst: c.localFor(v.Chan), Value: ir.Use{X: op}, Span: span}
		}
		return ir.Nop{Span: span}

	case *ssa.DebugRef, *ssa.RunDefers:
		return ir.Nop{Span: span}
	}
	return ir.Nop{Span: span}
}

func (c *converter) assign(v ssa.Value, span ir.Span, rvalue func() ir.Rvalue) ir.Statement {
	return ir.Assign{Dst: c.localFor(v), Value: rvalue(), Span: span}
}

func (c *converter) cast(dst ssa.Value, x ssa.Value, span ir.Span) ir.Statement {
	if op, ok := c.operand(x); ok {
		return ir.Assign{Dst: c.localFor(dst), Value: ir.Cast{X: op}, Span: span}
	}
	return ir.Assign{Dst: c.localFor(dst), Value: ir.NullaryOp{}, Span: span}
}

// place translates an address projection: the base stays live, so the
// flow is a reference, never a move.
func (c *converter) place(dst ssa.Value, x ssa.Value, span ir.Span) ir.Statement {
	if _, ok := c.operand(x); ok {
		return ir.Assign{Dst: c.localFor(dst), Value: ir.Ref{X: c.localFor(x)}, Span: span}
	}
	return ir.Assign{Dst: c.localFor(dst), Value: ir.NullaryOp{}, Span: span}
}

func (c *converter) use(dst ssa.Value, x ssa.Value, span ir.Span) ir.Statement {
	if op, ok := c.operand(x); ok {
		return ir.Assign{Dst: c.localFor(dst), Value: ir.Use{X: op}, Span: span}
	}
	return ir.Assign{Dst: c.localFor(dst), Value: ir.NullaryOp{}, Span: span}
}
