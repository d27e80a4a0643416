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

// Package irprinter produces a string representation of a translated
// function body, for debugging the translation and the graphs built
// from it.
package irprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// Sprint renders the whole body.
func Sprint(body *ir.Body) string {
	p := New(body)
	for i, blk := range body.Blocks {
		p.WriteBlock(i, blk)
	}
	return p.String()
}

type Printer struct {
	b bytes.Buffer
}

// New returns a printer primed with the body's signature line.
func New(body *ir.Body) *Printer {
	p := &Printer{}
	fmt.Fprintf(&p.b, "func %s", body.Func.FQN())
	if len(body.Params) > 0 {
		names := make([]string, len(body.Params))
		for i, id := range body.Params {
			names[i] = localName(id)
		}
		fmt.Fprintf(&p.b, " (%s)", strings.Join(names, ", "))
	}
	p.b.WriteString(":\n")
	return p
}

func (p *Printer) WriteBlock(blockIndex int, blk ir.Block) {
	fmt.Fprintf(&p.b, "\tb%d:\n", blockIndex)
	for _, stmt := range blk.Statements {
		switch s := stmt.(type) {
		case ir.Assign:
			fmt.Fprintf(&p.b, "\t\t%s = %s\n", localName(s.Dst), rvalue(s.Value))
		case ir.Nop:
			p.b.WriteString("\t\tnop\n")
		}
	}
	fmt.Fprintf(&p.b, "\t\t%s\n", terminator(blk.Terminator))
}

func (p *Printer) String() string {
	return p.b.String()
}

func localName(id ir.LocalID) string {
	return fmt.Sprintf("_%d", int(id))
}

func operand(op ir.Operand) string {
	if op.Kind == ir.Used {
		return "used " + localName(op.Local)
	}
	return localName(op.Local)
}

func operands(ops []ir.Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = operand(op)
	}
	return strings.Join(parts, ", ")
}

func rvalue(rv ir.Rvalue) string {
	switch v := rv.(type) {
	case ir.Use:
		return operand(v.X)
	case ir.Repeat:
		return fmt.Sprintf("repeat %s", operand(v.X))
	case ir.Ref:
		return "&" + localName(v.X)
	case ir.Len:
		return fmt.Sprintf("len(%s)", localName(v.X))
	case ir.Cast:
		return fmt.Sprintf("cast %s", operand(v.X))
	case ir.UnaryOp:
		return fmt.Sprintf("unop %s", operand(v.X))
	case ir.BinaryOp:
		return fmt.Sprintf("binop %s, %s", operand(v.X), operand(v.Y))
	case ir.NullaryOp:
		return "nullary"
	case ir.Discriminant:
		return fmt.Sprintf("discriminant %s", localName(v.X))
	case ir.Aggregate:
		return fmt.Sprintf("aggregate [%s]", operands(v.Elems))
	case ir.CopyForDeref:
		return fmt.Sprintf("deref-copy %s", localName(v.X))
	}
	return fmt.Sprintf("%T", rv)
}

func terminator(t ir.Terminator) string {
	switch v := t.(type) {
	case ir.Goto:
		return "goto"
	case ir.CondBranch:
		return fmt.Sprintf("branch on %s", operand(v.Scrutinee))
	case ir.Return:
		if len(v.Values) == 0 {
			return "return"
		}
		return fmt.Sprintf("return %s", operands(v.Values))
	case ir.Call:
		s := fmt.Sprintf("call %s(%s)", v.Callee.FQN(), operands(v.Args))
		if v.HasDst {
			s = localName(v.Dst) + " = " + s
		}
		return s
	case ir.TailCall:
		return fmt.Sprintf("tailcall %s(%s)", v.Callee.FQN(), operands(v.Args))
	case ir.Yield:
		return fmt.Sprintf("yield %s resume %s", operand(v.Value), localName(v.ResumeArg))
	case ir.InlineBlock:
		outs := make([]string, len(v.Outputs))
		for i, id := range v.Outputs {
			outs[i] = localName(id)
		}
		return fmt.Sprintf("asm in [%s] out [%s]", operands(v.Inputs), strings.Join(outs, ", "))
	case ir.Unreachable:
		return "unreachable"
	case ir.Drop:
		return "drop"
	case ir.Assert:
		return "assert"
	case ir.Teardown:
		return "teardown"
	}
	return fmt.Sprintf("%T", t)
}
