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

// Package ir defines the intermediate representation consumed by the
// dependency graph builder. It mirrors the shape of a compiled function
// body: an ordered list of basic blocks, each holding assignments followed
// by a single terminator. The representation is produced by an adapter
// (see ssabody) so the graph builder and propagation engine never depend
// on a real compiler body and can be tested against hand-built values.
package ir

import "fmt"

// Span identifies a region of source text.
type Span struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (s Span) String() string {
	if s.File == "" && s.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool {
	return s == Span{}
}

// TypeRef names a declared type by package path and type name.
// Basic and unnamed types have an empty Path and carry their textual
// form in Name.
type TypeRef struct {
	Path string `json:"path,omitempty"`
	Name string `json:"name"`
}

func (t TypeRef) String() string {
	if t.Path == "" {
		return t.Name
	}
	return t.Path + "." + t.Name
}

// FuncRef names a function by package path, unqualified receiver type
// and function name. TypeArg carries the first type argument of an
// instantiated generic function, used to recognize conversion functions
// whose target type is the sanitizing wrapper.
type FuncRef struct {
	Path    string  `json:"path,omitempty"`
	Recv    string  `json:"recv,omitempty"`
	Name    string  `json:"name"`
	TypeArg TypeRef `json:"typeArg,omitempty"`
}

// FQN returns the fully-qualified name used for taint-source catalog
// lookups, e.g. "os.Getenv" or "net/http.(Request).FormValue".
func (f FuncRef) FQN() string {
	qualified := f.Name
	if f.Recv != "" {
		qualified = "(" + f.Recv + ")." + f.Name
	}
	if f.Path == "" {
		return qualified
	}
	return f.Path + "." + qualified
}

func (f FuncRef) String() string {
	return f.FQN()
}

// LocalID is a stable per-body index of a storage location.
type LocalID int

// Local is a storage location within one function body.
type Local struct {
	ID   LocalID
	Type TypeRef
}

// FlowKind distinguishes data flow that transfers the only reference to
// a value from flow that reads or copies it, leaving another live
// reference behind.
type FlowKind int

const (
	// Move consumes the value; no other reference survives the flow.
	Move FlowKind = iota
	// Used reads or copies the value; the origin stays live.
	Used
)

func (k FlowKind) String() string {
	switch k {
	case Move:
		return "move"
	case Used:
		return "used"
	}
	return fmt.Sprintf("FlowKind(%d)", int(k))
}

// Operand references a local together with its flow kind. Constant
// operands carry no data dependency and are never represented.
type Operand struct {
	Local LocalID
	Kind  FlowKind
}

// MoveOf returns a moving reference to the given local.
func MoveOf(l LocalID) Operand { return Operand{Local: l, Kind: Move} }

// UsedOf returns a copying reference to the given local.
func UsedOf(l LocalID) Operand { return Operand{Local: l, Kind: Used} }

// Rvalue is the right-hand side of an assignment. The graph builder
// extracts the referenced locals from each shape.
type Rvalue interface{ isRvalue() }

type (
	// Use forwards a single operand.
	Use struct{ X Operand }
	// Repeat fills an aggregate with copies of one operand.
	Repeat struct{ X Operand }
	// Ref takes the address of a place; the place stays live.
	Ref struct{ X LocalID }
	// Len reads the length of a place.
	Len struct{ X LocalID }
	// Cast converts an operand to another type.
	Cast struct{ X Operand }
	// UnaryOp applies a unary operation, including dereferencing.
	UnaryOp struct{ X Operand }
	// BinaryOp combines two operands.
	BinaryOp struct{ X, Y Operand }
	// NullaryOp produces a value from thin air (allocation, sizeof).
	NullaryOp struct{}
	// Discriminant reads a variant tag from a place.
	Discriminant struct{ X LocalID }
	// Aggregate bundles several operands into one value.
	Aggregate struct{ Elems []Operand }
	// CopyForDeref copies a place so it can be dereferenced.
	CopyForDeref struct{ X LocalID }
)

func (Use) isRvalue()          {}
func (Repeat) isRvalue()       {}
func (Ref) isRvalue()          {}
func (Len) isRvalue()          {}
func (Cast) isRvalue()         {}
func (UnaryOp) isRvalue()      {}
func (BinaryOp) isRvalue()     {}
func (NullaryOp) isRvalue()    {}
func (Discriminant) isRvalue() {}
func (Aggregate) isRvalue()    {}
func (CopyForDeref) isRvalue() {}

// Statement is a single non-terminator instruction.
type Statement interface {
	isStatement()
	Pos() Span
}

// Assign stores the value of an rvalue into a destination local.
type Assign struct {
	Dst   LocalID
	Value Rvalue
	Span  Span
}

// Nop is a structural no-op: storage markers, type ascriptions and
// similar instructions that carry no data flow.
type Nop struct {
	Span Span
}

func (Assign) isStatement() {}
func (Nop) isStatement()    {}

func (a Assign) Pos() Span { return a.Span }
func (n Nop) Pos() Span    { return n.Span }

// Terminator ends a basic block.
type Terminator interface {
	isTerminator()
	Pos() Span
}

type (
	// Goto transfers control without touching data.
	Goto struct{ Span Span }
	// CondBranch consumes a scrutinee value to pick a successor.
	CondBranch struct {
		Scrutinee Operand
		Span      Span
	}
	// Return hands the listed operands back to the caller.
	Return struct {
		Values []Operand
		Span   Span
	}
	// Call invokes a function, feeding it the argument operands and
	// storing the result into Dst when HasDst is set.
	Call struct {
		Callee FuncRef
		Args   []Operand
		Dst    LocalID
		HasDst bool
		Span   Span
	}
	// TailCall invokes a function whose result becomes the caller's
	// return value.
	TailCall struct {
		Callee FuncRef
		Args   []Operand
		Span   Span
	}
	// Yield suspends a coroutine: the value flows out to the caller and
	// the resume argument flows in from it.
	Yield struct {
		Value     Operand
		ResumeArg LocalID
		Span      Span
	}
	// InlineBlock is an opaque low-level code block reading Inputs and
	// writing Outputs. Spans covers every source line of the block.
	InlineBlock struct {
		Inputs  []Operand
		Outputs []LocalID
		Spans   []Span
		Span    Span
	}
	// Unreachable marks a block the compiler proved dead.
	Unreachable struct{ Span Span }
	// Drop releases a value without using it.
	Drop struct{ Span Span }
	// Assert checks a runtime condition.
	Assert struct{ Span Span }
	// Teardown unwinds a coroutine.
	Teardown struct{ Span Span }
)

func (Goto) isTerminator()        {}
func (CondBranch) isTerminator()  {}
func (Return) isTerminator()      {}
func (Call) isTerminator()        {}
func (TailCall) isTerminator()    {}
func (Yield) isTerminator()       {}
func (InlineBlock) isTerminator() {}
func (Unreachable) isTerminator() {}
func (Drop) isTerminator()        {}
func (Assert) isTerminator()      {}
func (Teardown) isTerminator()    {}

func (t Goto) Pos() Span        { return t.Span }
func (t CondBranch) Pos() Span  { return t.Span }
func (t Return) Pos() Span      { return t.Span }
func (t Call) Pos() Span        { return t.Span }
func (t TailCall) Pos() Span    { return t.Span }
func (t Yield) Pos() Span       { return t.Span }
func (t InlineBlock) Pos() Span { return t.Span }
func (t Unreachable) Pos() Span { return t.Span }
func (t Drop) Pos() Span        { return t.Span }
func (t Assert) Pos() Span      { return t.Span }
func (t Teardown) Pos() Span    { return t.Span }

// Block is a basic block: zero or more statements and one terminator.
type Block struct {
	Statements []Statement
	Terminator Terminator
}

// Body is one compiled function body.
type Body struct {
	Func   FuncRef
	Span   Span
	Params []LocalID
	Locals []Local
	Blocks []Block
}

// Local returns the declaration of the given storage location.
func (b *Body) Local(id LocalID) (Local, bool) {
	for _, l := range b.Locals {
		if l.ID == id {
			return l, true
		}
	}
	return Local{}, false
}
