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

// Package utils decomposes go/types and go/ssa entities into the plain
// type and function references used by the graph layer.
package utils

import (
	"go/types"
	"strings"

	"golang.org/x/tools/go/ssa"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// Dereference returns the underlying type of a pointer.
// If the input is not a pointer, then the type of the input is returned.
func Dereference(t types.Type) types.Type {
	for {
		tt, ok := t.Underlying().(*types.Pointer)
		if !ok {
			return t
		}
		t = tt.Elem()
	}
}

// DecomposeType reduces a type to its package path and name. Pointers
// are dereferenced first; unnamed types keep their textual form in the
// name with an empty path.
func DecomposeType(t types.Type) ir.TypeRef {
	d := Dereference(t)
	if n, ok := d.(*types.Named); ok {
		ref := ir.TypeRef{Name: n.Obj().Name()}
		if pkg := n.Obj().Pkg(); pkg != nil {
			ref.Path = pkg.Path()
		}
		return ref
	}
	return ir.TypeRef{Name: d.String()}
}

// UnqualifiedName strips the package qualifier from a variable's type
// name.
func UnqualifiedName(v *types.Var) string {
	packageQualifiedName := v.Type().String()
	dotPos := strings.LastIndexByte(packageQualifiedName, '.')
	if dotPos == -1 {
		return packageQualifiedName
	}
	return packageQualifiedName[dotPos+1:]
}

// DecomposeFunction reduces an ssa.Function to the reference used for
// catalog lookups and sink matching. Functions without a receiver get
// an empty Recv; an instantiated generic function reports its origin's
// name and records its first type argument. Panics if provided a nil
// argument.
func DecomposeFunction(f *ssa.Function) ir.FuncRef {
	ref := ir.FuncRef{Name: f.Name()}
	if f.Pkg != nil {
		ref.Path = f.Pkg.Pkg.Path()
	}
	if recvVar := f.Signature.Recv(); recvVar != nil {
		ref.Recv = strings.TrimPrefix(UnqualifiedName(recvVar), "*")
	}
	if origin := f.Origin(); origin != nil && origin != f {
		ref.Name = origin.Name()
		if origin.Pkg != nil {
			ref.Path = origin.Pkg.Pkg.Path()
		}
	}
	if targs := f.TypeArgs(); len(targs) > 0 {
		ref.TypeArg = DecomposeType(targs[0])
	}
	return ref
}
