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

package config

import (
	"testing"

	"sigs.k8s.io/yaml"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

var valueType = ir.TypeRef{Path: "example.com/untrusted", Name: "Value"}

func parseDefault(t *testing.T) *Config {
	t.Helper()
	c := new(Config)
	if err := yaml.UnmarshalStrict([]byte(defaultConfig), c); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	return c
}

func TestDefaultConfigSinkTypes(t *testing.T) {
	c := parseDefault(t)
	testCases := []struct {
		typ  ir.TypeRef
		want bool
	}{
		{valueType, true},
		{ir.TypeRef{Path: "corp.example.com/deep/untrusted", Name: "Value"}, true},
		{ir.TypeRef{Path: "example.com/untrustedextra", Name: "Value"}, false},
		{ir.TypeRef{Path: "example.com/untrusted", Name: "Wrapper"}, false},
		{ir.TypeRef{Name: "string"}, false},
	}
	for _, tt := range testCases {
		if got := c.IsSinkType(tt.typ); got != tt.want {
			t.Errorf("IsSinkType(%s) = %t, want %t", tt.typ, got, tt.want)
		}
	}
}

func TestDefaultConfigSinkConstructors(t *testing.T) {
	c := parseDefault(t)
	testCases := []struct {
		fn   ir.FuncRef
		want bool
	}{
		{ir.FuncRef{Path: "example.com/untrusted", Name: "Wrap"}, true},
		{ir.FuncRef{Path: "example.com/untrusted", Name: "From"}, true},
		{ir.FuncRef{Path: "example.com/untrusted", Name: "FromString"}, false},
		{ir.FuncRef{Path: "os", Name: "Getenv"}, false},
	}
	for _, tt := range testCases {
		if got := c.IsSinkConstructor(tt.fn); got != tt.want {
			t.Errorf("IsSinkConstructor(%s) = %t, want %t", tt.fn, got, tt.want)
		}
	}
}

func TestDefaultConfigSinkConversions(t *testing.T) {
	c := parseDefault(t)
	testCases := []struct {
		desc string
		fn   ir.FuncRef
		want bool
	}{
		{
			"conversion into the wrapper",
			ir.FuncRef{Path: "example.com/untrusted", Name: "To", TypeArg: valueType},
			true,
		},
		{
			// A generic call is a sink only when its type argument is
			// itself a sink type.
			"conversion into another type",
			ir.FuncRef{Path: "example.com/untrusted", Name: "To", TypeArg: ir.TypeRef{Name: "string"}},
			false,
		},
		{
			"conversion without a type argument",
			ir.FuncRef{Path: "example.com/untrusted", Name: "To"},
			false,
		},
		{
			"matching type argument on a non-conversion function",
			ir.FuncRef{Path: "example.com/other", Name: "Map", TypeArg: valueType},
			false,
		},
	}
	for _, tt := range testCases {
		if got := c.IsSinkConversion(tt.fn); got != tt.want {
			t.Errorf("%s: IsSinkConversion(%s) = %t, want %t", tt.desc, tt.fn, got, tt.want)
		}
	}
}

func TestSetBytes(t *testing.T) {
	doc := `
SinkTypes:
  - Package: "corp.example/safety"
    Type: "Box"
`
	if err := SetBytes([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	c, err := ReadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !c.IsSinkType(ir.TypeRef{Path: "corp.example/safety", Name: "Box"}) {
		t.Error("installed config does not match its own sink type")
	}
	if c.IsSinkType(valueType) {
		t.Error("installed config still matches the default sink type")
	}
}

func TestSetBytesRejectsMalformedDocument(t *testing.T) {
	if err := SetBytes([]byte(`SinkTypes: {not: a list}`)); err == nil {
		t.Error("SetBytes accepted a malformed document")
	}
}
