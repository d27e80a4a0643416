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

// Package config describes the sanitizing wrapper convention: which
// type absorbs tainted data and which functions construct or convert
// into it. The loaded config implements the classifier injected into
// the propagation engine, so no type name is hard-coded anywhere else.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/untrusted-value/taintcheck/internal/pkg/config/regexp"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// FlagSet should be used by analyzers to reuse the -config flag.
var FlagSet flag.FlagSet
var configFile string

func init() {
	FlagSet.StringVar(&configFile, "config", "", "path to analysis configuration file (default: builtin untrusted.Value convention)")
}

// Config matches the wrapper type and its entry points.
type Config struct {
	// SinkTypes are the wrapper types that safely absorb tainted data.
	SinkTypes []typeMatcher
	// SinkConstructors are functions returning a wrapper value.
	SinkConstructors []funcMatcher
	// SinkConversions are generic conversion functions; a call counts
	// as a sink only when its type argument is itself a sink type.
	SinkConversions []funcMatcher
}

// IsSinkType determines whether a local of the given type safely
// absorbs tainted data.
func (c *Config) IsSinkType(t ir.TypeRef) bool {
	for _, m := range c.SinkTypes {
		if m.MatchType(t.Path, t.Name) {
			return true
		}
	}
	return false
}

// IsSinkConstructor determines whether calling the given function
// produces a wrapped value.
func (c *Config) IsSinkConstructor(f ir.FuncRef) bool {
	for _, m := range c.SinkConstructors {
		if m.MatchFunction(f.Path, f.Recv, f.Name) {
			return true
		}
	}
	return false
}

// IsSinkConversion determines whether the given call is a generic
// conversion whose target type parameter is a sink type.
func (c *Config) IsSinkConversion(f ir.FuncRef) bool {
	if !c.IsSinkType(f.TypeArg) {
		return false
	}
	for _, m := range c.SinkConversions {
		if m.MatchFunction(f.Path, f.Recv, f.Name) {
			return true
		}
	}
	return false
}

type stringMatcher interface {
	MatchString(string) bool
}

type literalMatcher string

func (lm literalMatcher) MatchString(s string) bool {
	return string(lm) == s
}

type vacuousMatcher struct{}

func (vacuousMatcher) MatchString(s string) bool {
	return true
}

// Returns the first non-nil matcher. If all are nil, returns a vacuousMatcher.
func matcherFrom(lm *literalMatcher, r *regexp.Regexp) stringMatcher {
	switch {
	case lm != nil:
		return lm
	case r != nil:
		return r
	default:
		return vacuousMatcher{}
	}
}

// A typeMatcher matches a type by package path and type name, either
// against string literals Package, Type or against regexp PackageRE,
// TypeRE.
type typeMatcher struct {
	Package stringMatcher
	Type    stringMatcher
}

// this type uses the default unmarshaler and mirrors configuration key-value pairs
type rawTypeMatcher struct {
	Package   *literalMatcher
	Type      *literalMatcher
	PackageRE *regexp.Regexp
	TypeRE    *regexp.Regexp
}

func (tm *typeMatcher) UnmarshalJSON(bytes []byte) error {
	raw := rawTypeMatcher{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return err
	}

	// validation: do not double-specify any attribute with literal and regexp
	if raw.Package != nil && raw.PackageRE != nil {
		return fmt.Errorf("expected only one of Package, PackageRE to be configured")
	}
	if raw.Type != nil && raw.TypeRE != nil {
		return fmt.Errorf("expected only one of Type, TypeRE to be configured")
	}

	*tm = typeMatcher{
		Package: matcherFrom(raw.Package, raw.PackageRE),
		Type:    matcherFrom(raw.Type, raw.TypeRE),
	}
	return nil
}

func (tm typeMatcher) MatchType(path, typeName string) bool {
	return tm.Package.MatchString(path) && tm.Type.MatchString(typeName)
}

type funcMatcher struct {
	Package  stringMatcher
	Receiver stringMatcher
	Method   stringMatcher
}

// this type uses the default unmarshaler and mirrors configuration key-value pairs
type rawFuncMatcher struct {
	Package    *literalMatcher
	Receiver   *literalMatcher
	Method     *literalMatcher
	PackageRE  *regexp.Regexp
	ReceiverRE *regexp.Regexp
	MethodRE   *regexp.Regexp
}

func (fm *funcMatcher) UnmarshalJSON(bytes []byte) error {
	raw := rawFuncMatcher{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return err
	}

	// validation: do not double-specify any attribute with literal and regexp
	if raw.Package != nil && raw.PackageRE != nil {
		return fmt.Errorf("expected at most one of Package, PackageRE to be configured")
	}
	if raw.Receiver != nil && raw.ReceiverRE != nil {
		return fmt.Errorf("expected at most one of Receiver, ReceiverRE to be configured")
	}
	if raw.Method != nil && raw.MethodRE != nil {
		return fmt.Errorf("expected at most one of Method, MethodRE to be configured")
	}

	*fm = funcMatcher{
		Package:  matcherFrom(raw.Package, raw.PackageRE),
		Receiver: matcherFrom(raw.Receiver, raw.ReceiverRE),
		Method:   matcherFrom(raw.Method, raw.MethodRE),
	}
	return nil
}

func (fm funcMatcher) MatchFunction(path, receiver, name string) bool {
	return fm.Package.MatchString(path) && fm.Receiver.MatchString(receiver) && fm.Method.MatchString(name)
}

// defaultConfig matches the canonical wrapper library convention:
// untrusted.Value, built by Wrap or From, converted into by To.
const defaultConfig = `
SinkTypes:
  - PackageRE: "(^|/)untrusted$"
    Type: "Value"
SinkConstructors:
  - PackageRE: "(^|/)untrusted$"
    MethodRE: "^(Wrap|From)$"
SinkConversions:
  - PackageRE: "(^|/)untrusted$"
    Method: "To"
`

var readFileOnce sync.Once
var readConfigCached *Config
var readConfigCachedErr error

// ReadConfig loads the configuration named by the -config flag, or the
// builtin default when the flag is unset. The result is cached for the
// lifetime of the process.
func ReadConfig() (*Config, error) {
	readFileOnce.Do(func() {
		c := new(Config)
		bytes := []byte(defaultConfig)
		if configFile != "" {
			var err error
			bytes, err = os.ReadFile(configFile)
			if err != nil {
				readConfigCachedErr = fmt.Errorf("error reading analysis config: %v", err)
				return
			}
		}

		if err := yaml.UnmarshalStrict(bytes, c); err != nil {
			readConfigCachedErr = err
			return
		}
		readConfigCached = c
	})
	return readConfigCached, readConfigCachedErr
}

// SetBytes parses the given configuration document and installs it as
// the cached config, pre-empting any file read. Intended for tests.
func SetBytes(b []byte) error {
	c := new(Config)
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return err
	}
	SetConfig(c)
	return nil
}

// SetConfig installs the given config as the cached config.
func SetConfig(c *Config) {
	readFileOnce.Do(func() {})
	readConfigCached = c
	readConfigCachedErr = nil
}
