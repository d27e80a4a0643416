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

// Package catalog holds the registry of known taint sources: functions
// whose results are controlled by the environment, the user or the
// network. The catalog is loaded once before analysis begins and is
// immutable afterwards; the propagation engine receives it explicitly.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Source is one catalog entry: a group of fully-qualified function
// names sharing a rationale for being taint sources.
type Source struct {
	Functions   []string `json:"functions"`
	Description string   `json:"description"`
}

// Module is a named group of taint sources, e.g. everything related to
// environment variables.
type Module struct {
	Name        string   `json:"taintModuleName"`
	Description string   `json:"description"`
	Sources     []Source `json:"sources"`
}

// Catalog is an immutable, ordered collection of modules supporting
// exact lookup by fully-qualified function name. Declaration order is
// significant: the first matching entry wins.
type Catalog struct {
	modules []Module
	byFQN   map[string]entryRef
}

type entryRef struct {
	module int
	source int
}

// New builds a catalog from the given modules. Duplicate function names
// keep their first declaration.
func New(modules []Module) *Catalog {
	c := &Catalog{modules: modules, byFQN: make(map[string]entryRef)}
	for mi, m := range modules {
		for si, s := range m.Sources {
			for _, fn := range s.Functions {
				if _, ok := c.byFQN[fn]; !ok {
					c.byFQN[fn] = entryRef{module: mi, source: si}
				}
			}
		}
	}
	return c
}

// Modules returns the catalog's modules in declaration order.
func (c *Catalog) Modules() []Module { return c.modules }

// Lookup resolves a fully-qualified function name to its module and
// source entry.
func (c *Catalog) Lookup(fqn string) (Module, Source, bool) {
	ref, ok := c.byFQN[fqn]
	if !ok {
		return Module{}, Source{}, false
	}
	return c.modules[ref.module], c.modules[ref.module].Sources[ref.source], true
}

// Filter returns a catalog restricted to modules whose name starts with
// one of the given prefixes. An empty prefix list keeps everything.
func (c *Catalog) Filter(prefixes []string) *Catalog {
	if len(prefixes) == 0 {
		return c
	}
	var kept []Module
	for _, m := range c.modules {
		for _, p := range prefixes {
			if strings.HasPrefix(m.Name, p) {
				kept = append(kept, m)
				break
			}
		}
	}
	return New(kept)
}

// rawModule mirrors the declarative catalog file format. Each library
// block declares a name prefix that is concatenated onto its function
// names at load time.
type rawModule struct {
	TaintModuleName string       `json:"taintModuleName"`
	Description     string       `json:"description"`
	Content         []rawLibrary `json:"content"`
}

type rawLibrary struct {
	ModulePrefix string      `json:"modulePrefix"`
	TaintSources []rawSource `json:"taintSources"`
}

type rawSource struct {
	Functions   []string `json:"functions"`
	Description string   `json:"description"`
}

// Parse decodes a declarative catalog document. The document is YAML or
// JSON (a list of modules) and is rejected on unknown fields.
func Parse(data []byte) (*Catalog, error) {
	var raw []rawModule
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed taint source catalog: %w", err)
	}
	modules := make([]Module, 0, len(raw))
	for _, rm := range raw {
		m := Module{Name: rm.TaintModuleName, Description: rm.Description}
		for _, lib := range rm.Content {
			prefix := lib.ModulePrefix
			if prefix != "" {
				prefix += "."
			}
			for _, src := range lib.TaintSources {
				qualified := make([]string, len(src.Functions))
				for i, fn := range src.Functions {
					qualified[i] = prefix + fn
				}
				m.Sources = append(m.Sources, Source{Functions: qualified, Description: src.Description})
			}
		}
		modules = append(modules, m)
	}
	return New(modules), nil
}

// Load reads and parses a catalog file. Errors are fatal to the caller:
// no meaningful analysis can run without a source catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading taint source catalog: %w", err)
	}
	return Parse(data)
}
