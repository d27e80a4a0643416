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

// Package report aggregates per-function analysis results into a
// package-level report and renders it for the console or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/problem"
)

// Format selects a rendering of a report.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "console":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// AnalysisResult holds the findings for a single function body.
type AnalysisResult struct {
	Function string            `json:"function"`
	Span     ir.Span           `json:"span"`
	Problems []problem.Problem `json:"problems,omitempty"`
}

// Report collects the analysis results of one package.
type Report struct {
	Package string           `json:"package"`
	Results []AnalysisResult `json:"results"`
}

// NumProblems returns the total number of findings across all results.
func (r *Report) NumProblems() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Problems)
	}
	return n
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Render returns the report in the requested format.
func (r *Report) Render(f Format) (string, error) {
	switch f {
	case FormatConsole:
		return r.Console(), nil
	case FormatJSON:
		b, err := r.JSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown output format: %q", string(f))
}
