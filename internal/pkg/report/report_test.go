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

package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untrusted-value/taintcheck/internal/pkg/catalog"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/problem"
)

func init() {
	color.Disable()
}

func span(line int) ir.Span {
	return ir.Span{File: "main.go", Line: line, Column: 1}
}

func sampleReport() *Report {
	return &Report{
		Package: "example.com/app",
		Results: []AnalysisResult{
			{Function: "example.com/app.clean", Span: span(10)},
			{
				Function: "example.com/app.leak",
				Span:     span(20),
				Problems: []problem.Problem{{
					Source:     problem.SourceRef{Module: "environment", Description: "environment variables"},
					SourceSig:  "os.Getenv",
					SourceSpan: span(21),
					Detail:     problem.Used{UsedIn: span(22), Usage: problem.Usage{Kind: problem.UsageReturnedToCaller}},
				}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"console": FormatConsole,
		"Console": FormatConsole,
		"json":    FormatJSON,
		"JSON":    FormatJSON,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestNumProblems(t *testing.T) {
	assert.Equal(t, 1, sampleReport().NumProblems())
	assert.Equal(t, 0, (&Report{Package: "p"}).NumProblems())
}

func TestConsoleClean(t *testing.T) {
	r := &Report{Package: "example.com/app"}
	out := r.Console()
	assert.Contains(t, out, "No problems found")
	assert.Contains(t, out, "example.com/app")
}

func TestConsoleProblems(t *testing.T) {
	out := sampleReport().Console()
	assert.Contains(t, out, "Sanitizing problem found in example.com/app:example.com/app.leak main.go:20:1")
	assert.Contains(t, out, "| Usage of os.Getenv at main.go:21:1")
	assert.Contains(t, out, "| without wrapping the result as untrusted.Value is discouraged")
	assert.Contains(t, out, "| > untrusted value from os.Getenv is returned to the caller without being wrapped")
	assert.Contains(t, out, "| Make sure to wrap the result like this untrusted.Wrap(os.Getenv(...))")
	// The clean function contributes nothing.
	assert.NotContains(t, out, "example.com/app.clean")
}

func TestRenderJSON(t *testing.T) {
	rendered, err := sampleReport().Render(FormatJSON)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	assert.Equal(t, *sampleReport(), decoded)
}

func TestSourceList(t *testing.T) {
	cat := catalog.New([]catalog.Module{{
		Name:        "environment",
		Description: "process environment",
		Sources: []catalog.Source{{
			Functions:   []string{"os.Getenv", "os.LookupEnv"},
			Description: "reads an environment variable",
		}},
	}})
	out := SourceList(cat)
	want := strings.Join([]string{
		"Taint sources module environment:",
		" | > process environment",
		" | > reads an environment variable",
		" | - os.Getenv",
		" | - os.LookupEnv",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}
