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

// Package taintcheck implements the analyzer. For every function in the
// package under analysis it builds a data dependency graph, marks the
// results of cataloged taint-source calls, propagates the taint and
// reports each tainted value that escapes without being wrapped in the
// sanitizing type.
package taintcheck

import (
	"flag"
	"fmt"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"github.com/untrusted-value/taintcheck/internal/pkg/catalog"
	"github.com/untrusted-value/taintcheck/internal/pkg/config"
	"github.com/untrusted-value/taintcheck/internal/pkg/dataflow"
	"github.com/untrusted-value/taintcheck/internal/pkg/graphrender"
	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
	"github.com/untrusted-value/taintcheck/internal/pkg/irprinter"
	"github.com/untrusted-value/taintcheck/internal/pkg/propagation"
	"github.com/untrusted-value/taintcheck/internal/pkg/report"
	"github.com/untrusted-value/taintcheck/internal/pkg/ssabody"
)

var (
	catalogFile  string
	sourceFilter stringsFlag
	formatName   string
	reportFile   string
	graphDir     string
)

var Analyzer = &analysis.Analyzer{
	Name:     "taintcheck",
	Run:      run,
	Flags:    analyzerFlags(),
	Doc:      "reports untrusted values that escape without being wrapped",
	Requires: []*analysis.Analyzer{buildssa.Analyzer},
}

// analyzerFlags extends the shared -config flag set with the flags of
// this analyzer. It must run before the set is handed to the driver.
func analyzerFlags() flag.FlagSet {
	config.FlagSet.StringVar(&catalogFile, "catalog", "", "path to a taint-source catalog file (default: builtin catalog)")
	config.FlagSet.Var(&sourceFilter, "taint-sources", "comma-separated taint-source module prefixes to check (default: all)")
	config.FlagSet.StringVar(&formatName, "format", "console", "report format: console or json")
	config.FlagSet.StringVar(&reportFile, "report", "", "write the rendered report to this file")
	config.FlagSet.StringVar(&graphDir, "graph-dir", "", "write a DOT dependency graph per function into this directory")
	return config.FlagSet
}

// stringsFlag accumulates comma-separated values across repeated uses
// of one flag.
type stringsFlag []string

func (f *stringsFlag) String() string { return strings.Join(*f, ",") }

func (f *stringsFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*f = append(*f, part)
		}
	}
	return nil
}

// funcOutcome is the per-function analysis output, collected by the
// parallel workers and reported serially afterwards.
type funcOutcome struct {
	result report.AnalysisResult
	dot    string
	irDump string
	pos    map[ir.Span]token.Pos
	fn     *ssa.Function
}

func run(pass *analysis.Pass) (interface{}, error) {
	conf, err := config.ReadConfig()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	ssaInput := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	var fns []*ssa.Function
	for _, fn := range ssaInput.SrcFuncs {
		if fn.Blocks != nil {
			fns = append(fns, fn)
		}
	}

	outcomes := make([]*funcOutcome, len(fns))
	var grp errgroup.Group
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i, fn := range fns {
		i, fn := i, fn
		grp.Go(func() error {
			outcomes[i] = analyzeFunction(fn, conf, cat)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	rep := report.Report{Package: pass.Pkg.Path()}
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		rep.Results = append(rep.Results, out.result)
		for _, p := range out.result.Problems {
			pass.Report(analysis.Diagnostic{
				Pos:     out.position(p.SourceSpan),
				Message: p.Summary(),
			})
		}
		if graphDir != "" && out.dot != "" {
			if err := writeDump(out.result.Function, ".dot", out.dot); err != nil {
				return nil, err
			}
			if err := writeDump(out.result.Function, ".ir", out.irDump); err != nil {
				return nil, err
			}
		}
	}

	if reportFile != "" {
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return nil, err
		}
		rendered, err := rep.Render(format)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(reportFile, []byte(rendered), 0644); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
	}
	return nil, nil
}

// analyzeFunction runs the full pipeline on one function. A body the
// graph builder rejects is logged and skipped rather than failing the
// whole pass.
func analyzeFunction(fn *ssa.Function, conf *config.Config, cat *catalog.Catalog) *funcOutcome {
	body, pos, err := ssabody.FromSSA(fn)
	if err != nil {
		log.Printf("skipping %s: %v", fn, err)
		return nil
	}
	g, err := dataflow.Build(body)
	if err != nil {
		log.Printf("skipping %s: malformed body: %v", fn, err)
		return nil
	}
	marking := propagation.Classify(g, conf, cat)
	marking.Saturate(g)

	out := &funcOutcome{
		result: report.AnalysisResult{
			Function: body.Func.FQN(),
			Span:     body.Span,
			Problems: propagation.Check(g, marking),
		},
		pos: pos,
		fn:  fn,
	}
	if graphDir != "" {
		out.dot = graphrender.DOT(out.result.Function, g, marking)
		out.irDump = irprinter.Sprint(body)
	}
	return out
}

// position resolves a span back to a token position, falling back to
// the function declaration when the span is synthetic.
func (o *funcOutcome) position(s ir.Span) token.Pos {
	if p, ok := o.pos[s]; ok {
		return p
	}
	return o.fn.Pos()
}

func loadCatalog() (*catalog.Catalog, error) {
	cat := catalog.Builtin()
	if catalogFile != "" {
		var err error
		if cat, err = catalog.Load(catalogFile); err != nil {
			return nil, err
		}
	}
	if len(sourceFilter) > 0 {
		cat = cat.Filter(sourceFilter)
	}
	return cat, nil
}

func writeDump(fn, ext, content string) error {
	if err := os.MkdirAll(graphDir, 0755); err != nil {
		return err
	}
	name := strings.NewReplacer("/", "_", "(", "", ")", "", "*", "").Replace(fn) + ext
	if err := os.WriteFile(filepath.Join(graphDir, name), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing dump for %s: %w", fn, err)
	}
	return nil
}
