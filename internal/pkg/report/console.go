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
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/untrusted-value/taintcheck/internal/pkg/catalog"
)

var (
	alarm    = color.New(color.FgRed, color.OpBold)
	fname    = color.New(color.FgYellow, color.OpItalic)
	source   = color.New(color.FgBlue, color.OpBold)
	fix      = color.New(color.FgGreen, color.OpBold)
	note     = color.New(color.OpItalic)
	noteBlue = color.New(color.FgBlue, color.OpItalic)
	loc      = color.New(color.FgGray)
)

func pipe() string { return color.Bold.Sprint("|") }

// Console renders the report for a terminal. Problems are grouped under
// the function they were found in; a clean package gets a single green
// line.
func (r *Report) Console() string {
	if r.NumProblems() == 0 {
		return fmt.Sprintf("%s in package %s\n",
			color.Green.Sprint("No problems found"),
			color.Yellow.Sprint(r.Package))
	}
	var b strings.Builder
	for _, res := range r.Results {
		for _, p := range res.Problems {
			fmt.Fprintf(&b, "%s found in %s:%s %s\n",
				alarm.Sprint("Sanitizing problem"),
				color.Yellow.Sprint(r.Package),
				fname.Sprint(res.Function),
				loc.Sprint(res.Span))
			fmt.Fprintf(&b, " %s Usage of %s at %s\n",
				pipe(), source.Sprint(p.SourceSig), loc.Sprint(p.SourceSpan))
			fmt.Fprintf(&b, " %s without wrapping the result as %s is discouraged\n",
				pipe(), fix.Sprint("untrusted.Value"))
			fmt.Fprintf(&b, " %s %s %s\n",
				pipe(), note.Sprint(">"), note.Sprint(p.Summary()))
			fmt.Fprintf(&b, " %s Make sure to wrap the result like this %s%s%s\n\n",
				pipe(),
				fix.Sprint("untrusted.Wrap("),
				source.Sprint(p.SourceSig+"(...)"),
				fix.Sprint(")"))
		}
	}
	return b.String()
}

// SourceList renders the catalog of known taint sources, one block per
// module, for the taintsources command.
func SourceList(cat *catalog.Catalog) string {
	var b strings.Builder
	for _, m := range cat.Modules() {
		fmt.Fprintf(&b, "Taint sources module %s:\n", fix.Sprint(m.Name))
		fmt.Fprintf(&b, " %s %s\n", pipe(), noteBlue.Sprint("> "+m.Description))
		for _, src := range m.Sources {
			fmt.Fprintf(&b, " %s %s\n", pipe(), noteBlue.Sprint("> "+src.Description))
			for _, fn := range src.Functions {
				fmt.Fprintf(&b, " %s - %s\n", pipe(), fname.Sprint(fn))
			}
		}
	}
	return b.String()
}
