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

// taintsources lists the taint-source catalog the analyzer would use,
// so the set of recognized functions can be inspected and filtered
// before a run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/untrusted-value/taintcheck/internal/pkg/catalog"
	"github.com/untrusted-value/taintcheck/internal/pkg/report"
)

func main() {
	catalogFile := flag.String("catalog", "", "path to a taint-source catalog file (default: builtin catalog)")
	filter := flag.String("taint-sources", "", "comma-separated taint-source module prefixes to list (default: all)")
	formatName := flag.String("format", "console", "output format: console or json")
	flag.Parse()

	cat := catalog.Builtin()
	if *catalogFile != "" {
		var err error
		if cat, err = catalog.Load(*catalogFile); err != nil {
			log.Fatal(err)
		}
	}
	if *filter != "" {
		var prefixes []string
		for _, p := range strings.Split(*filter, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}
		cat = cat.Filter(prefixes)
	}

	format, err := report.ParseFormat(*formatName)
	if err != nil {
		log.Fatal(err)
	}
	switch format {
	case report.FormatConsole:
		fmt.Print(report.SourceList(cat))
	case report.FormatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat.Modules()); err != nil {
			log.Fatal(err)
		}
	}
}
