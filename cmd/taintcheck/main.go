package main

import (
	"github.com/untrusted-value/taintcheck/pkg/taintcheck"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(taintcheck.Analyzer)
}
