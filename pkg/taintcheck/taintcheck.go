// Package taintcheck exports the taintcheck Analyzer.
package taintcheck

import internal "github.com/untrusted-value/taintcheck/internal/pkg/taintcheck"

// Analyzer reports untrusted values that escape without being wrapped.
var Analyzer = internal.Analyzer
