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

package tests

import (
	"fmt"
	"os"

	"taintcheck_analysistest/untrusted"
)

// EnvHome leaks the raw environment value to its caller.
func EnvHome() string {
	home := os.Getenv("HOME") // want "untrusted value from os.Getenv is returned to the caller without being wrapped"
	return home
}

// WrappedHome wraps the value immediately, which is the sanctioned use.
func WrappedHome() untrusted.Value {
	return untrusted.Wrap(os.Getenv("HOME"))
}

// WrappedLater stores the raw value in a variable first; the single
// move into the wrapper still counts as sanctioned.
func WrappedLater() untrusted.Value {
	home := os.Getenv("HOME")
	v := untrusted.From(home)
	return v
}

// Fanout copies the raw value to several uses before wrapping anything.
func Fanout() {
	home := os.Getenv("HOME") // want "untrusted value from os.Getenv is duplicated before being wrapped"
	fmt.Println(home)
	fmt.Println(home)
}

// Doubled keeps a live copy of the raw value while combining it with
// itself.
func Doubled() string {
	home := os.Getenv("HOME") // want "untrusted value from os.Getenv is copied while unwrapped"
	return home + home
}

// Branches lets the raw value decide control flow.
func Branches() string {
	home := os.Getenv("HOME") // want "untrusted value from os.Getenv influences control flow"
	if home == "" {
		return "unset"
	}
	return "set"
}

// Exec hands the raw value to another function.
func Exec() {
	home := os.Getenv("HOME") // want "untrusted value from os.Getenv is passed to a function call without being wrapped"
	runCommand(home)
}

func runCommand(cmd string) {
	_ = cmd
}

// Accumulate feeds the raw value into a data-dependency cycle.
func Accumulate() {
	acc := os.Getenv("PATH") // want "untrusted value from os.Getenv flows in a data-dependency loop"
	for i := 0; i < 3; i++ {
		acc = acc + "/bin"
	}
	_ = acc
}

// Dropped reads the variable and never uses it; nothing escapes.
func Dropped() {
	_ = os.Getenv("HOME")
}

// Greet has no taint sources at all.
func Greet(name string) string {
	return "hello " + name
}
