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

// Package regexp wraps the standard regexp package with a type that can
// be unmarshaled directly from configuration values.
package regexp

import (
	"encoding/json"
	"regexp"
)

// Regexp delegates matching to a compiled standard library regexp.
type Regexp struct {
	r *regexp.Regexp
}

// UnmarshalJSON compiles the pattern held in a JSON string.
func (r *Regexp) UnmarshalJSON(bytes []byte) error {
	var pattern string
	if err := json.Unmarshal(bytes, &pattern); err != nil {
		return err
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.r = compiled
	return nil
}

// MatchString reports whether the string contains a match. A Regexp
// holding no pattern matches everything.
func (r *Regexp) MatchString(s string) bool {
	return r.r == nil || r.r.MatchString(s)
}

// String returns the source pattern.
func (r *Regexp) String() string {
	if r.r == nil {
		return ""
	}
	return r.r.String()
}
