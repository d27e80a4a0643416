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

// Package untrusted provides the sanitizing wrapper the analyzer is
// configured to recognize: values put into a Value are considered
// safely tracked.
package untrusted

// Value marks a string as untrusted until explicitly sanitized.
type Value struct {
	value string
}

// Wrap marks a raw value as untrusted.
func Wrap(s string) Value {
	return Value{value: s}
}

// From is an alias constructor kept for API compatibility.
func From(s string) Value {
	return Wrap(s)
}

// Expose returns the raw value. Callers take responsibility for it.
func (v Value) Expose() string {
	return v.value
}
