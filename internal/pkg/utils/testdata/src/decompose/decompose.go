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

package decompose

type counter struct {
	n int
}

func (c *counter) inc() {
	c.n++
}

func (c counter) value() int {
	return c.n
}

func identity[T any](v T) T {
	return v
}

func helper() {}

func calls() {
	c := &counter{}
	c.inc()
	_ = c.value()
	_ = identity("x")
	helper()
}
