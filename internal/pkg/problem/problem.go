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

// Package problem defines the structured diagnostics produced by the
// propagation engine: one record per taint source whose value escaped
// tracking before being absorbed by the sanitizing wrapper.
package problem

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/untrusted-value/taintcheck/internal/pkg/ir"
)

// UsageKind classifies how an unwrapped tainted value was consumed.
type UsageKind string

const (
	// UsageCopied: the value was copied or read while another live
	// reference to it remained untracked.
	UsageCopied UsageKind = "copied"
	// UsageFunctionCall: the value was passed verbatim into a call.
	UsageFunctionCall UsageKind = "function-call"
	// UsageReturnedToCaller: the value left the function unsanitized.
	UsageReturnedToCaller UsageKind = "returned-to-caller"
	// UsageAssembly: the value escaped into an inline low-level block.
	UsageAssembly UsageKind = "assembly"
	// UsageControlFlow: the value's bits decided a branch.
	UsageControlFlow UsageKind = "control-flow"
)

// Usage records the consumption of a tainted value. Call holds the
// call site when Kind is UsageFunctionCall.
type Usage struct {
	Kind UsageKind `json:"kind"`
	Call *ir.Span  `json:"call,omitempty"`
}

// Kind discriminates the problem union.
type Kind string

const (
	// KindLoop: the value flows in a data-dependency cycle.
	KindLoop Kind = "data-dependency-loop"
	// KindDuplicated: the value fanned out to several destinations
	// before any of them could be tracked further.
	KindDuplicated Kind = "duplicated"
	// KindUsed: the value was consumed without reaching a sink.
	KindUsed Kind = "used"
)

// Detail is the kind-specific payload of a problem.
type Detail interface {
	Kind() Kind
	isDetail()
}

// Loop reports a data-dependency cycle. Chain holds the statements
// traversed from the source, Closure the edge that closed the cycle.
type Loop struct {
	Chain   []ir.Span `json:"statementChain"`
	Closure ir.Span   `json:"loopClosure"`
}

// Duplicated reports fan-out: the analysis cannot safely pick one of
// the Targets to keep tracking.
type Duplicated struct {
	Chain   []ir.Span `json:"statementChain"`
	Targets []ir.Span `json:"targets"`
}

// Used reports an unsanitized consumption at UsedIn.
type Used struct {
	Chain  []ir.Span `json:"statementChain"`
	UsedIn ir.Span   `json:"usedIn"`
	Usage  Usage     `json:"usage"`
}

func (Loop) Kind() Kind       { return KindLoop }
func (Duplicated) Kind() Kind { return KindDuplicated }
func (Used) Kind() Kind       { return KindUsed }

func (Loop) isDetail()       {}
func (Duplicated) isDetail() {}
func (Used) isDetail()       {}

// SourceRef identifies the catalog entry that introduced the taint.
type SourceRef struct {
	Module            string `json:"module"`
	ModuleDescription string `json:"moduleDescription"`
	Description       string `json:"description"`
}

// Problem is one diagnosed taint flow.
type Problem struct {
	Source     SourceRef
	SourceSig  string
	SourceSpan ir.Span
	Detail     Detail
}

// Summary renders the one-line description used in diagnostics.
func (p Problem) Summary() string {
	return fmt.Sprintf("untrusted value from %s %s", p.SourceSig, describe(p.Detail))
}

func describe(d Detail) string {
	switch v := d.(type) {
	case Loop:
		return fmt.Sprintf("flows in a data-dependency loop closed at %s", v.Closure)
	case Duplicated:
		targets := make([]string, len(v.Targets))
		for i, t := range v.Targets {
			targets[i] = t.String()
		}
		return fmt.Sprintf("is duplicated before being wrapped (targets: %s)", strings.Join(targets, ", "))
	case Used:
		switch v.Usage.Kind {
		case UsageCopied:
			return fmt.Sprintf("is copied while unwrapped at %s", v.UsedIn)
		case UsageFunctionCall:
			site := v.UsedIn
			if v.Usage.Call != nil {
				site = *v.Usage.Call
			}
			return fmt.Sprintf("is passed to a function call without being wrapped at %s", site)
		case UsageReturnedToCaller:
			return "is returned to the caller without being wrapped"
		case UsageAssembly:
			return fmt.Sprintf("escapes into an inline assembly block at %s", v.UsedIn)
		case UsageControlFlow:
			return fmt.Sprintf("influences control flow at %s", v.UsedIn)
		}
	}
	return "escapes tracking"
}

// problemJSON is the serialized form of a Problem. The detail union is
// encoded as a kind tag plus exactly one populated payload field.
type problemJSON struct {
	Source     SourceRef   `json:"source"`
	SourceSig  string      `json:"sourceSignature"`
	SourceSpan ir.Span     `json:"sourceSpan"`
	Kind       Kind        `json:"kind"`
	Loop       *Loop       `json:"loop,omitempty"`
	Duplicated *Duplicated `json:"duplicated,omitempty"`
	Used       *Used       `json:"used,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Problem) MarshalJSON() ([]byte, error) {
	out := problemJSON{
		Source:     p.Source,
		SourceSig:  p.SourceSig,
		SourceSpan: p.SourceSpan,
	}
	switch v := p.Detail.(type) {
	case Loop:
		out.Kind = KindLoop
		out.Loop = &v
	case Duplicated:
		out.Kind = KindDuplicated
		out.Duplicated = &v
	case Used:
		out.Kind = KindUsed
		out.Used = &v
	default:
		return nil, fmt.Errorf("problem has unknown detail %T", p.Detail)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Problem) UnmarshalJSON(data []byte) error {
	var in problemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Source = in.Source
	p.SourceSig = in.SourceSig
	p.SourceSpan = in.SourceSpan
	switch in.Kind {
	case KindLoop:
		if in.Loop == nil {
			return fmt.Errorf("problem kind %q without payload", in.Kind)
		}
		p.Detail = *in.Loop
	case KindDuplicated:
		if in.Duplicated == nil {
			return fmt.Errorf("problem kind %q without payload", in.Kind)
		}
		p.Detail = *in.Duplicated
	case KindUsed:
		if in.Used == nil {
			return fmt.Errorf("problem kind %q without payload", in.Kind)
		}
		p.Detail = *in.Used
	default:
		return fmt.Errorf("unknown problem kind %q", in.Kind)
	}
	return nil
}
