// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package apalacheerr implements the fatal-error taxonomy of spec §7.  Every
// error here is, by the propagation policy of §7, meant to abort the entire
// verification run: nothing in this module recovers from one. Non-fatal
// outcomes (assignment-strategy unsat, SMT unknown) are plain values, never
// errors of this package.
package apalacheerr

import "github.com/pkg/errors"

// Kind tags which fatal condition of spec §7 occurred.
type Kind uint8

const (
	// TypeIncomparable is raised at an equality site over incomparable types.
	TypeIncomparable Kind = iota
	// UncachedEquality is raised when safeEq is queried before cacheEq.
	UncachedEquality
	// NoApplicableRule is raised when the rewriter finds no matching rule.
	NoApplicableRule
	// MalformedIR is raised when an expected structural shape is absent.
	MalformedIR
)

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case TypeIncomparable:
		return "type-incomparable"
	case UncachedEquality:
		return "uncached-equality"
	case NoApplicableRule:
		return "no-applicable-rule"
	case MalformedIR:
		return "malformed-ir"
	default:
		return "unknown"
	}
}

// Error is a fatal, programmer-error-class failure.  It always carries the
// IR node id of the offending sub-expression, per §7's propagation policy
// ("a diagnostic that includes the IR node id and the component that raised
// it").
type Error struct {
	Kind      Kind
	NodeID    int
	Component string
	cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return errors.Wrapf(e.cause, "%s: fatal %s at IR node #%d", e.Component, e.Kind, e.NodeID).Error()
}

// Unwrap allows errors.Is/As to see through to the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// New constructs a fatal Error, wrapping it with a stack trace via
// github.com/pkg/errors so the diagnostic includes where it was raised, not
// just what was raised.
func New(kind Kind, component string, nodeID int, msg string) *Error {
	return &Error{Kind: kind, NodeID: nodeID, Component: component, cause: errors.New(msg)}
}

// TypeIncomparableError constructs the §7 "type incomparability at an
// equality site" error.
func TypeIncomparableError(component string, nodeID int, msg string) *Error {
	return New(TypeIncomparable, component, nodeID, msg)
}

// UncachedEqualityError constructs the §7 "uncached equality queried through
// safeEq" error.
func UncachedEqualityError(component string, nodeID int, msg string) *Error {
	return New(UncachedEquality, component, nodeID, msg)
}

// NoApplicableRuleError constructs the §7 "no applicable rewrite rule" error.
func NoApplicableRuleError(component string, nodeID int, msg string) *Error {
	return New(NoApplicableRule, component, nodeID, msg)
}

// MalformedIRError constructs the §7 "malformed IR" error, attaching the
// offending sub-expression's rendering.
func MalformedIRError(component string, nodeID int, msg string) *Error {
	return New(MalformedIR, component, nodeID, msg)
}
