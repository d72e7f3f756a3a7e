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

// Package smt implements the SMT gateway (layer L2): the narrow interface
// through which every other layer interacts with an external solver.  Spec
// §6 treats the solver itself as an external collaborator; this package only
// specifies and implements the gateway contract plus two concrete
// implementations (a real subprocess-backed solver and an in-memory stand-in
// used throughout the test suite).
package smt

import "github.com/apalache-core/apalache-core/pkg/ir"

// Result is the outcome of a satisfiability check.
type Result uint8

const (
	// Sat means the asserted constraints are satisfiable.
	Sat Result = iota
	// Unsat means the asserted constraints are unsatisfiable.
	Unsat
	// Unknown means the solver could not decide within its resource limits.
	// Per spec §7, Unknown is propagated as an indeterminate verification
	// result; the core neither retries nor masks it.
	Unknown
)

// String renders a Result for diagnostics.
func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Decl names a declared SMT constant together with the sort it was declared
// with, sufficient for GetInterp to extract a concrete value from a model.
type Decl struct {
	Name string
	Sort string
}

// Gateway abstracts the external SMT solver.  Every capability named in
// spec §4.2 is represented here.  A Gateway's push/pop stack is synchronised
// by its caller with the equality cache's and the arena's own stacks (spec
// §5): the gateway itself only guarantees that assertions inside a popped
// scope become invisible to subsequent Sat() calls.
type Gateway interface {
	// AssertGround asserts a ground, boolean-typed IR expression (spec
	// §4.4's "boolean IR term").  Implementations are free to serialise it
	// to SMT-LIB2 text internally (ProcessGateway does); callers never
	// build SMT-LIB2 text themselves except for the assignment
	// sub-problem's dedicated text emission (spec §6).
	AssertGround(expr ir.Expr) error
	// Push opens a new assertion scope.
	Push() error
	// Pop closes the most recently opened n assertion scopes, discarding
	// every assertion made since.
	Pop(n int) error
	// Sat checks satisfiability of everything currently asserted.
	Sat() (Result, error)
	// GetInterp extracts the model value assigned to decl after a Sat()
	// call returned Sat.  The returned string is the SMT-LIB2 literal for
	// the value (e.g. "3", "true").
	GetInterp(decl Decl) (string, error)
	// ParseSMTLIB parses solver-returned text (e.g. a get-model response)
	// back into a structured form; for the core's purposes this returns the
	// raw text verbatim, as no further structure is required upstream of
	// the gateway boundary.
	ParseSMTLIB(text string) (string, error)
	// Log records a diagnostic message against the gateway's own trace,
	// independent of the caller's logger (spec §4.2, "log(message)").
	Log(message string)
	// Close releases any resources (e.g. a solver subprocess) held by the
	// gateway.
	Close() error
}
