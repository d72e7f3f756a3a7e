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

// Package strategy implements the assignment-strategy solver (layer L6,
// spec §3.5, §4.6): given a next-state formula, find an order over its
// candidate assignments "v' ∈ B" that assigns every state variable exactly
// once and respects the data dependencies between assignments.
//
// The solver reduces the search to a small propositional+uninterpreted-
// function formula and solves it via an auxiliary SMT instance distinct
// from the main rewriter's gateway (spec §6: the assignment sub-problem is
// the one place this module emits literal SMT-LIB2 text). Two Solvers are
// provided: ProcessSolver drives a real "z3 -in" subprocess; MemorySolver is
// a native brute-force decision procedure used throughout this package's
// own test suite, mirroring the smt.MemoryGateway/ProcessGateway split one
// layer down.
package strategy

import "github.com/apalache-core/apalache-core/pkg/ir"

// Candidate is one "v' ∈ B" leaf of the next-state formula (spec §3.5). ID
// is the leaf's own IR node id, used directly as the index into the
// assignment solver's A_i/R(i) symbols (spec §4.6): node ids are already
// unique and totally ordered, so no separate candidate-index remapping is
// needed.
type Candidate struct {
	ID   int
	LVar string
	RHS  ir.Expr
}

// Collect walks formula's And/Or spine and returns every AssignIn leaf it
// reaches, in the order encountered. Any other operator is treated as an
// opaque leaf contributing no candidates, matching spec §4.6's "at a leaf
// with id i" framing: the structural recursion that matters here is only
// over the boolean connectives that join candidates together.
func Collect(formula ir.Expr) []Candidate {
	var out []Candidate

	var walk func(e ir.Expr)

	walk = func(e ir.Expr) {
		switch e.Op() {
		case ir.AssignIn:
			out = append(out, Candidate{
				ID:   e.ID(),
				LVar: e.Child(0).Name(),
				RHS:  e.Child(1),
			})
		case ir.And, ir.Or:
			for _, c := range e.Children() {
				walk(c)
			}
		}
	}

	walk(formula)

	return out
}

// rvars returns the set of variable names whose primed reference (v')
// appears in e. Spec §3.5 defines the dependency relation in terms of
// "v' ∈ vars(rhs(j))" — a primed occurrence, not a plain one — since a
// candidate's right-hand side names the other assignments it relies on
// having already produced a value.
func rvars(e ir.Expr) map[string]bool {
	out := map[string]bool{}

	var walk func(x ir.Expr)

	walk = func(x ir.Expr) {
		if x.Op() == ir.Prime {
			out[x.Name()] = true

			return
		}

		for _, c := range x.Children() {
			walk(c)
		}
	}

	walk(e)

	return out
}

// variables returns the distinct lvars named by candidates, in first-seen
// order (used to build φ_A's per-variable conjunction deterministically).
func variables(candidates []Candidate) []string {
	seen := map[string]bool{}

	var out []string

	for _, c := range candidates {
		if !seen[c.LVar] {
			seen[c.LVar] = true

			out = append(out, c.LVar)
		}
	}

	return out
}
