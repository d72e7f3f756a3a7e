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
package strategy

import (
	"fmt"
	"strings"

	"github.com/apalache-core/apalache-core/pkg/ir"
)

// Problem is the assignment sub-problem extracted from a next-state formula
// (spec §4.6): the candidate set S, the distinct variables they assign, and
// the independence marks computed over their nearest common ancestors.
type Problem struct {
	Candidates []Candidate
	Vars       []string
	Marks      map[pair]bool
}

// buildProblem extracts a Problem from formula.
func buildProblem(formula ir.Expr) Problem {
	candidates := Collect(formula)

	return Problem{
		Candidates: candidates,
		Vars:       variables(candidates),
		Marks:      computeIndependence(formula),
	}
}

// conjoin renders a non-empty slice of SMT-LIB2 terms as their conjunction,
// or "true" if parts is empty (the vacuous case: nothing to constrain).
func conjoin(parts []string) string {
	if len(parts) == 0 {
		return "true"
	}

	return fmt.Sprintf("(and %s)", strings.Join(parts, " "))
}

// emit renders the full assignment sub-problem as an SMT-LIB2 program in
// QF_UFLIA (spec §4.6): a boolean A_i per candidate, an uninterpreted
// R : Int -> Int giving the chosen candidates' relative execution order, and
// the four conjuncts φ_A, φ_R, φ_inj, φ_uniq. This is the one place in the
// module literal SMT-LIB2 text is built and handed to a solver wholesale,
// rather than asserted incrementally through the smt.Gateway boundary
// (spec §6).
func emit(formula ir.Expr, p Problem) string {
	var b strings.Builder

	b.WriteString("(set-logic QF_UFLIA)\n")

	for _, c := range p.Candidates {
		fmt.Fprintf(&b, "(declare-const A%d Bool)\n", c.ID)
	}

	b.WriteString("(declare-fun R (Int) Int)\n")

	var deltas []string
	for _, v := range p.Vars {
		deltas = append(deltas, deltaV(formula, v).Text())
	}

	fmt.Fprintf(&b, "(assert %s) ; phi_A\n", conjoin(deltas))

	var rparts []string

	for _, i := range p.Candidates {
		for _, j := range p.Candidates {
			if i.ID == j.ID || !dependent(p.Marks, i.ID, j.ID) {
				continue
			}

			if rvars(j.RHS)[i.LVar] {
				rparts = append(rparts, fmt.Sprintf(
					"(=> (and A%d A%d) (< (R %d) (R %d)))", i.ID, j.ID, i.ID, j.ID))
			}
		}
	}

	fmt.Fprintf(&b, "(assert %s) ; phi_R\n", conjoin(rparts))

	var injParts []string

	for i := 0; i < len(p.Candidates); i++ {
		for j := i + 1; j < len(p.Candidates); j++ {
			injParts = append(injParts, fmt.Sprintf(
				"(not (= (R %d) (R %d)))", p.Candidates[i].ID, p.Candidates[j].ID))
		}
	}

	fmt.Fprintf(&b, "(assert %s) ; phi_inj\n", conjoin(injParts))

	var uniqParts []string

	for i := 0; i < len(p.Candidates); i++ {
		for j := i + 1; j < len(p.Candidates); j++ {
			ci, cj := p.Candidates[i], p.Candidates[j]
			if ci.LVar == cj.LVar && dependent(p.Marks, ci.ID, cj.ID) {
				uniqParts = append(uniqParts, fmt.Sprintf("(not (and A%d A%d))", ci.ID, cj.ID))
			}
		}
	}

	fmt.Fprintf(&b, "(assert %s) ; phi_uniq\n", conjoin(uniqParts))

	b.WriteString("(check-sat)\n(get-model)\n")

	return b.String()
}
