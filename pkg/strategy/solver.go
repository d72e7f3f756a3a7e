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
	"sort"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/pkg/errors"
)

// Strategy is a valid assignment order (spec §3.5): Order lists the chosen
// candidates' node ids, earliest-first, such that every specification
// variable is assigned along every branch, and no two mutually dependent
// entries assign the same variable.  Candidates on different branches of a
// disjunction are independent, so Order may hold one entry per branch for
// the same variable.
type Strategy struct {
	Order []int
}

// Solver finds a Strategy for a next-state formula, or reports that none
// exists. Solve also returns the SMT-LIB2 program text the sub-problem was
// reduced to (spec §4.6), regardless of which backend actually decided it,
// so callers can log or persist it even when MemorySolver answered the
// query natively.
type Solver interface {
	Solve(formula ir.Expr) (*Strategy, string, error)
}

// bruteForceCap bounds MemorySolver's truth-assignment enumeration the same
// way smt.MemoryGateway bounds its own atom count: beyond this many
// candidates the 2^n enumeration stops being a reasonable native stand-in
// for a real solver.
const bruteForceCap = 20

// MemorySolver is a native decision procedure for the assignment
// sub-problem: it enumerates every truth assignment to the A_i directly
// (rather than parsing its own emitted SMT-LIB2 text back out of a solver),
// checks φ_A and φ_uniq by evaluating the same dNode trees the text was
// rendered from, and turns a passing assignment's dependency edges into a
// concrete order via topological sort instead of searching the full
// integer-valued R. This mirrors the smt.MemoryGateway/ProcessGateway split
// one layer down, and is what this package's own tests run against.
type MemorySolver struct{}

// NewMemorySolver constructs a MemorySolver.
func NewMemorySolver() *MemorySolver { return &MemorySolver{} }

// Solve implements Solver.
func (MemorySolver) Solve(formula ir.Expr) (*Strategy, string, error) {
	p := buildProblem(formula)
	text := emit(formula, p)

	n := len(p.Candidates)
	if n == 0 {
		return &Strategy{}, text, nil
	}

	if n > bruteForceCap {
		return nil, text, errors.Errorf(
			"strategy: %d candidates exceeds brute-force cap %d", n, bruteForceCap)
	}

	for mask := 0; mask < (1 << uint(n)); mask++ {
		assign := make(map[int]bool, n)
		for i, c := range p.Candidates {
			assign[c.ID] = mask&(1<<uint(i)) != 0
		}

		if !satisfiesPhiA(formula, p.Vars, assign) {
			continue
		}

		if violatesPhiUniq(p, assign) {
			continue
		}

		var chosen []Candidate

		for _, c := range p.Candidates {
			if assign[c.ID] {
				chosen = append(chosen, c)
			}
		}

		if order, ok := topoOrder(chosen, p.Marks); ok {
			return &Strategy{Order: order}, text, nil
		}
	}

	return nil, text, nil
}

// satisfiesPhiA reports whether assign makes every variable's δᵥ true,
// i.e. assign models φ_A.
func satisfiesPhiA(formula ir.Expr, vars []string, assign map[int]bool) bool {
	for _, v := range vars {
		if !deltaV(formula, v).Eval(assign) {
			return false
		}
	}

	return true
}

// violatesPhiUniq reports whether assign selects two dependent, same-lvar
// candidates together, which φ_uniq forbids.
func violatesPhiUniq(p Problem, assign map[int]bool) bool {
	cs := p.Candidates
	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			ci, cj := cs[i], cs[j]
			if ci.LVar == cj.LVar && dependent(p.Marks, ci.ID, cj.ID) && assign[ci.ID] && assign[cj.ID] {
				return true
			}
		}
	}

	return false
}

// topoOrder orders chosen candidates by the precedence edges φ_R imposes
// between them (i before j whenever i,j are dependent and i's lvar is
// referenced, primed, in j's right-hand side), via Kahn's algorithm. Ties
// (candidates with no ordering constraint between them) break on ascending
// node id, for a deterministic result. Returns ok=false if the edges form a
// cycle, meaning no R : Int -> Int can satisfy φ_R for this assignment.
func topoOrder(chosen []Candidate, marks map[pair]bool) ([]int, bool) {
	indeg := make(map[int]int, len(chosen))
	succ := make(map[int][]int, len(chosen))

	for _, c := range chosen {
		indeg[c.ID] = 0
	}

	for _, i := range chosen {
		for _, j := range chosen {
			if i.ID == j.ID || !dependent(marks, i.ID, j.ID) {
				continue
			}

			if rvars(j.RHS)[i.LVar] {
				succ[i.ID] = append(succ[i.ID], j.ID)
				indeg[j.ID]++
			}
		}
	}

	var ready []int

	for _, c := range chosen {
		if indeg[c.ID] == 0 {
			ready = append(ready, c.ID)
		}
	}

	sort.Ints(ready)

	var order []int

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var newlyReady []int

		for _, s := range succ[id] {
			indeg[s]--
			if indeg[s] == 0 {
				newlyReady = append(newlyReady, s)
			}
		}

		sort.Ints(newlyReady)
		ready = append(ready, newlyReady...)
		sort.Ints(ready)
	}

	if len(order) != len(chosen) {
		return nil, false
	}

	return order, true
}
