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

// dKind tags a node of the small propositional formula δᵥ builds over the
// A_i atoms. This is deliberately not pkg/ir.Expr: δᵥ's atoms (A_i) and its
// final consumer (an auxiliary SMT-LIB2 text program, spec §4.6) live
// outside the arena/rewriter world entirely, so reusing the specification-
// level IR here would pull in concerns (typing, arena cells) this
// sub-problem doesn't have.
type dKind uint8

const (
	dFalse dKind = iota
	dTrue
	dAtom
	dAnd
	dOr
)

// dNode is one node of δᵥ(φ), kept both renderable to SMT-LIB2 text and
// directly evaluable, so the brute-force MemorySolver and the emitted text
// given to a real solver are always built from the same construction.
type dNode struct {
	kind dKind
	atom int
	kids []dNode
}

// Text renders d as SMT-LIB2 concrete syntax.
func (d dNode) Text() string {
	switch d.kind {
	case dTrue:
		return "true"
	case dFalse:
		return "false"
	case dAtom:
		return fmt.Sprintf("A%d", d.atom)
	case dAnd, dOr:
		head := "and"
		if d.kind == dOr {
			head = "or"
		}

		parts := make([]string, len(d.kids))
		for i, k := range d.kids {
			parts[i] = k.Text()
		}

		return fmt.Sprintf("(%s %s)", head, strings.Join(parts, " "))
	default:
		return "false"
	}
}

// Eval evaluates d under assign, the truth value assign[A_i] maps to a
// candidate id.
func (d dNode) Eval(assign map[int]bool) bool {
	switch d.kind {
	case dTrue:
		return true
	case dFalse:
		return false
	case dAtom:
		return assign[d.atom]
	case dAnd:
		for _, k := range d.kids {
			if !k.Eval(assign) {
				return false
			}
		}

		return true
	case dOr:
		for _, k := range d.kids {
			if k.Eval(assign) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// simplifyOr eagerly drops false disjuncts and short-circuits on a true one
// (spec §4.6: "simplify eagerly; ∨ drops false children").
func simplifyOr(kids []dNode) dNode {
	var kept []dNode

	for _, k := range kids {
		if k.kind == dTrue {
			return dNode{kind: dTrue}
		}

		if k.kind == dFalse {
			continue
		}

		kept = append(kept, k)
	}

	switch len(kept) {
	case 0:
		return dNode{kind: dFalse}
	case 1:
		return kept[0]
	default:
		return dNode{kind: dOr, kids: kept}
	}
}

// simplifyAnd eagerly drops true conjuncts and short-circuits on a false one
// (spec §4.6: "∧ containing false collapses to false").
func simplifyAnd(kids []dNode) dNode {
	var kept []dNode

	for _, k := range kids {
		if k.kind == dFalse {
			return dNode{kind: dFalse}
		}

		if k.kind == dTrue {
			continue
		}

		kept = append(kept, k)
	}

	switch len(kept) {
	case 0:
		return dNode{kind: dTrue}
	case 1:
		return kept[0]
	default:
		return dNode{kind: dAnd, kids: kept}
	}
}

// deltaV computes δᵥ(e), the "does some candidate assign v along this
// branch" formula (spec §4.6). At an AssignIn leaf whose lvar is v, δᵥ is
// the leaf's own atom A_i. At an And node δᵥ is the disjunction of the
// children's δᵥ (any one child assigning v suffices); at an Or node δᵥ is
// the conjunction (every branch of the disjunction must assign v, since the
// solver cannot know ahead of time which disjunct the model will choose) —
// the documented And↔Or inversion.
func deltaV(e ir.Expr, v string) dNode {
	switch e.Op() {
	case ir.AssignIn:
		if e.Child(0).Name() == v {
			return dNode{kind: dAtom, atom: e.ID()}
		}

		return dNode{kind: dFalse}
	case ir.And:
		kids := make([]dNode, len(e.Children()))
		for i, c := range e.Children() {
			kids[i] = deltaV(c, v)
		}

		return simplifyOr(kids)
	case ir.Or:
		kids := make([]dNode, len(e.Children()))
		for i, c := range e.Children() {
			kids[i] = deltaV(c, v)
		}

		return simplifyAnd(kids)
	default:
		return dNode{kind: dFalse}
	}
}

// pair is an unordered key into the dependency map, always stored with the
// smaller id first.
type pair struct{ lo, hi int }

func key(a, b int) pair {
	if a < b {
		return pair{a, b}
	}

	return pair{b, a}
}

// computeIndependence walks formula's And/Or spine bottom-up and marks every
// pair of candidate ids that share a common ancestor with whether that
// ancestor was an Or node (spec §4.6: "two candidates are independent iff
// their nearest common ancestor is an ∨-node"). Since every pair of
// candidates in a single formula tree is first brought together at exactly
// one nearest common ancestor, a single bottom-up pass records every pair
// exactly once, at the right node.
func computeIndependence(formula ir.Expr) map[pair]bool {
	marks := map[pair]bool{}

	var walk func(e ir.Expr) []int

	walk = func(e ir.Expr) []int {
		switch e.Op() {
		case ir.AssignIn:
			return []int{e.ID()}
		case ir.And, ir.Or:
			childSets := make([][]int, len(e.Children()))
			for i, c := range e.Children() {
				childSets[i] = walk(c)
			}

			indep := e.Op() == ir.Or

			for i := 0; i < len(childSets); i++ {
				for j := i + 1; j < len(childSets); j++ {
					for _, a := range childSets[i] {
						for _, b := range childSets[j] {
							marks[key(a, b)] = indep
						}
					}
				}
			}

			var all []int
			for _, s := range childSets {
				all = append(all, s...)
			}

			return all
		default:
			return nil
		}
	}

	walk(formula)

	return marks
}

// dependent reports whether candidates a and b belong to the dependency set
// D (spec §4.6): true unless their nearest common ancestor is known to be
// an Or node. A candidate is never dependent on itself (a==b yields false).
// Pairs that never co-occurred under any recorded ancestor (a and b drawn
// from unrelated formulas) are conservatively treated as dependent, since
// no independence proof was ever established for them.
func dependent(marks map[pair]bool, a, b int) bool {
	if a == b {
		return false
	}

	indep, ok := marks[key(a, b)]
	if !ok {
		return true
	}

	return !indep
}
