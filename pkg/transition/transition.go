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

// Package transition implements the transition extractor (layer L7, spec
// §4.7): it splits a next-state relation into the ordered symbolic
// transitions the rewriter (L5) will later rewrite, one per top-level
// disjunct that the assignment-strategy solver (L6) accepts.
package transition

import (
	"fmt"
	"sort"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/strategy"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Transition is one accepted candidate transition: a next-state disjunct
// together with the assignment order its strategy solver produced. Name is
// the transition prefix concatenated with its index in the final,
// id-sorted order (spec §4.7).
type Transition struct {
	Name     string
	Formula  ir.Expr
	Strategy *strategy.Strategy
}

// disjuncts pushes disjunctions outward wherever they dominate a
// conjunction of atoms (spec §4.7) and returns the resulting top-level
// disjuncts. An And node's disjuncts are the cartesian product of its
// children's disjuncts, combined pairwise with a fresh And node; an Or
// node's disjuncts are simply the concatenation of its children's
// disjuncts (flattening nested Ors); anything else is already an
// indivisible candidate.
func disjuncts(e ir.Expr, gen *ir.IDGen) []ir.Expr {
	switch e.Op() {
	case ir.Or:
		var out []ir.Expr

		for _, c := range e.Children() {
			out = append(out, disjuncts(c, gen)...)
		}

		return out
	case ir.And:
		lists := make([][]ir.Expr, len(e.Children()))
		for i, c := range e.Children() {
			lists[i] = disjuncts(c, gen)
		}

		return cartesianAnd(lists, gen)
	default:
		return []ir.Expr{e}
	}
}

// cartesianAnd combines each list in lists pairwise via gen.NewAnd, folding
// left to right, so that the final result has one entry per combination of
// one disjunct from every list.
func cartesianAnd(lists [][]ir.Expr, gen *ir.IDGen) []ir.Expr {
	if len(lists) == 0 {
		return nil
	}

	acc := lists[0]

	for _, l := range lists[1:] {
		var next []ir.Expr

		for _, a := range acc {
			for _, b := range l {
				next = append(next, gen.NewAnd(a, b))
			}
		}

		acc = next
	}

	return acc
}

// Extract identifies formula's top-level disjuncts, runs the assignment-
// strategy solver on each, and keeps the ones with a strategy, sorted by
// their (pre-naming) IR node id for determinism (spec §4.7). Rejected
// candidates and solver failures are not fatal: they are collected into a
// single combined diagnostic via go.uber.org/multierr and returned
// alongside whatever transitions did succeed, so a caller can log the
// reasons without aborting the run (spec §7: AssignmentUnsat is a non-fatal
// outcome).
func Extract(prefix string, formula ir.Expr, gen *ir.IDGen, solver strategy.Solver) ([]Transition, error) {
	candidates := disjuncts(formula, gen)

	type accepted struct {
		id    int
		expr  ir.Expr
		strat *strategy.Strategy
	}

	var (
		kept []accepted
		errs error
	)

	for _, c := range candidates {
		strat, _, err := solver.Solve(c)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "transition candidate #%d", c.ID()))

			continue
		}

		if strat == nil {
			errs = multierr.Append(errs, errors.Errorf(
				"transition candidate #%d: no assignment strategy, rejected", c.ID()))

			continue
		}

		kept = append(kept, accepted{id: c.ID(), expr: c, strat: strat})
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].id < kept[j].id })

	out := make([]Transition, len(kept))
	for i, a := range kept {
		out[i] = Transition{
			Name:     fmt.Sprintf("%s#%d", prefix, i),
			Formula:  a.expr,
			Strategy: a.strat,
		}
	}

	return out, errs
}
