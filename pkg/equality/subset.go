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
package equality

import (
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
)

// ElemOf builds "elem In s" as a disjunction over s's recorded candidates:
// elem belongs to s iff it is equal to one of them.  Every candidate pair is
// run through cacheEq first, so the disjuncts are always safeEq terms.
// Exported because the rewriter's In rule (spec §4.5) needs exactly this
// construction to give the In operator ground SMT meaning.
func (e *Engine) ElemOf(a arena.Arena, elem, s arena.Cell) (arena.Arena, ir.Expr, error) {
	candidates := a.Has(s)
	if len(candidates) == 0 {
		return a, e.gen.NewFalse(), nil
	}

	na := a
	disj := make([]ir.Expr, 0, len(candidates))

	for _, cid := range candidates {
		cand := na.Cell(cid)

		var err error

		na, err = e.CacheEq(na, elem, cand)
		if err != nil {
			return na, ir.Expr{}, err
		}

		term, err := e.SafeEq(na, elem, cand)
		if err != nil {
			return na, ir.Expr{}, err
		}

		disj = append(disj, term)
	}

	return na, e.gen.NewOr(disj...), nil
}

// SubsetEq builds the boolean IR term asserting l ⊆ r (spec §4.4): every
// recorded element of l either is not an element of l, or is an element of
// r.  Membership is decided by ElemOf, which counts every recorded has-edge
// as a member: an element of l is always found among l's own candidates,
// so the "elem∉l" disjunct reduces to false and each conjunct amounts to
// "elem ∈ r".  Has-edges are not distinguished from actual membership.
//
// Per spec §4.4's mandatory policy, when l has more than materializeThreshold
// recorded elements the whole conjunction is materialized as its own fresh
// boolean cell rather than inlined, so that repeated subset queries over a
// large set don't repeatedly re-expand an ever-growing formula into their
// caller.
func (e *Engine) SubsetEq(a arena.Arena, l, r arena.Cell) (arena.Arena, ir.Expr, error) {
	elems := a.Has(l)
	if len(elems) == 0 {
		return a, e.gen.NewTrue(), nil
	}

	na := a
	conj := make([]ir.Expr, 0, len(elems))

	for _, eid := range elems {
		elem := na.Cell(eid)

		var (
			inL, inR ir.Expr
			err      error
		)

		na, inL, err = e.ElemOf(na, elem, l)
		if err != nil {
			return na, ir.Expr{}, err
		}

		na, inR, err = e.ElemOf(na, elem, r)
		if err != nil {
			return na, ir.Expr{}, err
		}

		conj = append(conj, e.gen.NewOr(e.gen.NewNot(inL), inR))
	}

	expr := e.gen.NewAnd(conj...)

	if len(conj) <= materializeThreshold {
		return na, expr, nil
	}

	nb, cell := na.AllocCell(types.NewBool())
	ref := e.gen.NewCellRef(int(cell.ID()), types.NewBool())
	biconditional := e.gen.NewAnd(
		e.gen.NewOr(e.gen.NewNot(ref), expr),
		e.gen.NewOr(ref, e.gen.NewNot(expr)),
	)

	if err := e.gw.AssertGround(biconditional); err != nil {
		return nb, ir.Expr{}, err
	}

	return nb, ref, nil
}
