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
	"math/big"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
)

func zero(gen *ir.IDGen) ir.Expr { return gen.NewIntLit(*big.NewInt(0)) }

func Test_Solve_SingleVariable_ProducesSingletonStrategy(t *testing.T) {
	gen := ir.NewIDGen()

	x := gen.NewPrime("x", types.NewInt())
	rhs := gen.NewSetEnum(types.NewInt(), zero(gen))
	cand := gen.NewAssignIn(x, rhs)

	strat, text, err := NewMemorySolver().Solve(cand)
	if err != nil {
		t.Fatal(err)
	}

	if strat == nil {
		t.Fatal("expected a strategy for a single unconditional candidate")
	}

	if len(strat.Order) != 1 || strat.Order[0] != cand.ID() {
		t.Fatalf("expected order [%d], got %v", cand.ID(), strat.Order)
	}

	if text == "" {
		t.Fatal("expected non-empty emitted SMT-LIB2 text")
	}
}

func Test_Solve_DependencyOrdering_AssignsInDependencyOrder(t *testing.T) {
	gen := ir.NewIDGen()

	xPrime := gen.NewPrime("x", types.NewInt())
	yPrime := gen.NewPrime("y", types.NewInt())

	candX := gen.NewAssignIn(xPrime, gen.NewSetEnum(types.NewInt(), zero(gen)))
	// y' ∈ {x'}: y's candidate references x' on its right-hand side, so y
	// must be assigned after x.
	candY := gen.NewAssignIn(yPrime, gen.NewSetEnum(types.NewInt(), gen.NewPrime("x", types.NewInt())))

	formula := gen.NewAnd(candX, candY)

	strat, _, err := NewMemorySolver().Solve(formula)
	if err != nil {
		t.Fatal(err)
	}

	if strat == nil {
		t.Fatal("expected a strategy to exist")
	}

	if len(strat.Order) != 2 {
		t.Fatalf("expected both candidates assigned, got %v", strat.Order)
	}

	if strat.Order[0] != candX.ID() || strat.Order[1] != candY.ID() {
		t.Fatalf("expected x assigned before y, got %v", strat.Order)
	}
}

func Test_Solve_CyclicDependency_HasNoStrategy(t *testing.T) {
	gen := ir.NewIDGen()

	// x' ∈ {y'} ∧ y' ∈ {x'}: the only candidate for each variable, and each
	// references the other's primed value, so any strategy would need x
	// before y and y before x simultaneously.
	candX := gen.NewAssignIn(
		gen.NewPrime("x", types.NewInt()),
		gen.NewSetEnum(types.NewInt(), gen.NewPrime("y", types.NewInt())),
	)
	candY := gen.NewAssignIn(
		gen.NewPrime("y", types.NewInt()),
		gen.NewSetEnum(types.NewInt(), gen.NewPrime("x", types.NewInt())),
	)

	formula := gen.NewAnd(candX, candY)

	strat, text, err := NewMemorySolver().Solve(formula)
	if err != nil {
		t.Fatal(err)
	}

	if strat != nil {
		t.Fatalf("expected no strategy for a cyclic dependency, got %v", strat.Order)
	}

	if text == "" {
		t.Fatal("expected emitted SMT-LIB2 text even when unsat")
	}
}

func Test_Solve_DisjunctiveAssignment_RequiresBothBranchesCovered(t *testing.T) {
	gen := ir.NewIDGen()

	// x' ∈ {0} ∨ x' ∈ {1}: the solver cannot know ahead of time which
	// disjunct the model will take, so δ_x at an Or node is the conjunction
	// of its children's δ_x (spec §4.6's And↔Or inversion) — both
	// candidates must be chosen. They are independent (their nearest
	// common ancestor is the Or node), so φ_uniq does not forbid choosing
	// both, and φ_R imposes no order between them.
	one := gen.NewIntLit(*big.NewInt(1))
	candLeft := gen.NewAssignIn(gen.NewPrime("x", types.NewInt()), gen.NewSetEnum(types.NewInt(), zero(gen)))
	candRight := gen.NewAssignIn(gen.NewPrime("x", types.NewInt()), gen.NewSetEnum(types.NewInt(), one))

	formula := gen.NewOr(candLeft, candRight)

	strat, _, err := NewMemorySolver().Solve(formula)
	if err != nil {
		t.Fatal(err)
	}

	if strat == nil {
		t.Fatal("expected a strategy: both disjuncts' candidates can be chosen together")
	}

	if len(strat.Order) != 2 {
		t.Fatalf("expected both independent candidates chosen, got %v", strat.Order)
	}
}

func Test_Collect_SkipsNonAssignInLeaves(t *testing.T) {
	gen := ir.NewIDGen()

	cand := gen.NewAssignIn(gen.NewPrime("x", types.NewInt()), gen.NewSetEnum(types.NewInt(), zero(gen)))
	formula := gen.NewAnd(cand, gen.NewTrue())

	got := Collect(formula)
	if len(got) != 1 || got[0].ID != cand.ID() {
		t.Fatalf("expected exactly the one AssignIn leaf, got %v", got)
	}
}
