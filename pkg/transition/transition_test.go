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
package transition

import (
	"math/big"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/strategy"
	"github.com/apalache-core/apalache-core/pkg/types"
)

func assign(gen *ir.IDGen, v string, n int64) ir.Expr {
	return gen.NewAssignIn(
		gen.NewPrime(v, types.NewInt()),
		gen.NewSetEnum(types.NewInt(), gen.NewIntLit(*big.NewInt(n))),
	)
}

func Test_Extract_SingleConjunctiveTransition(t *testing.T) {
	gen := ir.NewIDGen()
	formula := gen.NewAnd(assign(gen, "x", 0), assign(gen, "y", 1))

	out, err := Extract("Next", formula, gen, strategy.NewMemorySolver())
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 1 {
		t.Fatalf("expected a single transition, got %d", len(out))
	}

	if out[0].Name != "Next#0" {
		t.Fatalf("expected name Next#0, got %s", out[0].Name)
	}
}

func Test_Extract_TopLevelDisjunction_YieldsOneTransitionPerBranch(t *testing.T) {
	gen := ir.NewIDGen()
	left := assign(gen, "x", 0)
	right := assign(gen, "x", 1)
	formula := gen.NewOr(left, right)

	out, err := Extract("Next", formula, gen, strategy.NewMemorySolver())
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 2 {
		t.Fatalf("expected two transitions, got %d", len(out))
	}

	if out[0].Name != "Next#0" || out[1].Name != "Next#1" {
		t.Fatalf("expected sequential names, got %s, %s", out[0].Name, out[1].Name)
	}
}

func Test_Extract_DistributesAndOverOr(t *testing.T) {
	gen := ir.NewIDGen()
	a := assign(gen, "x", 0)
	b := assign(gen, "x", 1)
	c := assign(gen, "y", 2)

	// And(Or(a, b), c): the disjunction over x's two candidate values
	// should be pushed outward so that y's assignment appears alongside
	// each branch.
	formula := gen.NewAnd(gen.NewOr(a, b), c)

	out, err := Extract("Next", formula, gen, strategy.NewMemorySolver())
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 2 {
		t.Fatalf("expected two transitions after distribution, got %d", len(out))
	}
}

func Test_Extract_RejectsCyclicCandidate_ButKeepsOthers(t *testing.T) {
	gen := ir.NewIDGen()

	cyclic := gen.NewAnd(
		gen.NewAssignIn(gen.NewPrime("x", types.NewInt()), gen.NewSetEnum(types.NewInt(), gen.NewPrime("y", types.NewInt()))),
		gen.NewAssignIn(gen.NewPrime("y", types.NewInt()), gen.NewSetEnum(types.NewInt(), gen.NewPrime("x", types.NewInt()))),
	)
	fine := assign(gen, "z", 0)

	formula := gen.NewOr(cyclic, fine)

	out, err := Extract("Next", formula, gen, strategy.NewMemorySolver())
	if err == nil {
		t.Fatal("expected a combined rejection diagnostic for the cyclic branch")
	}

	if len(out) != 1 {
		t.Fatalf("expected the non-cyclic branch to still produce a transition, got %d", len(out))
	}
}
