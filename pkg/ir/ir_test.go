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
package ir

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/types"
)

func Test_IDGen_MonotonicallyIncreasing(t *testing.T) {
	g := NewIDGen()
	a := g.NewTrue()
	b := g.NewFalse()

	if b.ID() <= a.ID() {
		t.Fatalf("expected strictly increasing ids, got %d then %d", a.ID(), b.ID())
	}
}

func Test_NewAssignIn_RequiresPrime(t *testing.T) {
	g := NewIDGen()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing AssignIn over a non-Prime left-hand side")
		}
	}()

	name := g.NewName("v", types.NewInt())
	set := g.NewSetEnum(types.NewInt())
	g.NewAssignIn(name, set)
}

func Test_String_RoundTripsNodeID(t *testing.T) {
	g := NewIDGen()
	v := g.NewPrime("v", types.NewInt())
	set := g.NewSetEnum(types.NewInt(), g.NewIntLit(*new(big.Int)))
	e := g.NewAssignIn(v, set)

	if !strings.Contains(e.String(), fmt.Sprintf("#%d)", e.ID())) {
		t.Fatalf("expected s-expression to carry node id #%d, got %q", e.ID(), e.String())
	}
}
