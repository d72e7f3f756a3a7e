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
package arena

import (
	"testing"

	"github.com/apalache-core/apalache-core/pkg/types"
)

func Test_New_HasTrueAndFalse(t *testing.T) {
	a := New()

	if a.True().ID() != CellTrue || a.False().ID() != CellFalse {
		t.Fatal("expected distinguished true/false cells at ids 0 and 1")
	}

	if a.Len() != 2 {
		t.Fatalf("expected 2 cells after New(), got %d", a.Len())
	}
}

func Test_AllocCell_SharesPriorArena(t *testing.T) {
	a0 := New()
	a1, c := a0.AllocCell(types.NewInt())

	if a0.Len() != 2 {
		t.Error("allocating in a1 must not mutate a0")
	}

	if a1.Len() != 3 || c.ID() != 2 {
		t.Error("new cell should land at id 2")
	}
}

func Test_Has_OrderedAppend(t *testing.T) {
	a := New()
	a, s := a.AllocCell(types.NewFinSet(types.NewInt()))
	a, e1 := a.AllocCell(types.NewInt())
	a, e2 := a.AllocCell(types.NewInt())
	a = a.AppendHas(s, e1)
	a = a.AppendHas(s, e2)

	got := a.Has(s)
	if len(got) != 2 || got[0] != e1.ID() || got[1] != e2.ID() {
		t.Fatalf("expected ordered [%d %d], got %v", e1.ID(), e2.ID(), got)
	}
}

func Test_Has_EmptyForUnknownCell(t *testing.T) {
	a := New()
	a, s := a.AllocCell(types.NewFinSet(types.NewInt()))

	if got := a.Has(s); len(got) != 0 {
		t.Fatalf("expected no elements, got %v", got)
	}
}

func Test_Dom_LastWriteWins(t *testing.T) {
	a := New()
	a, f := a.AllocCell(types.NewFun(types.NewInt(), types.NewInt()))
	a, d1 := a.AllocCell(types.NewFinSet(types.NewInt()))
	a, d2 := a.AllocCell(types.NewFinSet(types.NewInt()))
	a = a.SetDom(f, d1)
	a = a.SetDom(f, d2)

	got, ok := a.Dom(f)
	if !ok || got != d2.ID() {
		t.Fatalf("expected most recent dom %d, got %d (ok=%v)", d2.ID(), got, ok)
	}
}

func Test_Cdm_AbsentReportsFalse(t *testing.T) {
	a := New()
	a, f := a.AllocCell(types.NewFun(types.NewInt(), types.NewInt()))

	if _, ok := a.Cdm(f); ok {
		t.Fatal("expected no cdm recorded")
	}
}

func Test_Snapshot_Restore_Roundtrip(t *testing.T) {
	a := New()
	snap := a.Snapshot()
	a, _ = a.AllocCell(types.NewInt())
	a, _ = a.AllocCell(types.NewInt())

	if a.Len() != 4 {
		t.Fatalf("expected 4 cells before restore, got %d", a.Len())
	}

	a = a.Restore(snap)

	if a.Len() != 2 {
		t.Fatalf("expected 2 cells after restore, got %d", a.Len())
	}
}

func Test_Snapshot_Restore_Idempotent(t *testing.T) {
	a := New()
	a, _ = a.AllocCell(types.NewInt())
	snap := a.Snapshot()
	a, _ = a.AllocCell(types.NewInt())

	once := a.Restore(snap)
	twice := once.Restore(snap)

	if once.Len() != twice.Len() {
		t.Fatal("restoring the same snapshot twice should be idempotent")
	}
}

func Test_Snapshot_TakenBeforePush_ValidAcrossIt(t *testing.T) {
	a := New()
	outer := a.Snapshot()
	a, _ = a.AllocCell(types.NewInt())
	inner := a.Snapshot()
	a, _ = a.AllocCell(types.NewInt())
	a = a.Restore(inner)
	a = a.Restore(outer)

	if a.Len() != 2 {
		t.Fatalf("expected snapshot taken before push to survive, got len %d", a.Len())
	}
}
