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

import "github.com/apalache-core/apalache-core/pkg/types"

// edge is a single out-edge record in one of the three typed edge logs.
type edge struct {
	from ID
	to   ID
}

// Arena is the append-only heap of cells, plus the three typed edge logs
// described in spec §3.2.  Arena is a plain value: every mutating operation
// returns a new Arena that shares the previous one's backing arrays,
// matching the "previous symbolic state is not mutated" guarantee of §3.4.
// The edge logs are kept as flat append-only slices (rather than per-cell
// growable lists) precisely so that Snapshot/Restore can be expressed as a
// truncation of four lengths, mirroring the SMT gateway's push/pop depth.
type Arena struct {
	cells []Cell
	has   []edge
	dom   []edge
	cdm   []edge
}

// New constructs an empty arena with the two distinguished boolean cells
// already allocated, at ids CellTrue and CellFalse.
func New() Arena {
	var a Arena

	a.cells = append(a.cells, Cell{CellTrue, types.NewBool()})
	a.cells = append(a.cells, Cell{CellFalse, types.NewBool()})

	return a
}

// Len returns the number of cells allocated so far.
func (a Arena) Len() int { return len(a.cells) }

// Cell returns the cell with the given id.
func (a Arena) Cell(id ID) Cell { return a.cells[id] }

// True returns the distinguished "true" boolean cell.
func (a Arena) True() Cell { return a.cells[CellTrue] }

// False returns the distinguished "false" boolean cell.
func (a Arena) False() Cell { return a.cells[CellFalse] }

// AllocCell appends a new cell of the given type and returns the extended
// arena together with the freshly allocated cell.
func (a Arena) AllocCell(t types.Type) (Arena, Cell) {
	c := Cell{ID(len(a.cells)), t}
	na := a
	na.cells = append(a.cells, c)

	return na, c
}

// AppendHas records that e is (one of) c's elements, for FinSet and Seq
// cells.  For Seq cells, callers are responsible for maintaining the
// "[start, end, x1, x2, ...]" layout described in spec §4.4: the first two
// entries recorded are the start/end integer markers.
func (a Arena) AppendHas(c Cell, e Cell) Arena {
	na := a
	na.has = append(a.has, edge{c.id, e.id})

	return na
}

// SetDom records the domain cell of a function, function-set, or record.
// Calling SetDom again for the same cell supersedes the previous value: Dom
// always reports the most recently recorded edge.
func (a Arena) SetDom(c Cell, d Cell) Arena {
	na := a
	na.dom = append(a.dom, edge{c.id, d.id})

	return na
}

// SetCdm records the codomain/relation cell of a function or function-set.
// Calling SetCdm again for the same cell supersedes the previous value.
func (a Arena) SetCdm(c Cell, r Cell) Arena {
	na := a
	na.cdm = append(a.cdm, edge{c.id, r.id})

	return na
}

// Has returns the ordered list of c's recorded elements, in the order they
// were appended.  Returns an empty (nil) slice if c never had an element
// recorded.
func (a Arena) Has(c Cell) []ID {
	var out []ID

	for _, e := range a.has {
		if e.from == c.id {
			out = append(out, e.to)
		}
	}

	return out
}

// Dom returns c's most-recently-recorded domain cell, and whether one was
// ever recorded.
func (a Arena) Dom(c Cell) (ID, bool) {
	for i := len(a.dom) - 1; i >= 0; i-- {
		if a.dom[i].from == c.id {
			return a.dom[i].to, true
		}
	}

	return 0, false
}

// Cdm returns c's most-recently-recorded codomain/relation cell, and whether
// one was ever recorded.
func (a Arena) Cdm(c Cell) (ID, bool) {
	for i := len(a.cdm) - 1; i >= 0; i-- {
		if a.cdm[i].from == c.id {
			return a.cdm[i].to, true
		}
	}

	return 0, false
}

// Snapshot is a handle identifying a point in an arena's growth history.  It
// is comparable and zero-cost to keep around; Restore truncates an arena
// back to the lengths it records.
type Snapshot struct {
	cells int
	has   int
	dom   int
	cdm   int
}

// Snapshot captures the current lengths of the cell sequence and the three
// edge logs.
func (a Arena) Snapshot() Snapshot {
	return Snapshot{len(a.cells), len(a.has), len(a.dom), len(a.cdm)}
}

// Restore truncates the arena back to a previously taken Snapshot.  Restore
// is idempotent: restoring the same handle from the resulting arena again is
// a no-op, since the lengths are already at or below the snapshot's lengths.
// Restoring a Snapshot whose lengths exceed the receiver's current lengths
// (i.e. restoring "forward") panics, since that would require resurrecting
// truncated data the receiver no longer has reachable.
func (a Arena) Restore(s Snapshot) Arena {
	if s.cells > len(a.cells) || s.has > len(a.has) || s.dom > len(a.dom) || s.cdm > len(a.cdm) {
		panic("arena.Restore: snapshot lies ahead of this arena")
	}

	return Arena{
		cells: a.cells[:s.cells],
		has:   a.has[:s.has],
		dom:   a.dom[:s.dom],
		cdm:   a.cdm[:s.cdm],
	}
}
