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

// Package arena implements the append-only typed-cell heap (layer L1): the
// heap of symbolic cells that represent concrete or underspecified values of
// the high-level specification language, plus the typed "has"/"dom"/"cdm"
// out-edges between them.
package arena

import (
	"fmt"

	"github.com/apalache-core/apalache-core/pkg/types"
)

// ID identifies a cell by its allocation order.  IDs are monotonically
// increasing and never reused.
type ID int

// CellTrue and CellFalse are the ids of the two distinguished boolean cells
// every Arena allocates at construction time.
const (
	CellTrue  ID = 0
	CellFalse ID = 1
)

// Cell is a symbolic value: an id and the type it was allocated with.  Cells
// are immutable once allocated; all further information about a cell (its
// elements, domain, codomain) lives in the Arena's edge tables, not on the
// Cell itself.
type Cell struct {
	id  ID
	typ types.Type
}

// ID returns this cell's identity.
func (c Cell) ID() ID { return c.id }

// Type returns this cell's type.
func (c Cell) Type() types.Type { return c.typ }

// String renders the cell for diagnostics, e.g. "c42:FinSet(Int)".
func (c Cell) String() string {
	return fmt.Sprintf("c%d:%s", c.id, c.typ.String())
}
