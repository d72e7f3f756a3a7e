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

// Package cache implements the scoped equality cache (layer L3): a mapping
// from unordered cell pairs to equality entries, stacked to match the SMT
// gateway's push/pop depth (spec §3.3, §4.3).
package cache

import "github.com/apalache-core/apalache-core/pkg/arena"

// EntryKind tags which of the four equality-cache entries a Entry holds.
type EntryKind uint8

const (
	// True means a=b is proven.
	True EntryKind = iota
	// False means a=b is impossible.
	False
	// Eq means native SMT "=" is sound for this pair: structural
	// constraints have already been asserted.
	Eq
	// Expr means a=b is equivalent to the boolean cell carried in Entry.Cell.
	Expr
)

// Entry is one equality-cache entry (spec §3.3), tagged with the scope level
// at which it was installed.
type Entry struct {
	Kind  EntryKind
	// Cell is the boolean cell equivalent to "a=b"; only meaningful when
	// Kind == Expr.
	Cell  arena.ID
	level int
}

// pairKey is the unordered pair {a, b}, normalised so the smaller id is
// first; this is what makes the cache's key genuinely unordered.
type pairKey struct {
	lo, hi arena.ID
}

func key(a, b arena.ID) pairKey {
	if a <= b {
		return pairKey{a, b}
	}

	return pairKey{b, a}
}

// record is a single logged cache mutation, used so Push/Pop can be
// expressed as append/truncate exactly like the Arena's edge logs (spec
// §4.3: "each push records the current map size; each pop discards entries
// inserted after the most recent push").
type record struct {
	key   pairKey
	entry Entry
}

// Cache is the scoped equality cache.  It is used through a pointer:
// Push/Pop/Put all return nothing and mutate the receiver intentionally, because unlike
// the Arena (which must support speculative branching via cheap value
// copies), the cache's lifetime is tied one-to-one to a single SMT gateway
// session (spec §4.3's Snapshot/Recover exists precisely for the rarer case
// of wanting to fork it).
type Cache struct {
	live       map[pairKey]Entry
	log        []record
	scopeMarks []int
}

// New constructs an empty cache at context level 0.
func New() *Cache {
	return &Cache{live: map[pairKey]Entry{}}
}

// ContextLevel returns the current push depth.
func (c *Cache) ContextLevel() int { return len(c.scopeMarks) }

// Get looks up the cached entry for the unordered pair {a, b}.
func (c *Cache) Get(a, b arena.ID) (Entry, bool) {
	e, ok := c.live[key(a, b)]

	return e, ok
}

// Put installs (or overwrites) the entry for the unordered pair {a, b} at
// the current scope level.
func (c *Cache) Put(a, b arena.ID, kind EntryKind, boolCell arena.ID) {
	k := key(a, b)
	e := Entry{Kind: kind, Cell: boolCell, level: c.ContextLevel()}
	c.live[k] = e
	c.log = append(c.log, record{k, e})
}

// Push opens a new cache scope.
func (c *Cache) Push() {
	c.scopeMarks = append(c.scopeMarks, len(c.log))
}

// Pop discards every entry installed since the most recently opened scope
// that is still open, restoring any entry a later insertion shadowed.  This
// is the cache-side half of the synchronised push/pop stack of spec §5: it
// MUST be called in lock-step with the SMT gateway's own Pop, and strictly
// before it (spec §9's second open question), otherwise the gateway would
// retain assertions the cache claims to have discarded.
func (c *Cache) Pop() {
	if len(c.scopeMarks) == 0 {
		panic("cache.Pop: no open scope")
	}

	mark := c.scopeMarks[len(c.scopeMarks)-1]
	c.scopeMarks = c.scopeMarks[:len(c.scopeMarks)-1]

	// Replay is required (rather than a single truncation) because a key
	// may have been written more than once across the popped region, and
	// an older, still-live write beneath the mark must be restored.
	undone := c.log[mark:]
	c.log = c.log[:mark]

	// Rebuild the live map for every key touched since mark, using the
	// surviving log: this handles shadowed writes without needing a
	// separate undo stack per key.
	touched := map[pairKey]bool{}
	for _, r := range undone {
		touched[r.key] = true
	}

	for k := range touched {
		delete(c.live, k)
	}

	for _, r := range c.log {
		if touched[r.key] {
			c.live[r.key] = r.entry
		}
	}
}

// Snapshot is a handle identifying a point in the cache's history.  A
// Snapshot is safely recoverable on any Cache built from the same sequence
// of operations up to that point, enabling the speculative exploration of
// search branches spec §4.3 calls for.
type Snapshot struct {
	logLen     int
	scopeMarks []int
}

// Snapshot captures the current cache history position.
func (c *Cache) Snapshot() Snapshot {
	return Snapshot{len(c.log), append([]int(nil), c.scopeMarks...)}
}

// Recover restores the cache to a previously captured Snapshot.
func (c *Cache) Recover(s Snapshot) {
	c.log = c.log[:s.logLen]
	c.scopeMarks = append([]int(nil), s.scopeMarks...)
	c.live = map[pairKey]Entry{}

	for _, r := range c.log {
		c.live[r.key] = r.entry
	}
}
