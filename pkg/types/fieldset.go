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
package types

import "github.com/bits-and-blooms/bitset"

// FieldUniverse assigns each distinct field name occurring across two
// Record field lists a dense bit position, so that the "which fields has
// this side presented" tracking the record equality rule needs (spec §4.4)
// can ride on a bitset.BitSet instead of a map[string]bool.
type FieldUniverse struct {
	index map[string]uint
}

// NewFieldUniverse builds the combined universe of a and b's field names.
func NewFieldUniverse(a, b []Field) *FieldUniverse {
	u := &FieldUniverse{index: make(map[string]uint, len(a)+len(b))}

	for _, f := range a {
		u.intern(f.Name)
	}

	for _, f := range b {
		u.intern(f.Name)
	}

	return u
}

func (u *FieldUniverse) intern(name string) uint {
	if i, ok := u.index[name]; ok {
		return i
	}

	i := uint(len(u.index))
	u.index[name] = i

	return i
}

// Len returns the number of distinct field names in the universe.
func (u *FieldUniverse) Len() int { return len(u.index) }

// FieldSet is a dense bitset of field positions within a FieldUniverse.
type FieldSet struct {
	bits *bitset.BitSet
	u    *FieldUniverse
}

// NewFieldSet constructs an empty FieldSet over u.
func (u *FieldUniverse) NewFieldSet() *FieldSet {
	return &FieldSet{bits: bitset.New(uint(u.Len())), u: u}
}

// Add marks name as present in the set.
func (s *FieldSet) Add(name string) {
	s.bits.Set(s.u.intern(name))
}

// Has reports whether name was previously Add-ed.
func (s *FieldSet) Has(name string) bool {
	i, ok := s.u.index[name]
	if !ok {
		return false
	}

	return s.bits.Test(i)
}
