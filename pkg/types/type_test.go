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

import "testing"

func Test_Comparable_Scalars(t *testing.T) {
	if !NewBool().Comparable(NewBool()) {
		t.Error("Bool should be comparable with Bool")
	}

	if NewBool().Comparable(NewInt()) {
		t.Error("Bool should not be comparable with Int")
	}
}

func Test_Comparable_Unknown(t *testing.T) {
	set := NewFinSet(NewInt())

	if !NewUnknown().Comparable(set) {
		t.Error("Unknown should be comparable with anything")
	}

	if !set.Comparable(NewUnknown()) {
		t.Error("Comparable should be symmetric for Unknown")
	}
}

func Test_Comparable_EmptySet(t *testing.T) {
	empty := NewFinSet(NewUnknown())
	ints := NewFinSet(NewInt())

	if !empty.Comparable(ints) {
		t.Error("FinSet(Unknown) should be comparable with FinSet(Int)")
	}

	if !empty.IsEmptySet() {
		t.Error("FinSet(Unknown) should report as the empty-set marker")
	}

	if ints.IsEmptySet() {
		t.Error("FinSet(Int) should not report as the empty-set marker")
	}
}

func Test_Comparable_Tuple_LengthMismatch(t *testing.T) {
	a := NewTuple([]Type{NewInt(), NewBool()})
	b := NewTuple([]Type{NewInt()})

	if a.Comparable(b) {
		t.Error("tuples of differing length should be incomparable")
	}
}

func Test_Comparable_Record_MissingField(t *testing.T) {
	a := NewRecord([]Field{{"foo", NewBool()}})
	b := NewRecord([]Field{{"foo", NewBool()}, {"bar", NewInt()}})

	if !a.Comparable(b) {
		t.Error("records with a missing field should still be comparable (inequality is forced at the instance level)")
	}
}

func Test_Comparable_Record_ConflictingFieldType(t *testing.T) {
	a := NewRecord([]Field{{"foo", NewBool()}})
	b := NewRecord([]Field{{"foo", NewInt()}})

	if a.Comparable(b) {
		t.Error("records with a conflicting common-field type should be incomparable")
	}
}

func Test_Signature_SharedByComparableScalars(t *testing.T) {
	if NewInt().Signature() != NewInt().Signature() {
		t.Error("identical scalar types must share a signature")
	}
}

func Test_Signature_DistinguishesContainers(t *testing.T) {
	a := NewFinSet(NewInt())
	b := NewSeq(NewInt())

	if a.Signature() == b.Signature() {
		t.Error("FinSet and Seq of the same element type must have distinct signatures")
	}
}

func Test_Type_Equal_FieldOrderMatters(t *testing.T) {
	a := NewRecord([]Field{{"foo", NewBool()}, {"bar", NewInt()}})
	b := NewRecord([]Field{{"bar", NewInt()}, {"foo", NewBool()}})

	if a.Equal(b) {
		t.Error("Equal should be sensitive to declared field order")
	}
}

func Test_Type_String(t *testing.T) {
	fs := NewFinSet(NewInt())
	if fs.String() != "FinSet(Int)" {
		t.Errorf("unexpected String(): %s", fs.String())
	}
}
