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
package cache

import "testing"

func Test_Get_UnorderedPair(t *testing.T) {
	c := New()
	c.Put(3, 7, Eq, 0)

	if _, ok := c.Get(7, 3); !ok {
		t.Fatal("Get should be insensitive to argument order")
	}
}

func Test_Push_Pop_DiscardsNewEntries(t *testing.T) {
	c := New()
	c.Put(1, 2, Eq, 0)
	c.Push()
	c.Put(3, 4, True, 0)

	if _, ok := c.Get(3, 4); !ok {
		t.Fatal("expected (3,4) to be visible before pop")
	}

	c.Pop()

	if _, ok := c.Get(3, 4); ok {
		t.Fatal("expected (3,4) to be discarded after pop")
	}

	if _, ok := c.Get(1, 2); !ok {
		t.Fatal("expected (1,2) to survive the pop (installed before the push)")
	}
}

func Test_Pop_RestoresShadowedEntry(t *testing.T) {
	c := New()
	c.Put(1, 2, True, 0)
	c.Push()
	c.Put(1, 2, False, 0)
	c.Pop()

	e, ok := c.Get(1, 2)
	if !ok || e.Kind != True {
		t.Fatalf("expected the pre-push entry True to be restored, got %v (ok=%v)", e.Kind, ok)
	}
}

func Test_PushPop_RoundTrip_ToDepthZero_IsPointwiseEqual(t *testing.T) {
	c := New()
	c.Put(1, 2, Eq, 0)

	before := c.ContextLevel()
	c.Push()
	c.Put(5, 6, True, 0)
	c.Push()
	c.Put(7, 8, Expr, 99)
	c.Pop()
	c.Pop()

	after := c.ContextLevel()
	if before != after {
		t.Fatalf("expected context level to return to %d, got %d", before, after)
	}

	if _, ok := c.Get(5, 6); ok {
		t.Fatal("expected (5,6) discarded")
	}

	if _, ok := c.Get(7, 8); ok {
		t.Fatal("expected (7,8) discarded")
	}

	if _, ok := c.Get(1, 2); !ok {
		t.Fatal("expected (1,2) to survive both pops")
	}
}

func Test_Snapshot_Recover_Roundtrip(t *testing.T) {
	c := New()
	c.Put(1, 2, Eq, 0)
	snap := c.Snapshot()
	c.Put(3, 4, True, 0)

	c.Recover(snap)

	if _, ok := c.Get(3, 4); ok {
		t.Fatal("expected (3,4) to be gone after recovering an earlier snapshot")
	}

	if _, ok := c.Get(1, 2); !ok {
		t.Fatal("expected (1,2) to survive recovery")
	}
}
