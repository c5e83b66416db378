// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import "testing"

func TestTestRunAssignsDenseIDsInRegistrationOrder(t *testing.T) {
	tr := &TestRun{}
	g1 := tr.Group("one")
	g2 := tr.Group("two")

	tr.Test(g1, "a").Run(func(*Context) {})
	tr.Test(g2, "b").Run(func(*Context) {})
	tr.Test(g1, "c").Run(func(*Context) {})

	if len(tr.tests) != 3 {
		t.Fatalf("len(tr.tests) = %d, want 3", len(tr.tests))
	}
	for i, tc := range tr.tests {
		if tc.id != uint64(i) {
			t.Errorf("tests[%d].id = %d, want %d", i, tc.id, i)
		}
	}

	if got, want := g1.testIDs, []uint64{0, 2}; !equalUint64s(got, want) {
		t.Errorf("g1.testIDs = %v, want %v", got, want)
	}
	if got, want := g2.testIDs, []uint64{1}; !equalUint64s(got, want) {
		t.Errorf("g2.testIDs = %v, want %v", got, want)
	}
}

func TestTestByIDOutOfRangeReturnsNil(t *testing.T) {
	tr := &TestRun{}
	tr.Group("g")
	if tc := tr.testByID(0); tc != nil {
		t.Errorf("testByID(0) = %v on an empty registry, want nil", tc)
	}
}

func TestGroupAfterConsumedPanics(t *testing.T) {
	tr := &TestRun{consumed: true}
	defer func() {
		if recover() == nil {
			t.Error("Group on a consumed TestRun did not panic")
		}
	}()
	tr.Group("too late")
}

func equalUint64s(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
