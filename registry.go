// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import "github.com/WarjoyPuddle/waypoint/internal/contract"

// reuseErrorMessage is the exact harness error text surfaced when a
// TestRun is passed to RunAllTests a second time.
const reuseErrorMessage = "Instance of TestRun cannot be reused"

// registrationFuncs holds every function registered via Register, in
// registration order. It is a package-level, lazily-grown list in the
// same spirit as a lazily-initialized global registry: every test
// file's init() appends to it, and RunAllTests/Main run the whole list
// exactly once against whichever *TestRun they were given.
var registrationFuncs []func(*TestRun)

// Register adds fn to the set of functions that populate every
// TestRun passed to RunAllTests or Main. Test files call this from
// their own init() function.
func Register(fn func(*TestRun)) {
	registrationFuncs = append(registrationFuncs, fn)
}

// Group is a named bucket of tests, created with TestRun.Group before
// any test is registered under it.
type Group struct {
	name    string
	testIDs []uint64
}

// Name returns the group's display name.
func (g *Group) Name() string { return g.name }

// testCase is one registered test: a stable ID, its owning group, a
// display name, and the body the runner invokes.
type testCase struct {
	id    uint64
	group *Group
	name  string
	body  func(*Context)
}

// TestRun is a process-wide registry handle. It is created once per
// process via NewTestRun and must be passed to RunAllTests or Main
// exactly once; a second pass fails with a harness error rather than
// running anything.
type TestRun struct {
	groups   []*Group
	tests    []*testCase
	consumed bool
}

// NewTestRun creates a fresh, unconsumed registry handle.
func NewTestRun() *TestRun {
	return &TestRun{}
}

// Group creates a new named group and returns a handle to it. Tests
// are registered under a group with Test.
func (tr *TestRun) Group(name string) *Group {
	contract.Assert(!tr.consumed, "cannot register a group after the registry has been sealed")
	g := &Group{name: name}
	tr.groups = append(tr.groups, g)
	return g
}

// testBuilder is returned by TestRun.Test; calling Run on it completes
// the registration of one test case.
type testBuilder struct {
	tr    *TestRun
	group *Group
	name  string
}

// Test begins registering a new test named name under g. Call Run on
// the returned builder with the test body to complete registration.
func (tr *TestRun) Test(g *Group, name string) *testBuilder {
	contract.Assert(!tr.consumed, "cannot register a test after the registry has been sealed")
	return &testBuilder{tr: tr, group: g, name: name}
}

// Run completes registration of the test, assigning it the next dense
// test ID in registration order.
func (b *testBuilder) Run(body func(*Context)) {
	id := uint64(len(b.tr.tests))
	tc := &testCase{id: id, group: b.group, name: b.name, body: body}
	b.tr.tests = append(b.tr.tests, tc)
	b.group.testIDs = append(b.group.testIDs, id)
}

// seal runs every registered registration function against tr exactly
// once, building the in-memory test table. It is called identically
// by the supervisor and by the runner so that test IDs agree between
// the two processes.
func seal(tr *TestRun) {
	for _, fn := range registrationFuncs {
		fn(tr)
	}
}

// testByID returns the testCase with the given ID, or nil if none
// exists.
func (tr *TestRun) testByID(id uint64) *testCase {
	if id >= uint64(len(tr.tests)) {
		return nil
	}
	return tr.tests[id]
}
