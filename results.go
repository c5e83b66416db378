// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import "github.com/WarjoyPuddle/waypoint/internal/contract"

// Status is the terminal state of a single test.
type Status int

const (
	// Passed means a terminal frame (normal completion or Abort) was
	// observed for the test and every recorded assertion passed.
	Passed Status = iota
	// Failed means a terminal frame (normal completion or Abort) was
	// observed for the test but at least one recorded assertion did
	// not pass.
	Failed
	// Crashed means the runner process ended before a terminal frame
	// was observed for this test, either while running it or before it
	// was ever dispatched (every test after the run's first crash or
	// timeout).
	Crashed
	// TimedOut means a per-test wall-clock timeout elapsed before a
	// terminal frame was observed for this test.
	TimedOut
)

// String renders the status the way harness log lines and test
// failure messages refer to it.
func (s Status) String() string {
	switch s {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	case Crashed:
		return "Crashed"
	case TimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// AssertionOutcome records one AssertionResult frame observed for a test.
type AssertionOutcome struct {
	Index   uint64
	Passed  bool
	Message string
}

// TestOutcome is the immutable record of one executed test.
type TestOutcome struct {
	Name       string
	GroupName  string
	StdOut     []byte
	StdErr     []byte
	Assertions []AssertionOutcome
	Status     Status
}

// Results is the immutable aggregate outcome of a RunAllTests call.
type Results struct {
	outcomes []TestOutcome
	errs     []*harnessError
	testN    int
}

// Success reports whether every executed test passed and no
// harness-level errors were recorded.
func (r *Results) Success() bool {
	if len(r.errs) > 0 {
		return false
	}
	for _, o := range r.outcomes {
		if o.Status != Passed {
			return false
		}
	}
	return true
}

// ErrorCount returns the number of harness-level errors recorded.
func (r *Results) ErrorCount() int {
	return len(r.errs)
}

// Error returns the i'th harness-level error string. Accessing an
// out-of-range index is a contract violation, not a recoverable error:
// callers are expected to check ErrorCount first.
func (r *Results) Error(i int) string {
	contract.Assert(i >= 0 && i < len(r.errs), "error index %d out of range [0,%d)", i, len(r.errs))
	return r.errs[i].Error()
}

// TestCount returns the number of registered tests, regardless of how
// many actually executed (a crash can leave later tests unexecuted).
func (r *Results) TestCount() int {
	return r.testN
}

// TestOutcome returns the outcome for the i'th registered test.
// Accessing an out-of-range index is a contract violation.
func (r *Results) TestOutcome(i int) TestOutcome {
	contract.Assert(i >= 0 && i < len(r.outcomes), "test outcome index %d out of range [0,%d)", i, len(r.outcomes))
	return r.outcomes[i]
}
