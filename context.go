// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

// Context is the per-test handle passed to a test body. It tracks the
// test's assertion counter and owns the runner's end of the response
// pipe, emitting one frame per call to Record.
//
// Record and Abort are the only two primitives this package defines;
// an assertion library with matchers, require-style early exit
// policies, or formatted diagnostics is intentionally not part of this
// package and would be built on top of these two calls.
type Context struct {
	testID         uint64
	assertionIndex uint64
	resp           *pipeio.InputEnd
}

// abortSignal is panicked by Abort and recovered specifically by the
// runner loop, which distinguishes it from an uncaught panic (treated
// as a crash) by emitting a TestAbortedBeforeFinish frame instead of
// letting the process exit nonzero.
type abortSignal struct {
	reason string
}

// Record reports the outcome of one assertion: it assigns the next
// dense assertion index, emits an AssertionResult frame carrying
// passed and message, and returns passed unchanged so callers can
// write `if !ctx.Record(cond, "want x got y") { return }`.
func (c *Context) Record(passed bool, message string) bool {
	idx := c.assertionIndex
	c.assertionIndex++

	wire.WriteResponse(c.resp, wire.Response{
		Code:            wire.AssertionResult,
		TestID:          c.testID,
		AssertionPassed: passed,
		AssertionIndex:  idx,
		Message:         message,
	})

	return passed
}

// Abort ends the test body immediately, marking it finished with
// TestAbortedBeforeFinish rather than TestFinished. Unlike a panic in
// the test body, this is not treated as a crash.
func (c *Context) Abort(reason string) {
	panic(abortSignal{reason: reason})
}
