// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

/*
Package waypoint runs each registered test in a separate child process
of the test binary itself, so that a crash, a fatal assertion, or
memory corruption in one test cannot take down the supervisor or any
sibling test.

A test binary built against this package behaves in two modes
depending on environment: supervisor mode (the default, when a user
runs the binary directly) and runner mode (entered only in the child
process the supervisor spawns). Both modes are handled by Main, which
every binary using this package should call first, before running any
other setup:

	func main() {
		run := waypoint.NewTestRun()
		os.Exit(waypoint.Main(run))
	}

Tests register themselves from an init() function in their own file by
calling Register with a function that adds groups and tests to the
*TestRun it is given:

	func init() {
		waypoint.Register(func(run *waypoint.TestRun) {
			g := run.Group("arithmetic")
			run.Test(g, "addition is commutative").Run(func(ctx *waypoint.Context) {
				ctx.Record(1+2 == 2+1, "addition should be commutative")
			})
		})
	}

In supervisor mode, Main spawns exactly one runner child for the whole
run, sends it one command per registered test in registration order,
and streams back the runner's stdout/stderr alongside structured
per-assertion responses, draining all three pipes without deadlocking
on back-pressure. In runner mode, the same registration functions run
again (producing an identical registry so test IDs agree) and the
process waits for commands over a pipe the supervisor passed it via
the environment at exec(2) time.

The assertion DSL, report rendering, and CLI argument parsing are
intentionally not part of this package; Context.Record and
Context.Abort are the low-level primitives such a library would be
built on top of.
*/
package waypoint
