// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"fmt"

	"github.com/WarjoyPuddle/waypoint/internal/launcher"
)

// Main is the single entry point a test binary built against this
// package should call from its own main function. It decides, purely
// from the environment, whether this process is the original
// invocation (supervisor mode: spawn a runner, drive every test, print
// a summary) or the child the supervisor spawned a moment ago (runner
// mode: service commands over the inherited pipes and never return).
//
// Main always calls os.Exit itself in runner mode, so the int it
// returns only matters in supervisor mode; callers should still pass
// it to os.Exit uniformly, per the doc.go example.
func Main(tr *TestRun, opts ...Option) int {
	if launcher.IsRunnerMode() {
		runAsRunner(tr)
		panic("unreachable: runAsRunner must terminate the process itself")
	}

	results := RunAllTests(tr, opts...)
	printSummary(results)

	if !results.Success() {
		return 1
	}
	return 0
}

// printSummary writes a one-line-per-test report to stdout, in the
// same vein as the teacher's command-line summary lines: enough detail
// to locate a failure without pulling in a templating or report-
// rendering dependency, which this package deliberately leaves to
// whatever calls it.
func printSummary(results *Results) {
	for i := 0; i < results.TestCount(); i++ {
		o := results.TestOutcome(i)
		fmt.Printf("[%s] %s.%s\n", o.Status, o.GroupName, o.Name)
		for _, a := range o.Assertions {
			if !a.Passed {
				fmt.Printf("    assertion #%d failed: %s\n", a.Index, a.Message)
			}
		}
	}
	for i := 0; i < results.ErrorCount(); i++ {
		fmt.Printf("[harness error] %s\n", results.Error(i))
	}
}
