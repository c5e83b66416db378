// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"log"
	"os"

	"github.com/WarjoyPuddle/waypoint/internal/launcher"
	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

// runAsRunner is the body of the child process: it rebuilds the same
// registry the supervisor built (so test IDs line up), then services
// command frames one at a time until the supervisor closes the
// command pipe. It never returns normally; it always terminates the
// process itself, because the only way the supervisor can tell "runner
// exited" apart from "runner still alive but idle" is by the pipes
// actually closing.
func runAsRunner(tr *TestRun) {
	commandFd, responseFd := launcher.ConsumeDescriptors()

	cmdIn := pipeio.NewOutputEnd(os.NewFile(uintptr(commandFd), "waypoint-command"))
	respOut := pipeio.NewInputEnd(os.NewFile(uintptr(responseFd), "waypoint-response"))

	seal(tr)

	for {
		testID, ok := wire.ReadCommand(cmdIn)
		if !ok {
			// The supervisor closed the command pipe: every test has been
			// dispatched and there is nothing left to wait for.
			os.Exit(0)
		}

		runOneTest(tr, testID, respOut)
	}
}

// runOneTest invokes the body of the test identified by testID,
// recovering from both a deliberate Abort and an uncaught panic so
// that a single bad test body cannot prevent the frame it owes the
// supervisor (or, for a genuine panic, the exit code the supervisor
// needs) from being delivered.
func runOneTest(tr *TestRun, testID uint64, respOut *pipeio.InputEnd) {
	tc := tr.testByID(testID)
	if tc == nil {
		log.Printf("waypoint: runner received unknown test id %d; exiting", testID)
		os.Exit(2)
	}

	ctx := &Context{testID: testID, resp: respOut}

	func() {
		defer func() {
			r := recover()
			if r == nil {
				wire.WriteResponse(respOut, wire.Response{Code: wire.TestFinished, TestID: testID})
				return
			}
			if abort, isAbort := r.(abortSignal); isAbort {
				wire.WriteResponse(respOut, wire.Response{
					Code:    wire.TestAbortedBeforeFinish,
					TestID:  testID,
					Message: abort.reason,
				})
				return
			}

			// A genuine panic: log it to the runner's stderr (which the
			// supervisor is draining) and exit nonzero without sending any
			// terminal frame. The supervisor observes the response pipe
			// closing mid-test and records Crashed.
			log.Printf("waypoint: test %q panicked: %v", tc.name, r)
			os.Exit(2)
		}()

		tc.body(ctx)
	}()
}
