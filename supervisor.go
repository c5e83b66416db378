// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"bytes"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
	"github.com/WarjoyPuddle/waypoint/internal/launcher"
	"github.com/WarjoyPuddle/waypoint/internal/pollguard"
	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

// RunAllTests seals tr, spawns a single runner child for the whole
// run, and executes every registered test in registration order,
// isolating each from the others behind the child's exit status: a
// crash or fatal signal in one test stops the run from that point on
// and marks every unexecuted test Crashed, but never corrupts or loses
// the outcomes already collected.
//
// A TestRun may only be passed to RunAllTests (or Main) once; passing
// the same instance a second time returns a Results whose only content
// is a harness error, without running anything.
func RunAllTests(tr *TestRun, opts ...Option) *Results {
	contract.Assert(tr != nil, "RunAllTests requires a non-nil TestRun")

	if tr.consumed {
		return &Results{errs: []*harnessError{newHarnessError(reuseErrorMessage)}}
	}
	seal(tr)
	tr.consumed = true

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	child := launcher.Launch()
	guard := pollguard.New(child.ResponseRead(), child.StdoutRead(), child.StderrRead())
	defer guard.Close()

	outcomes := make([]TestOutcome, len(tr.tests))
	var errs []*harnessError
	runnerGone := false

	for _, tc := range tr.tests {
		if runnerGone {
			outcomes[tc.id] = TestOutcome{Name: tc.name, GroupName: tc.group.Name(), Status: Crashed}
			continue
		}

		wire.WriteCommand(child.CommandWrite(), tc.id)

		outcome, harnessErr := driveOneTest(tc, child, guard, cfg)
		outcomes[tc.id] = outcome
		if harnessErr != nil {
			errs = append(errs, harnessErr)
		}
		if outcome.Status == Crashed || outcome.Status == TimedOut {
			runnerGone = true
		}
	}

	var result launcher.WaitResult
	if !runnerGone {
		child.CommandWrite().Close()

		// The final drain and the process reap are independent: the
		// runner's pipes and its exit are both downstream of the same
		// os.Exit call, but nothing requires draining to observe EOF
		// before wait(2) observes the exit, so the two are run
		// concurrently instead of forcing an arbitrary order between them.
		var g errgroup.Group
		g.Go(func() error {
			drainRemaining(child, guard, cfg)
			return nil
		})
		g.Go(func() error {
			result = child.Wait()
			return nil
		})
		_ = g.Wait()
	} else {
		result = child.Wait()
	}

	if !runnerGone && (result.Signaled || result.ExitCode != 0) {
		errs = append(errs, newHarnessError(
			"runner process %d exited abnormally after completing its assigned tests (signaled=%v signal=%d exitCode=%d)",
			child.Pid(), result.Signaled, result.Signal, result.ExitCode))
	}

	return &Results{outcomes: outcomes, errs: errs, testN: len(tr.tests)}
}

// driveOneTest sends no commands itself; the caller has already
// written the command frame. It drains the response/stdout/stderr
// pipes until a terminal frame for tc arrives, the runner's pipes all
// close, or the optional per-test timeout elapses.
func driveOneTest(tc *testCase, child *launcher.ChildProcess, guard *pollguard.Guard, cfg runConfig) (outcome TestOutcome, harnessErr *harnessError) {
	outcome = TestOutcome{Name: tc.name, GroupName: tc.group.Name()}

	var stdout, stderr bytes.Buffer
	var assertions []AssertionOutcome
	buf := make([]byte, cfg.ioBufferSize)

	var timedOut chan struct{}
	if cfg.perTestTimeout > 0 {
		timedOut = make(chan struct{})
		timer := time.AfterFunc(cfg.perTestTimeout, func() {
			close(timedOut)
			child.Kill()
		})
		defer timer.Stop()
	}

	finish := func(status Status) (TestOutcome, *harnessError) {
		outcome.StdOut = stdout.Bytes()
		outcome.StdErr = stderr.Bytes()
		outcome.Assertions = assertions
		outcome.Status = status
		return outcome, nil
	}

	for {
		ready, ok := guard.Poll()
		if !ok {
			if timedOut != nil {
				select {
				case <-timedOut:
					out, _ := finish(TimedOut)
					return out, newHarnessError("test %q exceeded its %s timeout", tc.name, cfg.perTestTimeout)
				default:
				}
			}

			out, _ := finish(Crashed)
			if alive, probeErr := probeAlive(child.Pid()); probeErr != nil {
				return out, probeErr
			} else if alive {
				return out, newHarnessError(
					"runner process %d appeared to still be running immediately after its pipes closed during test %q",
					child.Pid(), tc.name)
			}
			return out, newHarnessError(
				"runner process %d exited unexpectedly during test %q", child.Pid(), tc.name)
		}

		// The runner flushes stdout/stderr before emitting a response
		// frame, so a response arriving in the same poll batch as pending
		// output is a barrier: draining stdout/stderr first is what keeps
		// a test's trailing output from being read after its terminal
		// frame has already ended the loop and attributed to whichever
		// test runs next.
		for _, ep := range ready {
			switch ep {
			case pollguard.StdOutput:
				n := child.StdoutRead().ReadAtMost(buf)
				stdout.Write(buf[:n])
			case pollguard.StdError:
				n := child.StderrRead().ReadAtMost(buf)
				stderr.Write(buf[:n])
			}
		}

		for _, ep := range ready {
			if ep != pollguard.Response {
				continue
			}
			resp, ok := wire.ReadResponse(child.ResponseRead())
			if !ok {
				out, _ := finish(Crashed)
				return out, newHarnessError(
					"runner process %d closed its response pipe mid-frame during test %q", child.Pid(), tc.name)
			}
			switch resp.Code {
			case wire.AssertionResult:
				assertions = append(assertions, AssertionOutcome{
					Index:   resp.AssertionIndex,
					Passed:  resp.AssertionPassed,
					Message: resp.Message,
				})
			case wire.TestFinished, wire.TestAbortedBeforeFinish:
				return finish(statusFromAssertions(assertions))
			}
		}
	}
}

// statusFromAssertions derives a test's terminal status from the
// assertions it recorded before finishing (normally or via Abort): any
// failing assertion fails the test, regardless of how many passed.
func statusFromAssertions(assertions []AssertionOutcome) Status {
	for _, a := range assertions {
		if !a.Passed {
			return Failed
		}
	}
	return Passed
}

// drainRemaining reads and discards whatever the runner still has
// buffered on its three pipes after the command pipe has been closed,
// so that Wait does not deadlock against a runner blocked writing to a
// full pipe the supervisor has stopped servicing. Like driveOneTest, it
// drains stdout/stderr ahead of the response pipe within each batch.
func drainRemaining(child *launcher.ChildProcess, guard *pollguard.Guard, cfg runConfig) {
	buf := make([]byte, cfg.ioBufferSize)
	for {
		ready, ok := guard.Poll()
		if !ok {
			return
		}

		for _, ep := range ready {
			switch ep {
			case pollguard.StdOutput:
				child.StdoutRead().ReadAtMost(buf)
			case pollguard.StdError:
				child.StderrRead().ReadAtMost(buf)
			}
		}

		for _, ep := range ready {
			if ep != pollguard.Response {
				continue
			}
			if _, ok := wire.ReadResponse(child.ResponseRead()); !ok {
				return
			}
		}
	}
}

// probeAlive is the liveness safety check run before a pipe-closed
// condition is trusted at face value: gopsutil is asked directly
// whether the pid still exists, since a misbehaving or heavily loaded
// kernel could in principle report hang-up on every descriptor before
// the process has actually exited.
func probeAlive(pid int) (alive bool, harnessErr *harnessError) {
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return false, newHarnessError("liveness probe for pid %d failed: %v", pid, err)
	}
	return exists, nil
}
