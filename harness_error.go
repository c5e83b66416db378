// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import "fmt"

// harnessError is the module's own error type for run-level conditions
// recorded in Results rather than in a TestOutcome: a reused TestRun,
// a runner crash or timeout during a test, an abnormal exit after an
// otherwise clean run. It is
// distinct from a contract violation (internal/contract), which
// panics instead because it indicates a broken build or environment
// rather than a recoverable runtime condition.
type harnessError struct {
	message string
}

func newHarnessError(format string, args ...interface{}) *harnessError {
	return &harnessError{message: fmt.Sprintf(format, args...)}
}

func (e *harnessError) Error() string {
	return e.message
}
