// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package contract holds the harness's invariant checks. A failed
// check means the harness itself is broken (a bad build, a corrupted
// pipe the OS handed us, a violated precondition) rather than
// anything a test author did, so it panics instead of returning an
// error a caller might paper over.
package contract

import "fmt"

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("waypoint: contract violation: "+format, args...))
	}
}

// Must panics if err is non-nil. It is used at call sites where an
// error from the OS is not expected to ever occur given the harness's
// own setup (e.g. reading from a pipe descriptor the harness itself
// just created).
func Must(err error, format string, args ...interface{}) {
	if err != nil {
		panic(fmt.Sprintf("waypoint: contract violation: "+format+": %v", append(args, err)...))
	}
}
