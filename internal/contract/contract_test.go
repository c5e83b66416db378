// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package contract

import (
	"errors"
	"testing"
)

func TestAssertDoesNotPanicWhenTrue(t *testing.T) {
	Assert(true, "should never fire")
}

func TestAssertPanicsWhenFalse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Assert(false, ...) did not panic")
		}
	}()
	Assert(false, "expected failure: %d", 42)
}

func TestMustDoesNotPanicOnNilError(t *testing.T) {
	Must(nil, "should never fire")
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must(err, ...) did not panic")
		}
	}()
	Must(errors.New("boom"), "operation failed")
}
