// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import "testing"

func TestNewHarnessErrorFormats(t *testing.T) {
	err := newHarnessError("pid %d vanished", 123)
	if got, want := err.Error(), "pid 123 vanished"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
