// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"os"
	"testing"

	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

func newTestContext(t *testing.T, testID uint64) (*Context, *pipeio.OutputEnd) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	return &Context{testID: testID, resp: pipeio.NewInputEnd(w)}, pipeio.NewOutputEnd(r)
}

func TestContextRecordReturnsPassedAndEmitsFrame(t *testing.T) {
	ctx, out := newTestContext(t, 9)
	defer ctx.resp.Close()
	defer out.Close()

	if got := ctx.Record(true, "ok"); !got {
		t.Error("Record(true, ...) = false")
	}
	resp, ok := wire.ReadResponse(out)
	if !ok {
		t.Fatal("ReadResponse reported the pipe closed")
	}
	if resp.Code != wire.AssertionResult || !resp.AssertionPassed || resp.AssertionIndex != 0 || resp.TestID != 9 {
		t.Errorf("unexpected first frame: %+v", resp)
	}

	if got := ctx.Record(false, "not ok"); got {
		t.Error("Record(false, ...) = true")
	}
	resp2, ok := wire.ReadResponse(out)
	if !ok {
		t.Fatal("ReadResponse reported the pipe closed")
	}
	if resp2.AssertionPassed || resp2.AssertionIndex != 1 {
		t.Errorf("unexpected second frame: %+v", resp2)
	}
}

func TestContextAbortPanicsWithAbortSignal(t *testing.T) {
	ctx, out := newTestContext(t, 1)
	defer ctx.resp.Close()
	defer out.Close()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Abort did not panic")
		}
		abort, ok := r.(abortSignal)
		if !ok {
			t.Fatalf("recovered value is %T, want abortSignal", r)
		}
		if abort.reason != "stop here" {
			t.Errorf("abort.reason = %q, want %q", abort.reason, "stop here")
		}
	}()
	ctx.Abort("stop here")
}
