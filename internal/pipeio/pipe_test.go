// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pipeio

import (
	"os"
	"testing"
)

func newPair(t *testing.T) (*InputEnd, *OutputEnd) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	return NewInputEnd(w), NewOutputEnd(r)
}

func TestWriteAllThenReadExactly(t *testing.T) {
	in, out := newPair(t)
	defer in.Close()
	defer out.Close()

	payload := make([]byte, 5000)
	for i := range payload {
		payload[i] = byte(i)
	}

	go in.WriteAll(payload)

	got := make([]byte, len(payload))
	if err := out.ReadExactly(got); err != nil {
		t.Fatalf("ReadExactly: %v", err)
	}

	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], payload[i])
		}
	}
}

func TestReadExactlyReportsPipeClosed(t *testing.T) {
	in, out := newPair(t)
	defer out.Close()

	in.WriteAll([]byte("short"))
	in.Close()

	buf := make([]byte, 100)
	if err := out.ReadExactly(buf); err != ErrPipeClosed {
		t.Errorf("ReadExactly = %v, want %v", err, ErrPipeClosed)
	}
}

func TestReadExactlyExactBoundarySucceeds(t *testing.T) {
	in, out := newPair(t)
	defer out.Close()

	msg := []byte("exactly-ten!")
	in.WriteAll(msg)
	in.Close()

	buf := make([]byte, len(msg))
	if err := out.ReadExactly(buf); err != nil {
		t.Fatalf("ReadExactly: %v", err)
	}
	if string(buf) != string(msg) {
		t.Errorf("ReadExactly = %q, want %q", buf, msg)
	}
}

func TestReadAtMostReturnsZeroAtEOF(t *testing.T) {
	in, out := newPair(t)
	in.Close()
	defer out.Close()

	buf := make([]byte, 16)
	if n := out.ReadAtMost(buf); n != 0 {
		t.Errorf("ReadAtMost at EOF = %d, want 0", n)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	in, out := newPair(t)
	defer out.Close()

	if err := in.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
