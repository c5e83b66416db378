// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import (
	"encoding/binary"

	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
)

// Code identifies the kind of a response frame.
type Code uint8

const (
	// AssertionResult reports the outcome of a single assertion.
	AssertionResult Code = iota
	// TestFinished marks normal completion of a test body.
	TestFinished
	// TestAbortedBeforeFinish marks a deliberate early stop of a test
	// body (not a crash).
	TestAbortedBeforeFinish
)

// responseHeaderSize is the fixed-size portion of a response frame:
// code(1) + testID(8) + assertionPassed(1) + assertionIndex(8) + msgLen(8).
const responseHeaderSize = 1 + 8 + 1 + 8 + 8

// Response is one frame on the response pipe.
type Response struct {
	Code            Code
	TestID          uint64
	AssertionPassed bool
	AssertionIndex  uint64
	Message         string
}

// WriteResponse serializes r onto out. AssertionPassed and
// AssertionIndex are written unconditionally (they are meaningful only
// when Code == AssertionResult, but the header has a fixed layout so
// the reader never needs to branch before it knows which bytes to
// read).
func WriteResponse(out *pipeio.InputEnd, r Response) {
	msg := []byte(r.Message)

	header := make([]byte, responseHeaderSize)
	header[0] = byte(r.Code)
	binary.BigEndian.PutUint64(header[1:9], r.TestID)
	if r.AssertionPassed {
		header[9] = 1
	}
	binary.BigEndian.PutUint64(header[10:18], r.AssertionIndex)
	binary.BigEndian.PutUint64(header[18:26], uint64(len(msg)))

	out.WriteAll(header)
	if len(msg) > 0 {
		out.WriteAll(msg)
	}
}

// ReadResponse reads one frame from in. ok is false if the peer closed
// the pipe before a full frame arrived.
func ReadResponse(in *pipeio.OutputEnd) (r Response, ok bool) {
	header := make([]byte, responseHeaderSize)
	if err := in.ReadExactly(header); err != nil {
		return Response{}, false
	}

	r.Code = Code(header[0])
	r.TestID = binary.BigEndian.Uint64(header[1:9])
	r.AssertionPassed = header[9] != 0
	r.AssertionIndex = binary.BigEndian.Uint64(header[10:18])
	msgLen := binary.BigEndian.Uint64(header[18:26])

	if msgLen > 0 {
		msg := make([]byte, msgLen)
		if err := in.ReadExactly(msg); err != nil {
			return Response{}, false
		}
		r.Message = string(msg)
	}

	return r, true
}

// commandFrameSize is the size of a command frame: testID(8).
const commandFrameSize = 8

// WriteCommand writes a command frame instructing the runner to
// execute testID next.
func WriteCommand(out *pipeio.InputEnd, testID uint64) {
	buf := make([]byte, commandFrameSize)
	binary.BigEndian.PutUint64(buf, testID)
	out.WriteAll(buf)
}

// ReadCommand reads one command frame. ok is false if the supervisor
// closed the command pipe (normal end-of-run signal for the runner).
func ReadCommand(in *pipeio.OutputEnd) (testID uint64, ok bool) {
	buf := make([]byte, commandFrameSize)
	if err := in.ReadExactly(buf); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(buf), true
}
