// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pipeio wraps the raw pipe descriptors the harness passes
// between the supervisor and the runner with the two narrow
// operations the wire protocol actually needs: write-all-or-loop, and
// read-exactly-or-report-peer-closed. Each endpoint exclusively owns
// one *os.File and closes it exactly once.
package pipeio

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
)

// ErrPipeClosed is returned by ReadExactly when the peer closed its
// end of the pipe before the requested number of bytes arrived. This
// is the harness's signal that the runner process crashed or exited.
var ErrPipeClosed = errors.New("pipeio: peer closed the pipe")

// InputEnd is the writable end of a pipe. It is exclusively owned by
// whichever process holds it; Close is idempotent.
type InputEnd struct {
	f        *os.File
	once     sync.Once
	closeErr error
}

// NewInputEnd wraps f as a writable pipe endpoint. f becomes exclusively
// owned by the returned InputEnd.
func NewInputEnd(f *os.File) *InputEnd {
	return &InputEnd{f: f}
}

// Fd returns the underlying OS descriptor number.
func (e *InputEnd) Fd() uintptr {
	return e.f.Fd()
}

// Close closes the underlying descriptor. It is safe to call more than
// once; only the first call has any effect.
func (e *InputEnd) Close() error {
	e.once.Do(func() {
		e.closeErr = e.f.Close()
	})
	return e.closeErr
}

// WriteAll writes every byte of buf, looping over short writes. Any
// error other than the write completing is treated as a contract
// violation: the pipes this harness writes to are ones it created
// itself moments earlier, so a write failure other than the peer
// having gone away indicates a broken environment, not a condition the
// protocol needs to negotiate around.
func (e *InputEnd) WriteAll(buf []byte) {
	written := 0
	for written < len(buf) {
		n, err := e.f.Write(buf[written:])
		contract.Must(err, "write to pipe failed")
		written += n
	}
}

// OutputEnd is the readable end of a pipe. It is exclusively owned by
// whichever process holds it; Close is idempotent.
type OutputEnd struct {
	f        *os.File
	once     sync.Once
	closeErr error
}

// NewOutputEnd wraps f as a readable pipe endpoint. f becomes
// exclusively owned by the returned OutputEnd.
func NewOutputEnd(f *os.File) *OutputEnd {
	return &OutputEnd{f: f}
}

// Fd returns the underlying OS descriptor number.
func (e *OutputEnd) Fd() uintptr {
	return e.f.Fd()
}

// Close closes the underlying descriptor. It is safe to call more than
// once; only the first call has any effect.
func (e *OutputEnd) Close() error {
	e.once.Do(func() {
		e.closeErr = e.f.Close()
	})
	return e.closeErr
}

// ReadExactly reads len(buf) bytes, looping over short reads. If the
// peer closes its end before the requested bytes arrive, it returns
// ErrPipeClosed. Any other error is a contract violation.
func (e *OutputEnd) ReadExactly(buf []byte) error {
	read := 0
	for read < len(buf) {
		n, err := e.f.Read(buf[read:])
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				if read < len(buf) {
					return ErrPipeClosed
				}
				break
			}
			contract.Must(err, "read from pipe failed")
		}
	}
	return nil
}

// ReadAtMost performs a single underlying read into buf, returning the
// number of bytes read (which may be 0 at EOF). It is used to drain
// stdout/stderr opportunistically without blocking for a full buffer.
func (e *OutputEnd) ReadAtMost(buf []byte) int {
	n, err := e.f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		contract.Must(err, "read from pipe failed")
	}
	return n
}
