// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pollguard multiplexes readiness across the three pipes the
// supervisor reads from: the response pipe and the runner's
// redirected stdout/stderr. It answers exactly one question per call:
// which of the three have data waiting, or has the runner gone for
// good.
package pollguard

import (
	"golang.org/x/sys/unix"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
)

// Endpoint identifies one of the three pipes the Guard watches.
type Endpoint int

const (
	Response Endpoint = iota
	StdOutput
	StdError
)

const numEndpoints = 3

const readyMask = unix.EPOLLIN | unix.EPOLLERR | unix.EPOLLHUP | unix.EPOLLRDHUP

// Guard watches the response, stdout, and stderr pipes for readiness
// using epoll, mirroring the readable/hung-up distinction the drain
// loop needs: data to read means service it now, hung-up-with-nothing-
// left means the runner is gone for good.
type Guard struct {
	epfd int
	fds  [numEndpoints]int32
}

// New constructs a Guard watching the three given read endpoints. The
// order corresponds to the Endpoint constants.
func New(response, stdout, stderr *pipeio.OutputEnd) *Guard {
	epfd, err := unix.EpollCreate1(0)
	contract.Must(err, "epoll_create1 failed")

	g := &Guard{
		epfd: epfd,
		fds: [numEndpoints]int32{
			Response:  int32(response.Fd()),
			StdOutput: int32(stdout.Fd()),
			StdError:  int32(stderr.Fd()),
		},
	}

	for _, fd := range g.fds {
		ev := unix.EpollEvent{Events: uint32(readyMask), Fd: fd}
		contract.Must(unix.EpollCtl(g.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev), "epoll_ctl(ADD) failed")
	}

	return g
}

// Close releases the underlying epoll descriptor. It does not close
// the watched pipe endpoints; their owners do that.
func (g *Guard) Close() error {
	return unix.Close(g.epfd)
}

// Poll reports which endpoints currently have data to read. It
// returns ok == false exactly when no endpoint has data AND all three
// have reported hang-up: the runner is gone and there is nothing left
// to drain. When nothing is readable and no endpoint has hung up, Poll
// blocks until something changes. When some but not all endpoints have
// hung up and none is readable, epoll reports those hang-ups again on
// every wait, so Poll keeps re-polling without blocking until data
// arrives or the remaining endpoints hang up too.
func (g *Guard) Poll() (ready []Endpoint, ok bool) {
	events := g.wait(0)
	for {
		var readableFd, hungUpFd [numEndpoints]bool
		for _, ev := range events {
			for i, fd := range g.fds {
				if ev.Fd != fd {
					continue
				}
				if ev.Events&unix.EPOLLIN != 0 {
					readableFd[i] = true
				}
				if ev.Events&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
					hungUpFd[i] = true
				}
			}
		}

		anyReadable := false
		allHungUp := true
		for i := 0; i < numEndpoints; i++ {
			if readableFd[i] {
				anyReadable = true
			}
			if !hungUpFd[i] {
				allHungUp = false
			}
		}

		if !anyReadable && allHungUp {
			return nil, false
		}

		if anyReadable {
			for i := 0; i < numEndpoints; i++ {
				if readableFd[i] {
					ready = append(ready, Endpoint(i))
				}
			}
			return ready, true
		}

		// Nothing readable and not every fd hung up. With no hang-up at
		// all, wait(-1) blocks until something changes; a partial hang-up
		// is reported again at once, so this case loops until data
		// arrives or every fd has hung up.
		events = g.wait(-1)
	}
}

// wait calls epoll_wait with the given millisecond timeout (-1 blocks
// indefinitely, 0 returns immediately), retrying on EINTR.
func (g *Guard) wait(timeoutMs int) []unix.EpollEvent {
	events := make([]unix.EpollEvent, numEndpoints)
	for {
		n, err := unix.EpollWait(g.epfd, events, timeoutMs)
		if err == unix.EINTR {
			continue
		}
		contract.Must(err, "epoll_wait failed")
		return events[:n]
	}
}
