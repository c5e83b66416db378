// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package waypoint

import (
	"time"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
)

// runConfig holds everything RunAllTests needs beyond the registry
// itself. It is assembled from defaultRunConfig plus whatever Options
// the caller supplies.
type runConfig struct {
	perTestTimeout time.Duration
	ioBufferSize   int
}

func defaultRunConfig() runConfig {
	return runConfig{
		ioBufferSize: 32 * 1024,
	}
}

// Option configures a RunAllTests or Main call.
type Option func(*runConfig)

// WithPerTestTimeout bounds the wall-clock time a single test body may
// run before the supervisor kills the runner and records TimedOut for
// it. A zero duration (the default) disables the timeout.
func WithPerTestTimeout(d time.Duration) Option {
	return func(c *runConfig) {
		contract.Assert(d >= 0, "per-test timeout must not be negative")
		c.perTestTimeout = d
	}
}

// WithIOBufferSize sets the chunk size used when draining the runner's
// redirected stdout and stderr.
func WithIOBufferSize(n int) Option {
	return func(c *runConfig) {
		contract.Assert(n > 0, "IO buffer size must be positive, got %d", n)
		c.ioBufferSize = n
	}
}
