// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package launcher

import (
	"os"
	"testing"

	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

func TestIsRunnerModeConsumesMarker(t *testing.T) {
	os.Setenv(runnerModeEnvName, runnerModeEnvValue)

	if !IsRunnerMode() {
		t.Fatal("IsRunnerMode() = false right after setting the marker")
	}
	if _, present := os.LookupEnv(runnerModeEnvName); present {
		t.Error("IsRunnerMode did not unset the marker after reading it")
	}
	if IsRunnerMode() {
		t.Error("IsRunnerMode() = true on a second call after the marker was consumed")
	}
}

func TestIsRunnerModeFalseWithoutMarker(t *testing.T) {
	os.Unsetenv(runnerModeEnvName)
	if IsRunnerMode() {
		t.Error("IsRunnerMode() = true with no marker set")
	}
}

func TestConsumeDescriptorsRoundTrip(t *testing.T) {
	os.Setenv(commandSourceEnvName, wire.EncodeUint(3, descriptorBase))
	os.Setenv(responseSinkEnvName, wire.EncodeUint(4, descriptorBase))

	cmdFd, respFd := ConsumeDescriptors()
	if cmdFd != 3 || respFd != 4 {
		t.Errorf("ConsumeDescriptors() = (%d, %d), want (3, 4)", cmdFd, respFd)
	}

	if _, present := os.LookupEnv(commandSourceEnvName); present {
		t.Error("ConsumeDescriptors did not unset the command-source marker")
	}
	if _, present := os.LookupEnv(responseSinkEnvName); present {
		t.Error("ConsumeDescriptors did not unset the response-sink marker")
	}
}
