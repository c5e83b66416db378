// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package launcher owns the parent/child hand-off: creating the four
// pipes, re-executing the current binary as the runner, and carrying
// the command/response descriptor numbers and the runner-mode marker
// across the exec(2) boundary in the environment.
//
// Go does not let a multi-threaded process call a raw fork(2) safely
// (only the calling OS thread survives into the child before exec,
// while the Go runtime's other threads do not), so this package uses
// os/exec with ExtraFiles as the idiomatic stand-in for the
// fork+dup+exec sequence: the runtime performs the fork and the
// descriptor duplication internally, and hands the child fixed
// descriptor numbers for the pipes it needs.
package launcher

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
	"github.com/WarjoyPuddle/waypoint/internal/pipeio"
	"github.com/WarjoyPuddle/waypoint/internal/wire"
)

const (
	runnerModeEnvName  = "WAYPOINT_INTERNAL_RUNNER_MODE"
	runnerModeEnvValue = "4w7SLEq0b0nUd1wXA6qu8AHW6ShUPrun"

	commandSourceEnvName = "WAYPOINT_INTERNAL_COMMAND_SOURCE"
	responseSinkEnvName  = "WAYPOINT_INTERNAL_RESPONSE_SINK"

	descriptorBase = 10
)

// childExtraFileCommandIndex and childExtraFileResponseIndex are the
// indices into exec.Cmd.ExtraFiles for the command-read and
// response-write ends; os/exec places ExtraFiles[i] at descriptor 3+i
// in the child.
const (
	childExtraFileCommandIndex  = 0
	childExtraFileResponseIndex = 1
	childCommandFd              = 3 + childExtraFileCommandIndex
	childResponseFd             = 3 + childExtraFileResponseIndex
)

// ChildProcess is the running runner process along with the
// supervisor's four pipe endpoints.
type ChildProcess struct {
	cmd *exec.Cmd

	commandWrite *pipeio.InputEnd
	responseRead *pipeio.OutputEnd
	stdoutRead   *pipeio.OutputEnd
	stderrRead   *pipeio.OutputEnd
}

// Launch creates the four pipes and starts the runner.
func Launch() *ChildProcess {
	cmdRead, cmdWrite := mustPipe()
	respRead, respWrite := mustPipe()
	outRead, outWrite := mustPipe()
	errRead, errWrite := mustPipe()

	exePath, err := os.Executable()
	contract.Must(err, "failed to resolve path to the current executable")

	cmd := exec.Command(exePath)
	cmd.Stdout = outWrite
	cmd.Stderr = errWrite
	cmd.ExtraFiles = []*os.File{cmdRead, respWrite}
	cmd.Env = append(append([]string{}, os.Environ()...),
		runnerModeEnvName+"="+runnerModeEnvValue,
		commandSourceEnvName+"="+wire.EncodeUint(uint64(childCommandFd), descriptorBase),
		responseSinkEnvName+"="+wire.EncodeUint(uint64(childResponseFd), descriptorBase),
	)

	contract.Must(cmd.Start(), "failed to start runner process")

	// The child now has its own duplicates of these four descriptors;
	// the parent's copies of the ends that belong to the child are no
	// longer needed.
	contract.Must(cmdRead.Close(), "failed to close parent's copy of the command-read end")
	contract.Must(respWrite.Close(), "failed to close parent's copy of the response-write end")
	contract.Must(outWrite.Close(), "failed to close parent's copy of the stdout-write end")
	contract.Must(errWrite.Close(), "failed to close parent's copy of the stderr-write end")

	return &ChildProcess{
		cmd:          cmd,
		commandWrite: pipeio.NewInputEnd(cmdWrite),
		responseRead: pipeio.NewOutputEnd(respRead),
		stdoutRead:   pipeio.NewOutputEnd(outRead),
		stderrRead:   pipeio.NewOutputEnd(errRead),
	}
}

func mustPipe() (read, write *os.File) {
	read, write, err := os.Pipe()
	contract.Must(err, "failed to create pipe")
	return read, write
}

// CommandWrite returns the supervisor's write end of the command pipe.
func (c *ChildProcess) CommandWrite() *pipeio.InputEnd { return c.commandWrite }

// ResponseRead returns the supervisor's read end of the response pipe.
func (c *ChildProcess) ResponseRead() *pipeio.OutputEnd { return c.responseRead }

// StdoutRead returns the supervisor's read end of the runner's redirected stdout.
func (c *ChildProcess) StdoutRead() *pipeio.OutputEnd { return c.stdoutRead }

// StderrRead returns the supervisor's read end of the runner's redirected stderr.
func (c *ChildProcess) StderrRead() *pipeio.OutputEnd { return c.stderrRead }

// Pid returns the runner's process ID.
func (c *ChildProcess) Pid() int { return c.cmd.Process.Pid }

// Kill forcibly terminates the runner, for use by the watchdog after a
// per-test timeout.
func (c *ChildProcess) Kill() {
	_ = c.cmd.Process.Kill()
}

// WaitResult describes how the runner process ended.
type WaitResult struct {
	ExitCode int
	Signaled bool
	Signal   int
}

// Wait blocks until the runner exits and reports how it ended.
func (c *ChildProcess) Wait() WaitResult {
	_ = c.cmd.Wait()
	state := c.cmd.ProcessState
	contract.Assert(state != nil, "cmd.Wait returned without a ProcessState")

	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return WaitResult{Signaled: true, Signal: int(ws.Signal())}
		}
		return WaitResult{ExitCode: ws.ExitStatus()}
	}

	return WaitResult{ExitCode: state.ExitCode()}
}

// IsRunnerMode reports whether this process was started by Launch and
// should behave as a runner. It consumes (and unsets) the runner-mode
// marker, so the test binary behaves like a fresh invocation if it
// execs or forks further.
func IsRunnerMode() bool {
	value, present := os.LookupEnv(runnerModeEnvName)
	os.Unsetenv(runnerModeEnvName)
	return present && value == runnerModeEnvValue
}

// ConsumeDescriptors reads and decodes the command/response descriptor
// numbers the launcher passed via the environment, unsetting both
// markers afterward.
func ConsumeDescriptors() (commandFd, responseFd int) {
	cmdStr, cmdPresent := os.LookupEnv(commandSourceEnvName)
	respStr, respPresent := os.LookupEnv(responseSinkEnvName)
	os.Unsetenv(commandSourceEnvName)
	os.Unsetenv(responseSinkEnvName)

	contract.Assert(cmdPresent, "runner started without %s set", commandSourceEnvName)
	contract.Assert(respPresent, "runner started without %s set", responseSinkEnvName)

	return int(wire.DecodeUint(cmdStr, descriptorBase)), int(wire.DecodeUint(respStr, descriptorBase))
}
