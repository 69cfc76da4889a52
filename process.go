// Copyright 2026 The Stinit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !windows

package stinit

import (
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// ProcessState tracks the supervised child through its lifecycle.
type ProcessState int

const (
	Starting ProcessState = iota // not yet spawned
	Running                      // spawned, not yet terminated
	Exited                       // terminated normally
	Signaled                     // terminated by a signal
)

func (s ProcessState) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	}
	return "unknown"
}

// Status is the recorded outcome of a supervised child.  Code is valid
// only in state Exited, Signal only in state Signaled.
type Status struct {
	State  ProcessState
	Code   int
	Signal syscall.Signal
}

// ExitStatus maps the outcome onto the conventional shell encoding:
// the child's own code for a normal exit, 128 plus the signal number
// when the child was killed.  Returns -1 if the child has not
// terminated yet.
func (st Status) ExitStatus() int {
	switch st.State {
	case Exited:
		return st.Code
	case Signaled:
		return 128 + int(st.Signal)
	}
	return -1
}

// Process represents the one operating system process this init
// supervises.  It owns the child exclusively: nobody else waits on it
// or mutates its state.
type Process struct {
	argv     []string
	logger   *log.Logger
	cmd      *exec.Cmd
	state    ProcessState
	status   Status
	started  time.Time
	selfWait bool
	done     chan struct{}
	lock     sync.Mutex
}

// NewProcess prepares a supervised process from an argument vector.
// The vector must carry at least the program name.  Nothing is spawned
// until Start.
func NewProcess(argv []string) *Process {
	return &Process{
		argv:     append([]string(nil), argv...),
		logger:   log.New(os.Stderr, "", log.LstdFlags),
		state:    Starting,
		selfWait: true,
		done:     make(chan struct{}),
	}
}

// SetLogger redirects supervisor messages.  Must be called before Start.
func (p *Process) SetLogger(logger *log.Logger) {
	p.lock.Lock()
	p.logger = logger
	p.lock.Unlock()
}

// disownWait hands responsibility for collecting the wait status to an
// external reaper (the Init loop).  Exactly one party may wait on a
// child; the reaper's wait-any loop and an internal Wait would race.
func (p *Process) disownWait() {
	p.lock.Lock()
	p.selfWait = false
	p.lock.Unlock()
}

// Pid returns the child's process id, or -1 before Start.
func (p *Process) Pid() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// State returns the current lifecycle state.
func (p *Process) State() ProcessState {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.state
}

// Argv returns the command the child was built from.
func (p *Process) Argv() []string {
	return append([]string(nil), p.argv...)
}

// StartedAt returns the spawn time, zero before Start.
func (p *Process) StartedAt() time.Time {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.started
}

// Start spawns the child in its own process group, inheriting our
// stdout and stderr so the served application logs straight to the
// container runtime.  A failure to spawn is reported as a *SpawnError
// and the state never leaves Starting.
func (p *Process) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.state != Starting {
		return ErrAlreadyStarted
	}

	cmd := exec.Command(p.argv[0], p.argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Own process group, so signals can reach the child and all of its
	// descendants as a unit.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if e := cmd.Start(); e != nil {
		return &SpawnError{Path: p.argv[0], Err: e}
	}
	p.cmd = cmd
	p.state = Running
	p.started = time.Now()
	p.logger.Printf("Started %s (pid %d)", p.argv[0], cmd.Process.Pid)

	if p.selfWait {
		go p.doWait()
	}
	return nil
}

// doWait collects the wait status when the process runs standalone,
// outside the Init reaping loop.
func (p *Process) doWait() {
	e := p.cmd.Wait()
	if ws, ok := p.cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		p.finish(ws)
		return
	}
	if e != nil {
		p.logger.Printf("Wait failed: %v", e)
	}
	p.finish(0)
}

// finish records the terminal state.  Called exactly once per child,
// either from doWait or from the reaping loop.
func (p *Process) finish(ws syscall.WaitStatus) {
	p.lock.Lock()
	if ws.Signaled() {
		p.state = Signaled
		p.status = Status{State: Signaled, Signal: ws.Signal()}
	} else {
		p.state = Exited
		p.status = Status{State: Exited, Code: ws.ExitStatus()}
	}
	st := p.status
	p.lock.Unlock()

	if st.State == Signaled {
		p.logger.Printf("Child terminated by signal %d", st.Signal)
	} else {
		p.logger.Printf("Child exited with status %d", st.Code)
	}
	close(p.done)
}

// Wait blocks until the child terminates and returns its outcome.
func (p *Process) Wait() Status {
	<-p.done
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.status
}

// Signal delivers sig to the child's process group, falling back to the
// child alone if the group is gone.  Delivery is best effort: the child
// may already have exited, and that is not an error worth failing over.
func (p *Process) Signal(sig syscall.Signal) error {
	pid := p.Pid()
	if pid <= 0 {
		return ErrNotStarted
	}
	if e := syscall.Kill(-pid, sig); e == nil {
		return nil
	}
	return syscall.Kill(pid, sig)
}

// Kill forcefully terminates the child's process group.
func (p *Process) Kill() {
	if e := p.Signal(syscall.SIGKILL); e != nil {
		p.logger.Printf("Failed to kill pid %d: %v", p.Pid(), e)
	}
}
