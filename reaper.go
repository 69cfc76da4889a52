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
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Exit codes used when the child never ran.  Anything else we exit with
// is the child's own status, per Status.ExitStatus.
const (
	ExitCodeConfig = 78  // configuration rejected, sysexits EX_CONFIG
	ExitCodeSpawn  = 127 // command could not be started
)

// StatusInfo is a point-in-time snapshot of the init process, served by
// the status endpoint and consumed by tests.
type StatusInfo struct {
	State   string    `json:"state"`
	Pid     int       `json:"pid"`
	Argv    []string  `json:"argv"`
	Started time.Time `json:"started"`
	Grace   string    `json:"gracePeriod"`
	Reaped  int64     `json:"reaped"`
}

// Init runs the PID 1 duties for one supervised Process: reap every
// descendant the kernel reparents to us, forward termination signals to
// the child's process group, escalate to SIGKILL after the grace
// period, and report the child's fate as our own exit status.
type Init struct {
	proc   *Process
	grace  time.Duration
	mlog   *MultiLogger
	elog   *Log
	logger *log.Logger

	chld chan os.Signal
	term chan os.Signal
	stop chan syscall.Signal

	lock   sync.Mutex
	reaped int64
}

// NewInit wires a Process into the init loop.  The process must not be
// started yet; Run spawns it.  Supervisor messages fan out to stderr
// and to the in-memory event log.
func NewInit(p *Process, grace time.Duration) *Init {
	in := &Init{
		proc:  p,
		grace: grace,
		elog:  NewLog(),
		mlog:  NewMultiLogger(),
		// Depth one on purpose: a termination signal arriving while one
		// is already pending coalesces rather than queueing without
		// bound.  SIGCHLD coalesces too, since every wakeup drains all
		// reapable children.
		chld: make(chan os.Signal, 1),
		term: make(chan os.Signal, 1),
		stop: make(chan syscall.Signal, 1),
	}
	in.mlog.AddLogger(log.New(os.Stderr, "[stinit] ", log.LstdFlags))
	in.mlog.AddLogger(log.New(in.elog, "", 0))
	in.logger = in.mlog.Logger()
	p.SetLogger(in.logger)
	p.disownWait()
	return in
}

// Status returns a snapshot of the supervised process.
func (in *Init) Status() StatusInfo {
	in.lock.Lock()
	reaped := in.reaped
	in.lock.Unlock()
	return StatusInfo{
		State:   in.proc.State().String(),
		Pid:     in.proc.Pid(),
		Argv:    in.proc.Argv(),
		Started: in.proc.StartedAt(),
		Grace:   in.grace.String(),
		Reaped:  reaped,
	}
}

// LogRecords returns retained supervisor events newer than last.
func (in *Init) LogRecords(last int64) ([]LogRecord, int64) {
	return in.elog.GetRecords(last)
}

// WatchLog blocks until the event log changes relative to last or the
// expiry passes, returning the current change tag.
func (in *Init) WatchLog(last int64, expire time.Duration) int64 {
	return in.elog.Watch(last, expire)
}

// Shutdown requests a graceful stop through the same path a SIGTERM
// from the container runtime takes.  It does not wait for the child.
func (in *Init) Shutdown() error {
	select {
	case in.stop <- syscall.SIGTERM:
	default:
		// one already pending, it will do
	}
	return nil
}

// Run spawns the child and runs the init loop until the child has been
// reaped.  The return value is the exit status this process should
// terminate with.  All work happens here, in one thread of control; the
// signal handlers only deposit into the buffered channels above.
func (in *Init) Run() (int, error) {
	signal.Notify(in.chld, syscall.SIGCHLD)
	signal.Notify(in.term, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(in.chld)
	defer signal.Stop(in.term)

	// When we are not literally PID 1 (local runs, tests), ask the
	// kernel to reparent orphaned descendants to us anyway.
	if e := setSubreaper(); e != nil {
		in.logger.Printf("Cannot register as subreaper: %v", e)
	}

	if e := in.proc.Start(); e != nil {
		return ExitCodeSpawn, e
	}

	var grace *time.Timer
	var graceC <-chan time.Time
	killed := false

	for {
		var sig syscall.Signal
		select {
		case <-in.chld:
			if st, done := in.reap(); done {
				if grace != nil {
					grace.Stop()
				}
				return st.ExitStatus(), nil
			}
			continue
		case s := <-in.term:
			sig = s.(syscall.Signal)
		case sig = <-in.stop:
		case <-graceC:
			in.logger.Printf("Grace period expired; killing process group")
			in.proc.Kill()
			killed = true
			graceC = nil
			continue
		}

		in.forward(sig)
		if killed {
			// SIGKILL is already out; nothing left to escalate to.
			continue
		}
		if grace == nil {
			grace = time.NewTimer(in.grace)
			graceC = grace.C
		} else {
			// A repeated termination signal re-arms the countdown.
			if !grace.Stop() {
				select {
				case <-grace.C:
				default:
				}
			}
			grace.Reset(in.grace)
			graceC = grace.C
		}
	}
}

// forward delivers sig to the child's process group.  Best effort: the
// child may have exited between the signal arriving and us acting on
// it, so failures are logged and ignored.
func (in *Init) forward(sig syscall.Signal) {
	in.logger.Printf("Forwarding signal %d to pid %d", sig, in.proc.Pid())
	if e := in.proc.Signal(sig); e != nil {
		in.logger.Printf("Failed to forward signal %d: %v", sig, e)
	}
}

// reap collects every child the kernel has for us.  Statuses of
// reparented descendants are discarded; this is pure bookkeeping.  When
// the supervised child itself is collected, reap drains whatever else
// is immediately reapable and reports done with the child's status.
func (in *Init) reap() (Status, bool) {
	child := in.proc.Pid()
	exited := false
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		switch {
		case pid > 0 && pid == child:
			in.proc.finish(syscall.WaitStatus(ws))
			exited = true
		case pid > 0:
			in.lock.Lock()
			in.reaped++
			in.lock.Unlock()
			in.logger.Printf("Reaped orphaned pid %d", pid)
		case err == unix.EINTR:
			// retry
		case err != nil && err != unix.ECHILD:
			// Could not retrieve a status; keep supervising regardless.
			in.logger.Printf("Wait failed: %v", err)
			if exited {
				return in.proc.Wait(), true
			}
			return Status{}, false
		default:
			// pid == 0 or ECHILD: nothing reapable right now.
			if exited {
				return in.proc.Wait(), true
			}
			return Status{}, false
		}
	}
}
