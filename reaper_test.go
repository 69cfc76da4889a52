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

// These tests exercise the full init loop in-process.  The test binary
// is not PID 1, so the loop registers itself as a child subreaper on
// Linux; everything else behaves exactly as in the container.

package stinit

import (
	"syscall"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitMirrorsExitCode(t *testing.T) {
	Convey("The init loop exits with the child's own code", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "exit 7"}), time.Second)
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 7)
		So(in.Status().State, ShouldEqual, "exited")
	})

	Convey("A zero exit mirrors as zero", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "exit 0"}), time.Second)
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 0)
	})
}

func TestInitSpawnFailure(t *testing.T) {
	Convey("A child that cannot spawn aborts with the spawn code", t, func() {
		in := NewInit(NewProcess([]string{"/no/such/executable"}), time.Second)
		code, e := in.Run()
		So(code, ShouldEqual, ExitCodeSpawn)
		So(e, ShouldNotBeNil)
		_, ok := e.(*SpawnError)
		So(ok, ShouldBeTrue)
		So(in.Status().State, ShouldEqual, "starting")
	})
}

func TestInitForwardsSignals(t *testing.T) {
	Convey("A SIGTERM to the supervisor reaches the child", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "sleep 60"}),
			time.Second*5)
		go func() {
			time.Sleep(time.Millisecond * 100)
			syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		}()
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 128+int(syscall.SIGTERM))
		So(in.Status().State, ShouldEqual, "signaled")
	})
}

func TestInitShutdown(t *testing.T) {
	Convey("Shutdown takes the same graceful path as a signal", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "sleep 60"}),
			time.Second*5)
		go func() {
			time.Sleep(time.Millisecond * 100)
			in.Shutdown()
		}()
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 128+int(syscall.SIGTERM))
	})

	Convey("Repeated requests coalesce instead of queueing", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "sleep 60"}),
			time.Second*5)
		go func() {
			time.Sleep(time.Millisecond * 100)
			for i := 0; i < 10; i++ {
				in.Shutdown()
			}
		}()
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 128+int(syscall.SIGTERM))
	})
}

func TestInitEscalation(t *testing.T) {
	Convey("A child that ignores SIGTERM is killed after the grace period", t, func() {
		in := NewInit(NewProcess([]string{
			"/bin/sh", "-c", "trap '' TERM; while :; do sleep 0.2; done",
		}), time.Millisecond*300)
		go func() {
			time.Sleep(time.Millisecond * 150)
			in.Shutdown()
		}()
		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 128+int(syscall.SIGKILL))
		So(in.Status().State, ShouldEqual, "signaled")
	})
}

func TestInitStatusAndLog(t *testing.T) {
	Convey("Status and the event log reflect the supervised run", t, func() {
		in := NewInit(NewProcess([]string{"/bin/sh", "-c", "exit 0"}),
			time.Second)
		st := in.Status()
		So(st.State, ShouldEqual, "starting")
		So(st.Grace, ShouldEqual, "1s")
		So(st.Argv, ShouldResemble, []string{"/bin/sh", "-c", "exit 0"})

		code, e := in.Run()
		So(e, ShouldBeNil)
		So(code, ShouldEqual, 0)

		st = in.Status()
		So(st.Pid, ShouldBeGreaterThan, 0)
		So(st.Started.IsZero(), ShouldBeFalse)

		recs, id := in.LogRecords(0)
		So(id, ShouldBeGreaterThan, 0)
		So(len(recs), ShouldBeGreaterThan, 0)

		Convey("and an up-to-date tag fetches nothing new", func() {
			recs, again := in.LogRecords(id)
			So(recs, ShouldBeNil)
			So(again, ShouldEqual, id)
		})
	})
}
