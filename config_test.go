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

package stinit

import (
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestResolveDefaults(t *testing.T) {
	Convey("An empty environment yields the documented defaults", t, func() {
		c, e := ResolveConfig(mapLookup(nil))
		So(e, ShouldBeNil)
		So(c.Host, ShouldEqual, "0.0.0.0")
		So(c.Port, ShouldEqual, 8501)
		So(c.Headless, ShouldBeTrue)
		So(c.GatherUsageStats, ShouldBeFalse)
		So(c.App, ShouldEqual, "main.py")
		So(c.GracePeriod, ShouldEqual, time.Second*10)
		So(c.StatusAddr, ShouldEqual, "")
	})

	Convey("Empty values behave exactly like absent ones", t, func() {
		c, e := ResolveConfig(mapLookup(map[string]string{
			"HOST":                      "",
			"PORT":                      "",
			"STREAMLIT_SERVER_HEADLESS": "",
		}))
		So(e, ShouldBeNil)
		So(c.Host, ShouldEqual, "0.0.0.0")
		So(c.Port, ShouldEqual, 8501)
		So(c.Headless, ShouldBeTrue)
	})
}

func TestResolvePort(t *testing.T) {
	Convey("Valid ports resolve to their integer value", t, func() {
		for _, v := range []string{"1", "80", "8501", "9999", "65535"} {
			c, e := ResolveConfig(mapLookup(map[string]string{"PORT": v}))
			So(e, ShouldBeNil)
			n, _ := strconv.Atoi(v)
			So(c.Port, ShouldEqual, n)
		}
	})

	Convey("Non-integer ports fail with a ConfigError", t, func() {
		c, e := ResolveConfig(mapLookup(map[string]string{"PORT": "not-a-number"}))
		So(c, ShouldBeNil)
		So(e, ShouldNotBeNil)
		ce, ok := e.(*ConfigError)
		So(ok, ShouldBeTrue)
		So(ce.Var, ShouldEqual, "PORT")
		So(ce.Value, ShouldEqual, "not-a-number")
		So(ce.Error(), ShouldContainSubstring, "PORT")
		So(ce.Error(), ShouldContainSubstring, "not-a-number")
	})

	Convey("Out of range ports fail with a ConfigError", t, func() {
		for _, v := range []string{"0", "-1", "65536", "700000"} {
			c, e := ResolveConfig(mapLookup(map[string]string{"PORT": v}))
			So(c, ShouldBeNil)
			So(e, ShouldNotBeNil)
		}
	})
}

func TestResolveBooleans(t *testing.T) {
	Convey("Boolean literals are accepted case-insensitively", t, func() {
		for _, v := range []string{"true", "True", "TRUE", "tRuE"} {
			c, e := ResolveConfig(mapLookup(map[string]string{
				"STREAMLIT_SERVER_HEADLESS":            v,
				"STREAMLIT_BROWSER_GATHER_USAGE_STATS": v,
			}))
			So(e, ShouldBeNil)
			So(c.Headless, ShouldBeTrue)
			So(c.GatherUsageStats, ShouldBeTrue)
		}
		for _, v := range []string{"false", "False", "FALSE"} {
			c, e := ResolveConfig(mapLookup(map[string]string{
				"STREAMLIT_SERVER_HEADLESS": v,
			}))
			So(e, ShouldBeNil)
			So(c.Headless, ShouldBeFalse)
		}
	})

	Convey("Anything else is rejected, never coerced", t, func() {
		for _, v := range []string{"1", "0", "yes", "no", "on", "off", "t"} {
			c, e := ResolveConfig(mapLookup(map[string]string{
				"STREAMLIT_SERVER_HEADLESS": v,
			}))
			So(c, ShouldBeNil)
			ce, ok := e.(*ConfigError)
			So(ok, ShouldBeTrue)
			So(ce.Var, ShouldEqual, "STREAMLIT_SERVER_HEADLESS")
		}
	})
}

func TestResolveGracePeriod(t *testing.T) {
	Convey("Durations accept both Go syntax and bare seconds", t, func() {
		c, e := ResolveConfig(mapLookup(map[string]string{
			"STINIT_GRACE_PERIOD": "250ms",
		}))
		So(e, ShouldBeNil)
		So(c.GracePeriod, ShouldEqual, time.Millisecond*250)

		c, e = ResolveConfig(mapLookup(map[string]string{
			"STINIT_GRACE_PERIOD": "15",
		}))
		So(e, ShouldBeNil)
		So(c.GracePeriod, ShouldEqual, time.Second*15)
	})

	Convey("Garbage and non-positive durations are rejected", t, func() {
		for _, v := range []string{"soon", "0", "-5s"} {
			c, e := ResolveConfig(mapLookup(map[string]string{
				"STINIT_GRACE_PERIOD": v,
			}))
			So(c, ShouldBeNil)
			So(e, ShouldNotBeNil)
		}
	})
}

func TestResolveIsPure(t *testing.T) {
	Convey("Resolution only ever reads through the supplied lookup", t, func() {
		names := []string{}
		_, e := ResolveConfig(func(name string) (string, bool) {
			names = append(names, name)
			return "", false
		})
		So(e, ShouldBeNil)
		So(names, ShouldContain, "HOST")
		So(names, ShouldContain, "PORT")
		So(names, ShouldContain, "STREAMLIT_SERVER_HEADLESS")
		So(names, ShouldContain, "STREAMLIT_BROWSER_GATHER_USAGE_STATS")
	})
}
