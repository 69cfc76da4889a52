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
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a variable is absent or empty.
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8501
	DefaultHeadless    = true
	DefaultGatherStats = false
	DefaultApp         = "main.py"
	DefaultGracePeriod = time.Second * 10
)

// Environment variable names recognized by ResolveConfig.
const (
	EnvHost        = "HOST"
	EnvPort        = "PORT"
	EnvHeadless    = "STREAMLIT_SERVER_HEADLESS"
	EnvGatherStats = "STREAMLIT_BROWSER_GATHER_USAGE_STATS"
	EnvApp         = "STINIT_APP"
	EnvGracePeriod = "STINIT_GRACE_PERIOD"
	EnvStatusAddr  = "STINIT_STATUS_ADDR"
)

// Config is the resolved, immutable server configuration.  It is built
// exactly once at startup and never mutated afterwards.
type Config struct {
	Host             string
	Port             int
	Headless         bool
	GatherUsageStats bool

	App         string        // script handed to streamlit run
	GracePeriod time.Duration // voluntary-exit window after a termination signal
	StatusAddr  string        // status HTTP listener, empty disables
}

// LookupFunc resolves a named variable.  The second return is false when
// the variable is not set at all.  Injecting the lookup keeps resolution
// a pure function that can be tested against an in-memory map.
type LookupFunc func(name string) (string, bool)

// OSLookup is the LookupFunc backed by the process environment.
func OSLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// ResolveConfig builds a Config from the supplied lookup.  Absent or
// empty variables take their documented defaults; present but malformed
// values fail with a *ConfigError, never a silent default.
func ResolveConfig(lookup LookupFunc) (*Config, error) {
	c := &Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		Headless:         DefaultHeadless,
		GatherUsageStats: DefaultGatherStats,
		App:              DefaultApp,
		GracePeriod:      DefaultGracePeriod,
	}

	if v, ok := value(lookup, EnvHost); ok {
		c.Host = v
	}
	if v, ok := value(lookup, EnvPort); ok {
		p, e := strconv.Atoi(v)
		if e != nil {
			return nil, &ConfigError{EnvPort, v, "not an integer"}
		}
		if p < 1 || p > 65535 {
			return nil, &ConfigError{EnvPort, v, "port out of range 1-65535"}
		}
		c.Port = p
	}
	if v, ok := value(lookup, EnvHeadless); ok {
		b, e := parseBool(v)
		if e != nil {
			return nil, &ConfigError{EnvHeadless, v, "not a boolean"}
		}
		c.Headless = b
	}
	if v, ok := value(lookup, EnvGatherStats); ok {
		b, e := parseBool(v)
		if e != nil {
			return nil, &ConfigError{EnvGatherStats, v, "not a boolean"}
		}
		c.GatherUsageStats = b
	}
	if v, ok := value(lookup, EnvApp); ok {
		c.App = v
	}
	if v, ok := value(lookup, EnvGracePeriod); ok {
		d, e := parseGrace(v)
		if e != nil {
			return nil, &ConfigError{EnvGracePeriod, v, "not a duration"}
		}
		if d <= 0 {
			return nil, &ConfigError{EnvGracePeriod, v, "duration must be positive"}
		}
		c.GracePeriod = d
	}
	if v, ok := value(lookup, EnvStatusAddr); ok {
		c.StatusAddr = v
	}
	return c, nil
}

// value treats an empty string the same as an unset variable, so that
// e.g. HOST="" falls back to the default rather than binding nowhere.
func value(lookup LookupFunc, name string) (string, bool) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// parseBool accepts exactly "true" and "false", case-insensitively.
// Anything else is an error; we never coerce.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrBadBool
}

// parseGrace accepts either a Go duration ("15s") or a bare integer
// number of seconds ("15").
func parseGrace(v string) (time.Duration, error) {
	if n, e := strconv.Atoi(v); e == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
