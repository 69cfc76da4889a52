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
	"errors"
	"fmt"
)

var (
	ErrNotStarted     = errors.New("Process not started")
	ErrAlreadyStarted = errors.New("Process already started")
	ErrStillRunning   = errors.New("Process still running")
	ErrBadBool        = errors.New("Not a boolean literal")
)

// ConfigError reports an environment variable whose value could not be
// used.  It is always fatal, and always raised before any child process
// is spawned.
type ConfigError struct {
	Var    string // the offending variable name
	Value  string // the raw value as supplied
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%q: %s", e.Var, e.Value, e.Reason)
}

// SpawnError reports a command that could not be started at all, for
// example because the executable is missing from the image.
type SpawnError struct {
	Path string // the program we attempted to execute
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
