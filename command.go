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
)

// Program is the executable the entrypoint supervises.
const Program = "streamlit"

// Command builds the streamlit invocation for this configuration as a
// discrete argument vector: program, subcommand, script, then flags in
// canonical order (address, port, headless, telemetry).  No shell is
// ever involved, so configuration values cannot be reinterpreted as
// shell syntax.  Building executes nothing.
func (c *Config) Command() []string {
	return []string{
		Program, "run", c.App,
		"--server.address", c.Host,
		"--server.port", strconv.Itoa(c.Port),
		"--server.headless", strconv.FormatBool(c.Headless),
		"--browser.gatherUsageStats", strconv.FormatBool(c.GatherUsageStats),
	}
}
