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

// Package stinit implements the init process used as the container
// entrypoint for the Streamlit web UI.  It resolves the server
// configuration from the environment, builds the streamlit invocation,
// and supervises the resulting child process with correct PID 1
// semantics: orphaned descendants are reaped, termination signals are
// forwarded to the child's process group with a bounded grace period,
// and the child's fate is mirrored in our own exit status.
//
// Configuration is read from the environment:
//
//	HOST                                  bind address (default 0.0.0.0)
//	PORT                                  bind port (default 8501)
//	STREAMLIT_SERVER_HEADLESS             suppress interactive prompts (default true)
//	STREAMLIT_BROWSER_GATHER_USAGE_STATS  telemetry opt-in (default false)
//	STINIT_APP                            script passed to streamlit run (default main.py)
//	STINIT_GRACE_PERIOD                   time allowed for voluntary exit (default 10s)
//	STINIT_STATUS_ADDR                    status HTTP listen address (default disabled)
//
// Exit status:
//
//	n      the child exited with status n
//	128+s  the child was terminated by signal s
//	78     configuration was invalid; no child was started
//	127    the child could not be spawned
package stinit
