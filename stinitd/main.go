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

// stinitd is the container entrypoint.  It resolves the Streamlit
// server configuration from the environment, spawns the server, and
// acts as PID 1: reaping orphans, forwarding termination signals, and
// exiting with a status that mirrors the child's fate.  There are no
// subcommands and no flags; the environment is the entire interface.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/taskprogress/stinit"
	"github.com/taskprogress/stinit/rest"
)

func main() {
	cfg, e := stinit.ResolveConfig(stinit.OSLookup)
	if e != nil {
		fmt.Fprintf(os.Stderr, "stinitd: bad configuration: %v\n", e)
		os.Exit(stinit.ExitCodeConfig)
	}

	proc := stinit.NewProcess(cfg.Command())
	in := stinit.NewInit(proc, cfg.GracePeriod)

	if cfg.StatusAddr != "" {
		go func() {
			// The status surface must never take the child down.
			e := http.ListenAndServe(cfg.StatusAddr, rest.NewHandler(in))
			log.Printf("status listener failed: %v", e)
		}()
	}

	code, e := in.Run()
	if e != nil {
		fmt.Fprintf(os.Stderr, "stinitd: %v\n", e)
	}
	os.Exit(code)
}
