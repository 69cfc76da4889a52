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

// stinitctl is a small operator client for the stinitd status listener.
//
//	stinitctl [-a address] status
//	stinitctl [-a address] log
//	stinitctl [-a address] shutdown
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/net/context"

	"github.com/taskprogress/stinit/rest"
)

var addr = "http://127.0.0.1:8321"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-a address] status|log|shutdown\n",
		os.Args[0])
	os.Exit(2)
}

func fatal(e error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], e)
	os.Exit(1)
}

func main() {
	flag.StringVar(&addr, "a", addr, "stinitd status address")
	flag.Parse()

	c := rest.NewClient(nil, addr)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	switch flag.Arg(0) {
	case "", "status":
		st, e := c.Status(ctx)
		if e != nil {
			fatal(e)
		}
		fmt.Printf("State:   %s\n", st.State)
		fmt.Printf("Pid:     %d\n", st.Pid)
		fmt.Printf("Command: %s\n", strings.Join(st.Argv, " "))
		if !st.Started.IsZero() {
			fmt.Printf("Started: %s\n", st.Started.Format(time.RFC3339))
		}
		fmt.Printf("Grace:   %s\n", st.Grace)
		fmt.Printf("Reaped:  %d\n", st.Reaped)
	case "log":
		recs, _, e := c.Log(ctx, "", 0)
		if e != nil {
			fatal(e)
		}
		for _, r := range recs {
			fmt.Printf("%s %s\n", r.Time.Format(time.StampMilli), r.Text)
		}
	case "shutdown":
		if e := c.Shutdown(ctx); e != nil {
			fatal(e)
		}
	default:
		usage()
	}
}
