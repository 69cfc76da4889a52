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

package rest

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/context"

	"github.com/taskprogress/stinit"
)

// Client talks to a running stinitd status listener.
type Client struct {
	base   string // URI to the root of the tree on the server
	client *http.Client
}

// NewClient returns a Client for the given base URI, e.g.
// "http://127.0.0.1:9000".  A nil http.Client uses the default.
func NewClient(client *http.Client, base string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: strings.TrimSuffix(base, "/"), client: client}
}

// get issues a GET, optionally with a cache tag and a bounded long
// poll.  The returned etag is empty when the value did not change.
func (c *Client) get(ctx context.Context, url string, etag string, wait int, v interface{}) (string, error) {
	req, e := http.NewRequest("GET", url, nil)
	if e != nil {
		return "", e
	}
	req = req.WithContext(ctx)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
		if wait > 0 {
			req.Header.Set(PollEtagHeader, etag)
			req.Header.Set(PollTimeHeader, strconv.Itoa(wait))
		}
	}
	res, e := c.client.Do(req)
	if e != nil {
		return "", e
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotModified {
		return "", nil
	}
	if res.StatusCode != http.StatusOK {
		return "", &Error{Code: res.StatusCode, Message: res.Status}
	}
	body, e := ioutil.ReadAll(res.Body)
	if e != nil {
		return "", e
	}
	if e := json.Unmarshal(body, v); e != nil {
		return "", e
	}
	return res.Header.Get("Etag"), nil
}

func (c *Client) post(ctx context.Context, url string) error {
	req, e := http.NewRequest("POST", url, strings.NewReader(""))
	if e != nil {
		return e
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "text/plain")
	res, e := c.client.Do(req)
	if e != nil {
		return e
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return &Error{Code: res.StatusCode, Message: res.Status}
	}
	return nil
}

// Status fetches the current supervisor snapshot.
func (c *Client) Status(ctx context.Context) (*stinit.StatusInfo, error) {
	v := &stinit.StatusInfo{}
	if _, e := c.get(ctx, c.base+"/status", "", 0, v); e != nil {
		return nil, e
	}
	return v, nil
}

// Log fetches supervisor events.  With a non-empty etag and wait > 0
// the call long-polls until the log changes or the wait expires.  The
// returned records are nil when nothing changed.
func (c *Client) Log(ctx context.Context, etag string, wait int) ([]stinit.LogRecord, string, error) {
	var recs []stinit.LogRecord
	tag, e := c.get(ctx, c.base+"/log", etag, wait, &recs)
	if e != nil {
		return nil, etag, e
	}
	if tag == "" {
		return nil, etag, nil
	}
	return recs, tag, nil
}

// Shutdown asks the init process to stop the supervised child
// gracefully.  The init process exits once the child does.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.post(ctx, c.base+"/shutdown")
}
