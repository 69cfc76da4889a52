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

const (
	mimeJson = "application/json; charset=UTF-8"

	// Long-poll controls for the log endpoint.  The client asks to wait
	// until the log moves past the given tag, for at most the given
	// number of seconds.
	PollEtagHeader = "X-Stinit-Poll-Etag"
	PollTimeHeader = "X-Stinit-Poll-Time"
)

var ok = struct {
	Ok bool `json:"ok"`
}{Ok: true}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}
