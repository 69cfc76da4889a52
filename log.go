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
	"strings"
	"sync"
	"time"
)

// MaxLogRecords bounds the supervisor's in-memory event log.  Only
// supervisor events land here; the child's own output goes straight to
// the container runtime.
const MaxLogRecords = 500

// LogRecord is one supervisor event.  Ids increase monotonically and
// double as change tags for incremental fetches.
type LogRecord struct {
	Id   int64     `json:"id,string"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Log is a bounded ring of LogRecords.  It implements io.Writer so a
// log.Logger can feed it directly, one line per record.
type Log struct {
	records []LogRecord // newest last, len <= max
	max     int
	id      int64
	cvs     map[*sync.Cond]bool
	mx      sync.Mutex
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{
		max: MaxLogRecords,
		id:  time.Now().UnixNano(),
		cvs: make(map[*sync.Cond]bool),
	}
}

// Write implements the Writer contract consumed by log.Logger: the
// input is text, one or more newline-delimited lines at a time.
func (l *Log) Write(b []byte) (int, error) {
	now := time.Now()
	l.mx.Lock()
	for _, line := range strings.Split(strings.Trim(string(b), "\n"), "\n") {
		l.id++
		l.records = append(l.records, LogRecord{Id: l.id, Time: now, Text: line})
		if len(l.records) > l.max {
			l.records = l.records[len(l.records)-l.max:]
		}
	}
	for cv := range l.cvs {
		cv.Broadcast()
	}
	l.mx.Unlock()
	return len(b), nil
}

// GetRecords returns the retained records along with an id usable as a
// change tag.  If last matches the current id nothing has changed and
// no records are returned.
func (l *Log) GetRecords(last int64) ([]LogRecord, int64) {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.id == last {
		return nil, last
	}
	recs := make([]LogRecord, len(l.records))
	copy(recs, l.records)
	return recs, l.id
}

// Watch blocks until the log has changed relative to last, or until
// expire has elapsed.  It returns the current id.  An expire of zero
// returns immediately.
func (l *Log) Watch(last int64, expire time.Duration) int64 {
	expired := false
	var timer *time.Timer
	cv := sync.NewCond(&l.mx)
	if expire > 0 {
		timer = time.AfterFunc(expire, func() {
			l.mx.Lock()
			expired = true
			cv.Broadcast()
			l.mx.Unlock()
		})
	} else {
		expired = true
	}

	l.mx.Lock()
	l.cvs[cv] = true
	for l.id == last && !expired {
		cv.Wait()
	}
	delete(l.cvs, cv)
	id := l.id
	l.mx.Unlock()
	if timer != nil {
		timer.Stop()
	}
	return id
}
