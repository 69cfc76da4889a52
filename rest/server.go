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

// Package rest exposes the init process over HTTP: a health probe, a
// status snapshot, the supervisor event log, and a graceful shutdown
// trigger.  The supervised web UI remains opaque; only the supervisor
// itself is visible here.
package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/taskprogress/stinit"
)

// Target is what the handler serves.  *stinit.Init satisfies it; tests
// substitute a stub.
type Target interface {
	Status() stinit.StatusInfo
	LogRecords(last int64) ([]stinit.LogRecord, int64)
	WatchLog(last int64, expire time.Duration) int64
	Shutdown() error
}

// Handler wraps a Target, adding http.Handler functionality.
type Handler struct {
	t Target
	r *mux.Router
}

func NewHandler(t Target) *Handler {
	h := &Handler{t: t, r: mux.NewRouter()}
	h.r.HandleFunc("/healthz", h.healthz).Methods("GET")
	h.r.HandleFunc("/status", h.getStatus).Methods("GET")
	h.r.HandleFunc("/log", h.getLog).Methods("GET")
	h.r.HandleFunc("/shutdown", h.postShutdown).Methods("POST")
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.r.ServeHTTP(w, r)
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.Write(b)
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, ok)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.t.Status())
}

// getLog serves the retained supervisor events.  An If-None-Match tag
// suppresses an unchanged reply with 304, and the poll headers turn the
// request into a bounded long poll.
func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	var last int64
	if tag := r.Header.Get("If-None-Match"); tag != "" {
		if v, e := strconv.ParseInt(tag, 10, 64); e == nil {
			last = v
		}
		if tag == r.Header.Get(PollEtagHeader) {
			secs, _ := strconv.Atoi(r.Header.Get(PollTimeHeader))
			if secs > 0 {
				h.t.WatchLog(last, time.Duration(secs)*time.Second)
			}
		}
	}
	recs, id := h.t.LogRecords(last)
	if recs == nil && last != 0 {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Etag", strconv.FormatInt(id, 10))
	h.writeJson(w, recs)
}

func (h *Handler) postShutdown(w http.ResponseWriter, r *http.Request) {
	if e := h.t.Shutdown(); e != nil {
		h.internalError(w, e)
		return
	}
	h.writeJson(w, ok)
}
