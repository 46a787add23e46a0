// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/gogama/rapidhttp/transient"
)

// An Execution tracks one call through a session's attempt loop.
//
// The session owns the exported fields and updates them as attempts are
// made. Retry and timeout policies and event handlers read them, and
// may keep their own per-call state with SetValue and Value.
type Execution struct {
	// Plan is the resolved request. Never nil.
	Plan *Plan

	// Start and End bracket the call. End is zero until the call
	// returns to the caller.
	Start, End time.Time

	// Attempt numbers the current attempt from zero. After the call
	// ends it is the number of the final attempt.
	Attempt int

	// AttemptTimeouts counts attempts that ended in a timeout.
	AttemptTimeouts int

	// Response is what the transport returned for the latest attempt,
	// or nil if there was none.
	Response *Response

	// Err is the latest attempt's error. After the call ends it is the
	// error the caller receives.
	Err error

	values map[interface{}]interface{}
}

// StatusCode returns the latest response status, or 0 without one.
func (e *Execution) StatusCode() int {
	if e.Response != nil {
		return e.Response.StatusCode
	}
	return 0
}

// Header returns the latest response header. Without a response it
// returns a nil header, which reads as empty.
func (e *Execution) Header() http.Header {
	if e.Response != nil {
		return e.Response.Header
	}
	return nil
}

// Elapsed is zero before the call starts, the time since Start while it
// runs, and End-Start once it has ended.
func (e *Execution) Elapsed() time.Duration {
	switch {
	case !e.Started():
		return 0
	case e.Ended():
		return e.End.Sub(e.Start)
	default:
		return time.Since(e.Start)
	}
}

// Started reports whether Start is set.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether End is set.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether Err is a timeout of any kind, including the
// plan's own deadline.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores value under key for the rest of the call. Keys must be
// comparable; unexported key types avoid collisions between handlers.
func (e *Execution) SetValue(key, value interface{}) {
	if key == nil {
		panic("rapidhttp: nil key")
	}
	if e.values == nil {
		e.values = make(map[interface{}]interface{})
	}
	e.values[key] = value
}

// Value returns the value stored under key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	return e.values[key]
}
