// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"net/http"
	"time"

	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
	"github.com/gogama/rapidhttp/transient"
)

// A Decider decides, after a failed attempt, whether the session should
// make another.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Build deciders from Times, Before, StatusCode, and ErrKind, and the
// ready-made deciders Idempotent and TransientErr, composing them with
// DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It also provides the logical composition
// methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of retries DefaultDecider allows.
const DefaultTimes = 3

// DefaultDecider allows up to DefaultTimes retries of idempotent
// requests which failed with a transient error or received one of the
// status codes 429, 502, 503, or 504.
var DefaultDecider = Times(DefaultTimes).
	And(Idempotent).
	And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr is a decider that indicates a retry if the current
// error is transient according to transient.Categorize. It returns
// false whenever the attempt received a response.
var TransientErr DeciderFunc = transientErr

// Idempotent is a decider that indicates a retry only if the plan's
// method is idempotent as defined by RFC 7231 section 4.2.2: GET, HEAD,
// OPTIONS, TRACE, PUT, or DELETE.
var Idempotent DeciderFunc = idempotent

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And returns a decider which is true when both f and g are. g is not
// evaluated if f is false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or returns a decider which is true when either f or g is. g is not
// evaluated if f is true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times returns a decider allowing up to n retries: it is true while
// e.Attempt is less than n.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before returns a decider allowing retries until d has elapsed since
// the execution started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Elapsed() < d
	}
}

// StatusCode returns a decider which is true if the most recent attempt
// received a response whose status code is one of ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

// ErrKind returns a decider which is true if the most recent attempt
// failed with a *reqerr.Error within one of kinds. For example
// ErrKind(reqerr.ConnectTimeout) retries only attempts which never
// reached the server.
func ErrKind(kinds ...reqerr.Kind) DeciderFunc {
	kinds2 := make([]reqerr.Kind, len(kinds))
	copy(kinds2, kinds)
	return func(e *request.Execution) bool {
		if e.Err == nil {
			return false
		}
		for _, k := range kinds2 {
			if errors.Is(e.Err, k) {
				return true
			}
		}
		return false
	}
}

func transientErr(e *request.Execution) bool {
	if e.Response != nil {
		return false
	}
	return transient.Categorize(e.Err) != transient.Not
}

func idempotent(e *request.Execution) bool {
	if e.Plan == nil {
		return false
	}
	switch e.Plan.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace,
		http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
