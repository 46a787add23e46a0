// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/rapidhttp/request"
)

// A Policy sets the timeout of each request attempt in a call,
// including retries. A zero timeout means the attempt is bounded only
// by the caller's context.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next attempt of the
	// execution e.
	Timeout(e *request.Execution) time.Duration
}

// FromPlan is the timeout policy which uses the timeout resolved into
// the plan from the call and session settings. It is the default.
var FromPlan Policy = fromPlan{}

// DefaultPolicy is the policy a session uses when it has none.
var DefaultPolicy = FromPlan

// Infinite is a policy which never times out.
var Infinite Policy = Fixed(0)

type fromPlan struct{}

func (fromPlan) Timeout(e *request.Execution) time.Duration {
	if e.Plan == nil {
		return 0
	}
	return e.Plan.Timeout
}

// Fixed returns a policy setting every attempt timeout to d.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive returns a policy that lengthens the timeout after attempts
// which timed out.
//
// The policy returns usual for the first attempt and for any retry
// whose preceding attempt did not time out. If the preceding attempt
// timed out, and it was the n-th timeout of the execution, after[n-1]
// is returned, or the last element of after once n exceeds its length.
//
// For example
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// uses 200 milliseconds usually, 1 second right after the first
// timeout, and 10 seconds right after any later one.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
