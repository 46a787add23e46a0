// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/rapidhttp/request"
)

// A Policy decides, after every attempt of a call, whether to retry
// and how long to wait first. It is the composition of a Decider and a
// Waiter.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy composes DefaultDecider with a RetryAfter waiter that
// falls back to DefaultWaiter.
var DefaultPolicy Policy = policy{DefaultDecider, RetryAfter(DefaultWaiter, 30*time.Second)}

// Never is a policy that never retries. A session without a retry
// policy uses Never, so every call makes exactly one attempt.
var Never Policy = policy{Times(0), NewFixedWaiter(0)}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil || w == nil {
		panic("rapidhttp/retry: nil decider or waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
