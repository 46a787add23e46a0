// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides retry policies for rapidhttp sessions.
//
// A session makes exactly one attempt per call unless it is given a
// Policy. A Policy is assembled with NewPolicy from a Decider, which
// chooses whether to retry, and a Waiter, which chooses how long to
// wait first:
//
//	decider := retry.Times(3).
//		And(retry.Idempotent).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.RetryAfter(retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, nil), time.Minute)
//	policy := retry.NewPolicy(decider, waiter)
package retry
