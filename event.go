// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

// An Event identifies a point in a call's attempt loop where a Session
// runs the handlers installed in its HandlerGroup.
type Event int

const (
	// BeforeExecutionStart occurs once per call, after the plan is
	// resolved and before the first attempt. Only the execution's Plan
	// is set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt occurs before the transport performs each attempt.
	// Attempt holds the attempt number and Response and Err are nil.
	BeforeAttempt
	// AfterAttemptTimeout occurs after an attempt failed with a connect
	// or read timeout, or hit the deadline of the call's context. Err
	// holds the timeout error and AttemptTimeouts has been incremented.
	AfterAttemptTimeout
	// AfterAttempt occurs after every attempt, successful or not, and
	// before the retry policy is consulted. Exactly one of Response and
	// Err is set.
	AfterAttempt
	// AfterPlanTimeout occurs when the deadline of the call's context
	// passes, either during an attempt or while waiting to retry. It
	// always follows the AfterAttempt of the same attempt.
	AfterPlanTimeout
	// AfterExecutionEnd occurs once per call, after the last attempt.
	// End is set and Response and Err hold the call's result.
	AfterExecutionEnd

	eventSentinel

	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns every event, in the order in which they can occur
// during a call.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttemptTimeout,
		AfterAttempt,
		AfterPlanTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
