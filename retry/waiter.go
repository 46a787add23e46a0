// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gogama/rapidhttp/request"
)

// A Waiter says how long to wait before the next attempt. A session
// only consults the Waiter after the Decider chose to retry.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter uses jittered exponential backoff with a base wait of
// 50 milliseconds and a maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter returns a Waiter that always returns d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a Waiter implementing exponential backoff with
// optional "Full Jitter", as described in
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// The ceiling for attempt n is min(base * 2**n, max). Base must be
// positive and max must be at least base.
//
// With a nil jitter the ceiling itself is returned. Otherwise the wait
// is a random duration in [0, ceiling) drawn from jitter, which may be a
// seed (time.Time, int, or int64), a *rand.Rand, or a rand.Source.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("rapidhttp/retry: base must be positive")
	}
	if max < base {
		panic("rapidhttp/retry: max must be at least base")
	}
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(e *request.Execution) time.Duration {
	exp := int64(1) << e.Attempt
	if exp < 1 {
		exp = 1<<63 - 1
	}

	ceil := int64(w.base) * exp
	if ceil < int64(w.base) || int64(w.max) < ceil {
		ceil = int64(w.max)
	}

	duration := ceil
	if ceil > 0 && w.rand != nil {
		w.lock.Lock()
		duration = w.rand.Int63n(ceil)
		w.lock.Unlock()
	}

	return time.Duration(duration)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("rapidhttp/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("rapidhttp/retry: invalid jitter type")
	}
	return rand.New(s)
}

// RetryAfter returns a Waiter honoring the Retry-After header of 429
// and 503 responses, given either in seconds or as an HTTP date. The
// wait is capped at max. Without a usable header the fallback waiter
// decides.
func RetryAfter(fallback Waiter, max time.Duration) Waiter {
	if fallback == nil {
		panic("rapidhttp/retry: nil fallback waiter")
	}
	return &retryAfterWaiter{fallback: fallback, max: max, now: time.Now}
}

type retryAfterWaiter struct {
	fallback Waiter
	max      time.Duration
	now      func() time.Time
}

func (w *retryAfterWaiter) Wait(e *request.Execution) time.Duration {
	switch e.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		if d, ok := parseRetryAfter(e.Header().Get("Retry-After"), w.now()); ok {
			if d > w.max {
				return w.max
			}
			return d
		}
	}
	return w.fallback.Wait(e)
}

func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
