// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gogama/rapidhttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attempt(n int) *request.Execution {
	return &request.Execution{Attempt: n}
}

func TestDefaultWaiter(t *testing.T) {
	for n := 0; n < 12; n++ {
		ceiling := 50 * time.Millisecond << n
		if ceiling > time.Second {
			ceiling = time.Second
		}
		wait := DefaultWaiter.Wait(attempt(n))
		assert.GreaterOrEqual(t, wait, time.Duration(0), "attempt %d", n)
		assert.LessOrEqual(t, wait, ceiling, "attempt %d", n)
	}
}

func TestNewFixedWaiter(t *testing.T) {
	w := NewFixedWaiter(7 * time.Millisecond)
	for n := 0; n < 3; n++ {
		assert.Equal(t, 7*time.Millisecond, w.Wait(attempt(n)))
	}
}

func TestNewExpWaiter(t *testing.T) {
	t.Run("invalid arguments", func(t *testing.T) {
		var nilRand *rand.Rand
		testCases := []struct {
			name      string
			base, max time.Duration
			jitter    interface{}
			msg       string
		}{
			{"zero base", 0, time.Second, nil, "rapidhttp/retry: base must be positive"},
			{"negative base", -time.Millisecond, time.Second, nil, "rapidhttp/retry: base must be positive"},
			{"max below base", time.Second, time.Millisecond, nil, "rapidhttp/retry: max must be at least base"},
			{"float jitter", time.Millisecond, time.Second, 0.5, "rapidhttp/retry: invalid jitter type"},
			{"nil *rand.Rand", time.Millisecond, time.Second, nilRand, "rapidhttp/retry: jitter may not be a typed nil"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				assert.PanicsWithValue(t, testCase.msg, func() {
					NewExpWaiter(testCase.base, testCase.max, testCase.jitter)
				})
			})
		}
	})
	t.Run("without jitter", func(t *testing.T) {
		var source rand.Source
		for _, jitter := range []interface{}{nil, source} {
			w := NewExpWaiter(10*time.Millisecond, 300*time.Millisecond, jitter)
			require.IsType(t, &jitterExpWaiter{}, w)
			assert.Nil(t, w.(*jitterExpWaiter).rand)

			testCases := []struct {
				attempt int
				want    time.Duration
			}{
				{0, 10 * time.Millisecond},
				{1, 20 * time.Millisecond},
				{4, 160 * time.Millisecond},
				{5, 300 * time.Millisecond},
				{40, 300 * time.Millisecond},
				{63, 300 * time.Millisecond},
				{math.MaxInt32, 300 * time.Millisecond},
			}
			for _, testCase := range testCases {
				assert.Equal(t, testCase.want, w.Wait(attempt(testCase.attempt)), "attempt %d", testCase.attempt)
			}
		}
	})
	t.Run("with jitter", func(t *testing.T) {
		jitters := map[string]interface{}{
			"time.Time":   time.Unix(1, 0),
			"int":         7,
			"int64":       int64(7),
			"rand.Source": rand.NewSource(7),
			"*rand.Rand":  rand.New(rand.NewSource(7)),
		}
		for name, jitter := range jitters {
			t.Run(name, func(t *testing.T) {
				w := NewExpWaiter(time.Millisecond, time.Second, jitter)
				var total time.Duration
				for n := 0; n < 50; n++ {
					d := w.Wait(attempt(n))
					total += d
					assert.GreaterOrEqual(t, d, time.Duration(0))
					assert.Less(t, d, time.Second)
				}
				assert.Greater(t, total, time.Duration(0))
			})
		}
	})
	t.Run("concurrent use", func(t *testing.T) {
		w := NewExpWaiter(time.Millisecond, time.Hour, 3)
		var wg sync.WaitGroup
		errs := make(chan string, 64*20)
		for g := 0; g < 64; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for n := 0; n < 20; n++ {
					ceiling := time.Millisecond << n
					if d := w.Wait(attempt(n)); d < 0 || d >= ceiling {
						errs <- fmt.Sprintf("goroutine %d attempt %d: wait %v outside [0, %v)", g, n, d, ceiling)
					}
				}
			}(g)
		}
		wg.Wait()
		close(errs)
		for msg := range errs {
			t.Error(msg)
		}
	})
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	fallback := NewFixedWaiter(42 * time.Millisecond)
	w := RetryAfter(fallback, time.Minute).(*retryAfterWaiter)
	w.now = func() time.Time { return now }

	testCases := []struct {
		name     string
		status   int
		header   string
		expected time.Duration
	}{
		{"seconds on 429", 429, "3", 3 * time.Second},
		{"seconds on 503", 503, " 0 ", 0},
		{"capped", 503, "3600", time.Minute},
		{"HTTP date", 429, now.Add(10 * time.Second).Format(http.TimeFormat), 10 * time.Second},
		{"HTTP date in past", 429, now.Add(-time.Hour).Format(http.TimeFormat), 0},
		{"negative", 429, "-1", 42 * time.Millisecond},
		{"garbage", 429, "soon", 42 * time.Millisecond},
		{"missing", 503, "", 42 * time.Millisecond},
		{"ignored on other status", 500, "3", 42 * time.Millisecond},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			h := http.Header{}
			if testCase.header != "" {
				h.Set("Retry-After", testCase.header)
			}
			e := &request.Execution{Response: &request.Response{StatusCode: testCase.status, Header: h}}
			assert.Equal(t, testCase.expected, w.Wait(e))
		})
	}
	t.Run("no response", func(t *testing.T) {
		assert.Equal(t, 42*time.Millisecond, w.Wait(&request.Execution{}))
	})
	t.Run("nil fallback", func(t *testing.T) {
		require.PanicsWithValue(t, "rapidhttp/retry: nil fallback waiter", func() { RetryAfter(nil, time.Second) })
	})
}
