// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/rapidhttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDefault(t *testing.T) {
	t.Run("Decider", func(t *testing.T) {
		s := []int{429, 502, 503, 504}
		for i := 0; i < DefaultTimes; i++ {
			assert.True(t, DefaultPolicy.Decide(&request.Execution{
				Plan:     plan("GET"),
				Attempt:  i,
				Response: &request.Response{StatusCode: s[i%len(s)]},
			}))
			assert.True(t, DefaultPolicy.Decide(&request.Execution{
				Plan:    plan("DELETE"),
				Attempt: i,
				Err:     syscall.ECONNRESET,
			}))
		}
		assert.False(t, DefaultPolicy.Decide(&request.Execution{
			Plan:    plan("GET"),
			Attempt: DefaultTimes,
			Err:     syscall.ETIMEDOUT,
		}))
	})
	t.Run("Waiter", func(t *testing.T) {
		m := []int{50, 100, 200, 400, 800, 1000}
		for i, max := range m {
			w := DefaultPolicy.Wait(&request.Execution{Attempt: i})
			assert.GreaterOrEqual(t, w, time.Duration(0))
			assert.LessOrEqual(t, w, time.Duration(max)*time.Millisecond)
		}
	})
	t.Run("Waiter honors Retry-After", func(t *testing.T) {
		w := DefaultPolicy.Wait(&request.Execution{
			Response: &request.Response{
				StatusCode: 503,
				Header:     http.Header{"Retry-After": {"2"}},
			},
		})
		assert.Equal(t, 2*time.Second, w)
	})
}

func TestNever(t *testing.T) {
	assert.False(t, Never.Decide(&request.Execution{Plan: plan("GET")}))
	assert.False(t, Never.Decide(&request.Execution{Plan: plan("GET"), Response: &request.Response{StatusCode: 503}}))
	assert.Equal(t, time.Duration(0), Never.Wait(&request.Execution{}))
}

func TestNewPolicy(t *testing.T) {
	t.Run("Bad Args", func(t *testing.T) {
		p := &mockPolicy{}
		assert.PanicsWithValue(t, "rapidhttp/retry: nil decider or waiter", func() { NewPolicy(nil, p) })
		assert.PanicsWithValue(t, "rapidhttp/retry: nil decider or waiter", func() { NewPolicy(p, nil) })
	})
	t.Run("Normal", func(t *testing.T) {
		p := &mockPolicy{}
		p.Test(t)
		e := &request.Execution{Attempt: 2}
		p.On("Decide", e).Return(true).Once()
		p.On("Wait", e).Return(time.Second).Once()

		P := NewPolicy(p, p)

		assert.True(t, P.Decide(e))
		assert.Equal(t, time.Second, P.Wait(e))
		p.AssertExpectations(t)
	})
}

type mockPolicy struct {
	mock.Mock
}

func (m *mockPolicy) Decide(e *request.Execution) bool {
	args := m.Called(e)
	return args.Bool(0)
}

func (m *mockPolicy) Wait(e *request.Execution) time.Duration {
	args := m.Called(e)
	return args.Get(0).(time.Duration)
}
