// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"context"
	"testing"

	"github.com/gogama/rapidhttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInflate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "rapidhttp: nil requester", func() {
			Inflate(nil)
		})
	})
	t.Run("session is an executor", func(t *testing.T) {
		s := &Session{}
		assert.Same(t, s, Inflate(s))
	})
	t.Run("verbs", func(t *testing.T) {
		ctx := context.Background()
		testCases := []struct {
			method string
			nOpts  int
			call   func(x Executor) (*Response, error)
		}{
			{"GET", 1, func(x Executor) (*Response, error) { return x.Get(ctx, "u", Param("a", "b")) }},
			{"HEAD", 0, func(x Executor) (*Response, error) { return x.Head(ctx, "u") }},
			{"OPTIONS", 0, func(x Executor) (*Response, error) { return x.Options(ctx, "u") }},
			{"DELETE", 0, func(x Executor) (*Response, error) { return x.Delete(ctx, "u") }},
			{"POST", 2, func(x Executor) (*Response, error) { return x.Post(ctx, "u", "body", Param("a", "b")) }},
			{"PUT", 1, func(x Executor) (*Response, error) { return x.Put(ctx, "u", nil) }},
			{"PATCH", 1, func(x Executor) (*Response, error) { return x.Patch(ctx, "u", 1) }},
			{"BREW", 0, func(x Executor) (*Response, error) { return x.Request(ctx, "BREW", "u") }},
		}
		for _, testCase := range testCases {
			t.Run(testCase.method, func(t *testing.T) {
				mockRequester := newMockRequester(t)
				resp := newTestResponse(200, nil, nil)
				mockRequester.On("Request", ctx, testCase.method, "u", mock.MatchedBy(func(opts []Option) bool {
					return len(opts) == testCase.nOpts
				})).Return(resp, nil).Once()
				x := Inflate(mockRequester)

				r, err := testCase.call(x)

				require.NoError(t, err)
				assert.Same(t, resp, r)
				mockRequester.AssertExpectations(t)
			})
		}
	})
	t.Run("body option applied", func(t *testing.T) {
		mockRequester := newMockRequester(t)
		var got []Option
		mockRequester.On("Request", mock.Anything, "POST", "u", mock.Anything).
			Run(func(args mock.Arguments) {
				got = args.Get(3).([]Option)
			}).
			Return(nil, nil).Once()

		_, _ = Inflate(mockRequester).Post(context.Background(), "u", map[string]string{"k": "v"})

		require.Len(t, got, 1)
		c := callOf(got...)
		assert.Equal(t, request.Values{{Key: "k", Value: "v"}}, c.Form)
	})
	t.Run("CloseIdleConnections", func(t *testing.T) {
		plain := newMockRequester(t)
		assert.NotPanics(t, Inflate(plain).CloseIdleConnections)

		idle := newMockIdleRequester(t)
		idle.On("CloseIdleConnections").Return().Once()
		Inflate(idle).CloseIdleConnections()
		idle.AssertExpectations(t)
	})
}
