// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"context"
	"testing"
	"time"

	"github.com/gogama/rapidhttp/request"
	"github.com/stretchr/testify/mock"
)

type mockTransport struct {
	mock.Mock
}

func newMockTransport(t *testing.T) *mockTransport {
	m := &mockTransport{}
	m.Test(t)
	return m
}

func (m *mockTransport) Perform(ctx context.Context, p *request.Plan) (*request.Response, error) {
	args := m.Called(ctx, p)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*request.Response); ok {
		return resp, err
	}
	return nil, err
}

type mockClosingTransport struct {
	mockTransport
}

func newMockClosingTransport(t *testing.T) *mockClosingTransport {
	m := &mockClosingTransport{}
	m.Test(t)
	return m
}

func (m *mockClosingTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockIdleTransport struct {
	mockTransport
}

func newMockIdleTransport(t *testing.T) *mockIdleTransport {
	m := &mockIdleTransport{}
	m.Test(t)
	return m
}

func (m *mockIdleTransport) CloseIdleConnections() {
	m.Called()
}

type mockTimeoutPolicy struct {
	mock.Mock
}

func newMockTimeoutPolicy(t *testing.T) *mockTimeoutPolicy {
	m := &mockTimeoutPolicy{}
	m.Test(t)
	return m
}

func (m *mockTimeoutPolicy) Timeout(e *request.Execution) time.Duration {
	args := m.Called(e)
	return args.Get(0).(time.Duration)
}

type mockRetryPolicy struct {
	mock.Mock
}

func newMockRetryPolicy(t *testing.T) *mockRetryPolicy {
	m := &mockRetryPolicy{}
	m.Test(t)
	return m
}

func (m *mockRetryPolicy) Decide(e *request.Execution) bool {
	args := m.Called(e)
	return args.Bool(0)
}

func (m *mockRetryPolicy) Wait(e *request.Execution) time.Duration {
	args := m.Called(e)
	return args.Get(0).(time.Duration)
}

func (g *HandlerGroup) mock(evt Event) *mockHandler {
	if int(evt) < len(g.handlers) {
		for _, h := range g.handlers[evt] {
			if m, ok := h.(*mockHandler); ok {
				return m
			}
		}
	}

	m := &mockHandler{}
	g.PushBack(evt, m)
	return m
}

func (g *HandlerGroup) assertExpectations(t *testing.T) {
	for _, evt := range Events() {
		if int(evt) >= len(g.handlers) {
			return
		}
		for _, h := range g.handlers[evt] {
			if m, ok := h.(*mockHandler); ok {
				m.AssertExpectations(t)
			}
		}
	}
}

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Handle(evt Event, e *request.Execution) {
	m.Called(evt, e)
}

type trace struct {
	calls []string
}

func (g *HandlerGroup) addTraceHandlers() *trace {
	tr := &trace{}
	h := HandlerFunc(func(evt Event, _ *request.Execution) {
		tr.calls = append(tr.calls, evt.Name())
	})
	for _, evt := range Events() {
		g.PushBack(evt, h)
	}
	return tr
}

type mockRequester struct {
	mock.Mock
}

func newMockRequester(t *testing.T) *mockRequester {
	m := &mockRequester{}
	m.Test(t)
	return m
}

func (m *mockRequester) Request(ctx context.Context, method, url string, opts ...Option) (*Response, error) {
	args := m.Called(ctx, method, url, opts)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*Response); ok {
		return resp, err
	}
	return nil, err
}

type mockIdleRequester struct {
	mockRequester
}

func newMockIdleRequester(t *testing.T) *mockIdleRequester {
	m := &mockIdleRequester{}
	m.Test(t)
	return m
}

func (m *mockIdleRequester) CloseIdleConnections() {
	m.Called()
}

type mockCodec struct {
	mock.Mock
}

func newMockCodec(t *testing.T) *mockCodec {
	m := &mockCodec{}
	m.Test(t)
	return m
}

func (m *mockCodec) Name() string {
	return "mock"
}

func (m *mockCodec) Marshal(v interface{}) ([]byte, error) {
	args := m.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockCodec) Decode(data []byte) (interface{}, error) {
	args := m.Called(data)
	return args.Get(0), args.Error(1)
}

func (m *mockCodec) Unmarshal(data []byte, v interface{}) error {
	args := m.Called(data, v)
	return args.Error(0)
}
