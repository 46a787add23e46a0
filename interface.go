// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"context"
	"net/http"
)

// A Requester sends a request with any method. Session implements
// Requester, as do wrappers around a Session that add behavior.
type Requester interface {
	// Request sends an HTTP request with the given method and returns
	// the response, following the contract of Session.Request.
	Request(ctx context.Context, method, url string, opts ...Option) (*Response, error)
}

// A Getter sends GET requests.
type Getter interface {
	Get(ctx context.Context, url string, opts ...Option) (*Response, error)
}

// A HeadRequester sends HEAD requests.
type HeadRequester interface {
	Head(ctx context.Context, url string, opts ...Option) (*Response, error)
}

// An OptionsRequester sends OPTIONS requests.
type OptionsRequester interface {
	Options(ctx context.Context, url string, opts ...Option) (*Response, error)
}

// A Deleter sends DELETE requests.
type Deleter interface {
	Delete(ctx context.Context, url string, opts ...Option) (*Response, error)
}

// A Poster sends POST requests.
type Poster interface {
	Post(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error)
}

// A Putter sends PUT requests.
type Putter interface {
	Put(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error)
}

// A Patcher sends PATCH requests.
type Patcher interface {
	Patch(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error)
}

// An IdleCloser closes idle connections. Transports and Sessions
// implement IdleCloser.
type IdleCloser interface {
	CloseIdleConnections()
}

// An Executor has a method per HTTP verb. Session implements Executor.
type Executor interface {
	Requester
	Getter
	HeadRequester
	OptionsRequester
	Deleter
	Poster
	Putter
	Patcher
	IdleCloser
}

// Inflate converts a Requester into an Executor. If r already is one it
// is returned unchanged. Otherwise the verb methods of the result call
// r.Request, and its CloseIdleConnections calls r's method of the same
// name if r is an IdleCloser.
func Inflate(r Requester) Executor {
	if r == nil {
		panic("rapidhttp: nil requester")
	}

	if e, ok := r.(Executor); ok {
		return e
	}

	return inflated{r}
}

type inflated struct {
	r Requester
}

func (i inflated) Request(ctx context.Context, method, url string, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, method, url, opts...)
}

func (i inflated) Get(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodGet, url, opts...)
}

func (i inflated) Head(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodHead, url, opts...)
}

func (i inflated) Options(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodOptions, url, opts...)
}

func (i inflated) Delete(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodDelete, url, opts...)
}

func (i inflated) Post(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodPost, url, withBody(body, opts)...)
}

func (i inflated) Put(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodPut, url, withBody(body, opts)...)
}

func (i inflated) Patch(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return i.r.Request(ctx, http.MethodPatch, url, withBody(body, opts)...)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.r.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
