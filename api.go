// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"context"
	"net/http"
)

// Request sends one request using a new Session built by NewSession,
// and closes the session before returning, whether or not the call
// succeeded. The response body is fully read by then.
//
// Code making several requests should create one Session and reuse it,
// so connections are pooled.
func Request(ctx context.Context, method, url string, opts ...Option) (*Response, error) {
	s, err := NewSession()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.Close()
	}()
	return s.Request(ctx, method, url, opts...)
}

// Get sends a GET request as Request does.
func Get(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodGet, url, opts...)
}

// Head sends a HEAD request as Request does. Redirects are not followed
// unless the AllowRedirects option says so.
func Head(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodHead, url, opts...)
}

// Options sends an OPTIONS request as Request does.
func Options(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodOptions, url, opts...)
}

// Delete sends a DELETE request as Request does.
func Delete(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodDelete, url, opts...)
}

// Post sends a POST request as Request does. The body is interpreted as
// by the Body option.
func Post(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodPost, url, withBody(body, opts)...)
}

// Put sends a PUT request as Request does. The body is interpreted as
// by the Body option.
func Put(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodPut, url, withBody(body, opts)...)
}

// Patch sends a PATCH request as Request does. The body is interpreted
// as by the Body option.
func Patch(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return Request(ctx, http.MethodPatch, url, withBody(body, opts)...)
}
