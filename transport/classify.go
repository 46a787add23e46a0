// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
)

// A RedirectError is returned through the HTTP client when a plan's
// redirect limit is exceeded. Classify turns it into a TooManyRedirects
// error.
type RedirectError struct {
	Max int
}

func (err *RedirectError) Error() string {
	return fmt.Sprintf("exceeded %d redirects", err.Max)
}

// checkRedirect returns the redirect policy for p: stop at the first
// redirect response when redirects are off, otherwise follow at most
// p.MaxRedirects of them.
func checkRedirect(p *request.Plan) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if !p.AllowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) > p.MaxRedirects {
			return &RedirectError{Max: p.MaxRedirects}
		}
		return nil
	}
}

// withTimeout bounds ctx by d unless d is zero.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// A connTracker records whether an attempt obtained a connection, which
// is what separates a connect timeout from a read timeout.
type connTracker struct {
	got atomic.Bool
}

func (c *connTracker) connected() bool {
	return c.got.Load()
}

func trackConn(ctx context.Context) (context.Context, *connTracker) {
	c := &connTracker{}
	trace := &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) {
			c.got.Store(true)
		},
	}
	return httptrace.WithClientTrace(ctx, trace), c
}

// Classify converts a failure of one attempt into a *reqerr.Error.
//
// The attempt context ctx and the connected flag decide the timing
// kinds: an attempt that hit its deadline is a ConnectTimeout if no
// connection had been obtained and a ReadTimeout otherwise. A cancelled
// context gives a root-kind Request error wrapping context.Canceled. A
// RedirectError gives TooManyRedirects. Every other failure is a
// Connection error. An error which is already a *reqerr.Error is
// returned unchanged.
func Classify(ctx context.Context, op, rawURL string, err error, connected bool) *reqerr.Error {
	var classified *reqerr.Error
	if errors.As(err, &classified) {
		return classified
	}

	cause := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	e := &reqerr.Error{Kind: reqerr.Connection, Op: op, URL: rawURL, Err: cause, Offset: -1}

	var redirectErr *RedirectError
	switch {
	case errors.As(err, &redirectErr):
		e.Kind = reqerr.TooManyRedirects
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		e.Kind = reqerr.Request
		e.Msg = "request canceled"
		if !errors.Is(cause, context.Canceled) {
			e.Err = fmt.Errorf("%w: %v", context.Canceled, cause)
		}
	case isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		if connected {
			e.Kind = reqerr.ReadTimeout
		} else {
			e.Kind = reqerr.ConnectTimeout
		}
	}
	return e
}

// A PhaseReporter is an error that reports whether its attempt had
// obtained a connection when it failed.
type PhaseReporter interface {
	error
	Connected() bool
}

// ClassifyExternal converts an error from a transport that is not part
// of this package. A timeout is a ConnectTimeout or ReadTimeout only if
// the error, or one it wraps, is a PhaseReporter. Otherwise it gets the
// parent Timeout kind. Everything else is classified as by Classify.
func ClassifyExternal(ctx context.Context, op, rawURL string, err error) *reqerr.Error {
	var classified *reqerr.Error
	if errors.As(err, &classified) {
		return classified
	}
	var reporter PhaseReporter
	if errors.As(err, &reporter) {
		return Classify(ctx, op, rawURL, err, reporter.Connected())
	}
	e := Classify(ctx, op, rawURL, err, false)
	if e.Kind == reqerr.ConnectTimeout {
		e.Kind = reqerr.Timeout
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func configError(op, rawURL string, err error) *reqerr.Error {
	return &reqerr.Error{Kind: reqerr.Configuration, Op: op, URL: rawURL, Err: err, Offset: -1}
}
