// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// The category Not means a retry after the error is very unlikely to
// succeed. Every other category means a retry has some prospect of
// success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota

	// Timeout indicates a client-side timeout: a connect timeout, a
	// read timeout, or an expired deadline. The server may be going
	// through a temporary period of slowness.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout method that reports true.
	Timeout

	// ConnRefused indicates the remote host refused the connection
	// (ECONNREFUSED). The service may be starting or restarting.
	ConnRefused

	// ConnReset indicates the remote host reset a previously active
	// connection (ECONNRESET), as happens when a service or load
	// balancer drops connections during a deployment.
	ConnReset

	// ConnClosed indicates the remote host closed the connection before
	// the response was complete, reported as io.EOF or
	// io.ErrUnexpectedEOF. Servers commonly do this to idle keep-alive
	// connections at the moment a client reuses them.
	ConnClosed
)

var categoryNames = []string{"Not", "Timeout", "ConnRefused", "ConnReset", "ConnClosed"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of err. A nil error, and
// an error that is not transient, both produce Not.
//
// Categorize looks at wrapped causes, not just err itself, so it
// classifies rapidhttp's own error values by their underlying cause.
// It never consults a Temporary method, as the semantics of Temporary
// aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ConnClosed
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
