// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/rapidhttp/request"
)

// A Kind names one node of the error hierarchy. Kind implements error
// so that a Kind can be the target of errors.Is:
//
//	if errors.Is(err, reqerr.Timeout) { ... }
//
// matches both ConnectTimeout and ReadTimeout errors, and
//
//	if errors.Is(err, reqerr.Request) { ... }
//
// matches every error this package produces.
type Kind int

const (
	// Request is the root kind. Every Error is a Request error.
	Request Kind = iota
	// Connection is a connection-level transport failure, for example
	// DNS resolution failure or a refused or reset connection.
	Connection
	// Timeout is the parent of the two timing kinds. On its own it
	// means a transport reported a timeout without saying whether a
	// connection had been obtained.
	Timeout
	// ConnectTimeout means the attempt timed out before a connection
	// to the server was obtained. It is both a Timeout and a
	// Connection error.
	ConnectTimeout
	// ReadTimeout means the attempt timed out after the connection was
	// obtained and the request sent, but before the response was
	// complete.
	ReadTimeout
	// TooManyRedirects means the redirect limit was exceeded.
	TooManyRedirects
	// URLRequired means the URL was missing or invalid. It is detected
	// before any network activity.
	URLRequired
	// Configuration means the call was configured inconsistently, for
	// example with two body kinds or an unknown method. It is detected
	// before any network activity.
	Configuration
	// HTTP is produced on request by Response.RaiseForStatus when the
	// status code is 400 or above.
	HTTP
	// Decode means the response body could not be decoded as text or
	// structured data.
	Decode

	kindSentinel
)

var kindNames = [...]string{
	"RequestException",
	"ConnectionError",
	"Timeout",
	"ConnectTimeout",
	"ReadTimeout",
	"TooManyRedirects",
	"URLRequired",
	"ConfigurationError",
	"HTTPError",
	"DecodeError",
}

var kindParents = [...][]Kind{
	Request:          nil,
	Connection:       {Request},
	Timeout:          {Request},
	ConnectTimeout:   {Connection, Timeout},
	ReadTimeout:      {Timeout},
	TooManyRedirects: {Request},
	URLRequired:      {Request},
	Configuration:    {Request},
	HTTP:             {Request},
	Decode:           {Request},
}

// Kinds returns every kind, root first.
func Kinds() []Kind {
	kinds := make([]Kind, kindSentinel)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || k >= kindSentinel {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error returns the kind name, which lets a Kind be used as an error
// target.
func (k Kind) Error() string {
	return "rapidhttp: " + k.String()
}

// Parents returns the immediate parent kinds of k. The root has none.
func (k Kind) Parents() []Kind {
	if k < 0 || k >= kindSentinel {
		return nil
	}
	return kindParents[k]
}

// Within reports whether k is target or a descendant of target.
func (k Kind) Within(target Kind) bool {
	if k == target {
		return true
	}
	for _, parent := range k.Parents() {
		if parent.Within(target) {
			return true
		}
	}
	return false
}

// An Error is a classified rapidhttp failure.
//
// Fields other than Kind are optional. Err holds the underlying cause,
// if any, and is exposed through Unwrap, so errors.Is and errors.As see
// through an Error to its cause, for example context.Canceled or a
// *net.OpError.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Op is the operation, typically the HTTP method in title case as
	// in url.Error ("Get", "Post").
	Op string
	// URL is the request URL, if known.
	URL string
	// Msg is an optional human-readable description. If empty, the
	// cause's message is used.
	Msg string
	// Err is the underlying cause, or nil.
	Err error
	// Response is the response received before the failure, if any.
	// It is set for HTTP errors and for decode errors.
	Response *request.Response
	// StatusCode and Reason are set for HTTP errors.
	StatusCode int
	Reason     string
	// Offset is the byte offset of a decode error in the response body,
	// or -1 if unknown. It is meaningful only for Decode errors.
	Offset int64
}

func (err *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("rapidhttp: ")
	sb.WriteString(err.Kind.String())
	if err.Op != "" || err.URL != "" {
		sb.WriteString(": ")
		sb.WriteString(err.Op)
		if err.URL != "" {
			if err.Op != "" {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%q", err.URL))
		}
	}
	msg := err.Msg
	if msg == "" && err.Err != nil {
		msg = err.Err.Error()
	}
	if msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is a Kind that err's Kind descends from.
// Other targets are compared by errors.Is against the cause through
// Unwrap.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && err.Kind.Within(k)
}

// Timeout reports whether err is a ConnectTimeout or ReadTimeout.
func (err *Error) Timeout() bool {
	return err.Kind.Within(Timeout)
}

// New returns a new *Error of the given kind with a message and no
// cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: -1}
}

// Wrap returns a new *Error of the given kind wrapping cause. If cause
// is already an *Error it is returned unchanged, so classification done
// close to the failure is never overwritten.
func Wrap(kind Kind, op, url string, cause error) *Error {
	var existing *Error
	if errors.As(cause, &existing) {
		return existing
	}
	return &Error{Kind: kind, Op: op, URL: url, Err: cause, Offset: -1}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Request, false
}

// Op converts an HTTP method into the operation name used in error
// messages, following net/http: "GET" becomes "Get".
func Op(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
