// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"
)

// A Response is the raw result of one successful exchange with a
// server, as produced by a transport.
//
// A transport creates exactly one Response per successful attempt and
// never modifies it afterward. Consumers, including the response view in
// the rapidhttp package, must treat it as read-only.
type Response struct {
	// StatusCode is the HTTP status code, in the range 100-599.
	StatusCode int

	// URL is the final URL after any redirects the transport followed.
	URL string

	// Header holds the response header fields. Within a key, values keep
	// the order in which they were received, and repeated fields are
	// preserved as multiple values.
	Header http.Header

	// Body is the complete response body.
	Body []byte

	// Proto is the protocol version, for example "HTTP/1.1" or
	// "HTTP/2.0".
	Proto string

	// Elapsed is the time between sending the request and finishing
	// reading the response body.
	Elapsed time.Duration
}
