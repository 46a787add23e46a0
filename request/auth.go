// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/base64"
	"net/http"
)

// An Auth applies credentials to an outgoing HTTP request. It is called
// once per request attempt, after the request URL, headers, and body are
// in place, so signing schemes may inspect them.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Auth interface {
	Apply(r *http.Request) error
}

// BasicAuth is an Auth that sets the Authorization header to use HTTP
// Basic Authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Apply sets the Authorization header on r.
func (a BasicAuth) Apply(r *http.Request) error {
	r.Header.Set("Authorization", "Basic "+basicAuth(a.Username, a.Password))
	return nil
}

// The AuthFunc type is an adapter to allow the use of ordinary
// functions, such as request signers, as an Auth.
type AuthFunc func(r *http.Request) error

// Apply calls f(r).
func (f AuthFunc) Apply(r *http.Request) error {
	return f(r)
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// Verify is the TLS server-certificate verification setting of a plan.
//
// The zero value verifies against the system roots. Setting Insecure
// disables verification; setting CABundle verifies against the PEM
// certificates in that file instead of the system roots.
type Verify struct {
	Insecure bool
	CABundle string
}

// Enabled reports whether server certificates are verified.
func (v Verify) Enabled() bool {
	return !v.Insecure
}

// Cert names a PEM client certificate and its private key.
type Cert struct {
	CertFile string
	KeyFile  string
}
