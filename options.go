// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/rapidhttp/request"
	"github.com/gogama/rapidhttp/resolve"
)

// An Option sets a per-call override. Options are applied in order, so
// a later option replaces an earlier one for the same setting.
type Option func(*resolve.Call)

// Params adds query parameters, replacing session parameters with the
// same key. Keys are added in sorted order.
func Params(m map[string]string) Option {
	return func(c *resolve.Call) {
		c.Params = c.Params.Overlay(request.ValuesOf(m))
	}
}

// Param adds one query parameter, replacing any session parameter with
// the same key.
func Param(key, value string) Option {
	return func(c *resolve.Call) {
		c.Params.Set(key, value)
	}
}

// Headers sets request headers, replacing session headers with the same
// case-insensitive name.
func Headers(m map[string]string) Option {
	return func(c *resolve.Call) {
		ensureHeader(c)
		for k, v := range m {
			c.Header.Set(k, v)
		}
	}
}

// Header sets the values of one request header, replacing the session
// header of the same name. With no values, the session header is
// removed from the request.
func Header(key string, values ...string) Option {
	return func(c *resolve.Call) {
		ensureHeader(c)
		c.Header[http.CanonicalHeaderKey(key)] = append([]string{}, values...)
	}
}

// Cookie adds a cookie to the Cookie header.
func Cookie(name, value string) Option {
	return func(c *resolve.Call) {
		c.Cookies = append(c.Cookies, &http.Cookie{Name: name, Value: value})
	}
}

// Data sets a raw body: a string, []byte, or io.Reader. A reader is
// read in full when the call is resolved.
func Data(body interface{}) Option {
	return func(c *resolve.Call) {
		c.Data = body
	}
}

// JSON sets a body encoded with the session's codec. The Content-Type
// header defaults to application/json.
func JSON(v interface{}) Option {
	return func(c *resolve.Call) {
		c.JSON = v
	}
}

// Form sets a URL-encoded form body. The Content-Type header defaults
// to application/x-www-form-urlencoded.
func Form(values request.Values) Option {
	return func(c *resolve.Call) {
		c.Form = values
	}
}

// Body sets the body from a value of any supported type, as the body
// argument of Post, Put, and Patch does:
//
//	nil, "", empty or nil []byte            no body
//	string, []byte, io.Reader               raw body
//	url.Values, request.Values,
//	map[string]string                       form body
//	anything else                           JSON body
func Body(body interface{}) Option {
	switch b := body.(type) {
	case nil:
		return func(*resolve.Call) {}
	case string:
		if b == "" {
			return func(*resolve.Call) {}
		}
		return Data(b)
	case []byte:
		if len(b) == 0 {
			return func(*resolve.Call) {}
		}
		return Data(b)
	case io.Reader:
		return Data(b)
	case url.Values:
		return Form(request.FromURLValues(b))
	case request.Values:
		return Form(b)
	case map[string]string:
		return Form(request.ValuesOf(b))
	default:
		return JSON(b)
	}
}

// Timeout bounds each attempt of the call. Zero explicitly disables the
// session's timeout for this call; omit the option to inherit it.
func Timeout(d time.Duration) Option {
	return func(c *resolve.Call) {
		c.Timeout = resolve.Duration(d)
	}
}

// AllowRedirects says whether redirects are followed.
func AllowRedirects(allow bool) Option {
	return func(c *resolve.Call) {
		c.AllowRedirects = resolve.Bool(allow)
	}
}

// MaxRedirects sets the number of redirects that may be followed.
func MaxRedirects(n int) Option {
	return func(c *resolve.Call) {
		c.MaxRedirects = resolve.Int(n)
	}
}

// Verify turns TLS server certificate verification on or off.
func Verify(verify bool) Option {
	return func(c *resolve.Call) {
		v := currentVerify(c)
		v.Insecure = !verify
		c.Verify = &v
	}
}

// CABundle verifies server certificates against the PEM file at path
// instead of the system roots.
func CABundle(path string) Option {
	return func(c *resolve.Call) {
		v := currentVerify(c)
		v.CABundle = path
		c.Verify = &v
	}
}

// Cert sets a PEM client certificate. If keyFile is empty the key is
// read from certFile.
func Cert(certFile, keyFile string) Option {
	return func(c *resolve.Call) {
		c.Cert = &request.Cert{CertFile: certFile, KeyFile: keyFile}
	}
}

// Auth sets the credentials applied to each attempt.
func Auth(a request.Auth) Option {
	return func(c *resolve.Call) {
		c.Auth = a
	}
}

// BasicAuth sets HTTP Basic credentials.
func BasicAuth(username, password string) Option {
	return Auth(request.BasicAuth{Username: username, Password: password})
}

// Proxies maps URL schemes, "scheme://host" keys, or "all" to proxy
// URLs, replacing session entries with the same key.
func Proxies(m map[string]string) Option {
	return func(c *resolve.Call) {
		if c.Proxies == nil {
			c.Proxies = make(map[string]string, len(m))
		}
		for k, v := range m {
			c.Proxies[k] = v
		}
	}
}

// Stream is accepted for compatibility. Bodies are always buffered.
func Stream(stream bool) Option {
	return func(c *resolve.Call) {
		c.Stream = resolve.Bool(stream)
	}
}

// TrustEnv says whether environment proxies may be used.
func TrustEnv(trust bool) Option {
	return func(c *resolve.Call) {
		c.TrustEnv = resolve.Bool(trust)
	}
}

func ensureHeader(c *resolve.Call) {
	if c.Header == nil {
		c.Header = make(http.Header)
	}
}

func currentVerify(c *resolve.Call) request.Verify {
	if c.Verify != nil {
		return *c.Verify
	}
	return request.Verify{}
}
