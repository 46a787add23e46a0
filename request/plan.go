// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"
)

const (
	nilCtxMsg = "rapidhttp/request: nil context"
)

var (
	// ErrInvalidMethod is wrapped by errors from NewPlan and ParseMethod
	// when the method is not in the supported verb set.
	ErrInvalidMethod = errors.New("rapidhttp/request: invalid HTTP method")

	// ErrURLRequired is wrapped by errors from NewPlan and ParseURL when
	// the URL is empty or is not an absolute http or https URL.
	ErrURLRequired = errors.New("rapidhttp/request: a valid URL is required")
)

// Methods lists the supported HTTP methods.
var Methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodTrace,
	http.MethodConnect,
}

// DefaultMaxRedirects is the redirect limit used when neither the call
// nor the session sets one.
const DefaultMaxRedirects = 30

// A Plan is a fully resolved HTTP request descriptor, ready to hand to a
// transport.
//
// A Plan is normally built by the resolve package from session defaults
// and call overrides, and treated as immutable from the moment it is
// passed to a transport. Transports and event handlers must not modify
// it; use WithContext or WithTimeout to derive a changed copy.
//
// Exactly one body representation is present, as recorded in BodyKind.
// Body always holds the bytes to send; for JSONBody and FormBody plans
// the logical payload is also kept in JSON or Form for inspection.
type Plan struct {
	// Method is the upper-case HTTP method, one of Methods.
	Method string

	// URL is the absolute request URL, without Params applied. Use
	// FullURL to get the URL that is actually requested.
	URL *urlpkg.URL

	// Params are query parameters appended to URL's own query when the
	// request is sent.
	Params Values

	// Header contains the request header fields to be sent.
	Header http.Header

	// BodyKind identifies the body representation.
	BodyKind BodyKind

	// Body is the encoded request body. It is nil when BodyKind is
	// NoBody.
	Body []byte

	// JSON is the value encoded into Body when BodyKind is JSONBody.
	JSON interface{}

	// Form is the mapping encoded into Body when BodyKind is FormBody.
	Form Values

	// Timeout bounds a request attempt. Zero means no timeout.
	Timeout time.Duration

	// AllowRedirects says whether the transport follows redirects.
	AllowRedirects bool

	// MaxRedirects is the number of redirects the transport may follow
	// before failing with a too-many-redirects error.
	MaxRedirects int

	// Verify is the TLS verification setting.
	Verify Verify

	// Cert is an optional client certificate.
	Cert *Cert

	// Auth, if not nil, applies credentials to each request attempt.
	Auth Auth

	// Proxies maps a URL scheme ("http", "https") or "all" to a proxy
	// URL.
	Proxies map[string]string

	// Stream is carried for compatibility. Responses are always fully
	// buffered.
	Stream bool

	// TrustEnv allows the transport to consult the environment, for
	// example HTTP_PROXY, when Proxies has no matching entry.
	TrustEnv bool

	// ctx allows the entire Plan exec to be cancelled. It should only
	// be modified by copying the whole Plan using WithContext.
	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional raw body, with the built-in defaults for every other field:
// redirects allowed (except for HEAD), a redirect limit of
// DefaultMaxRedirects, and TLS verification on.
//
// The method is upper-cased and must be one of Methods; an empty method
// means GET. The URL must be an absolute http or https URL. Parameter
// body may be any value accepted by BodyBytes.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	u, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	kind := NoBody
	if b != nil {
		kind = RawBody
	}
	return &Plan{
		ctx:            ctx,
		Method:         m,
		URL:            u,
		Header:         make(http.Header),
		BodyKind:       kind,
		Body:           b,
		AllowRedirects: m != http.MethodHead,
		MaxRedirects:   DefaultMaxRedirects,
	}, nil
}

// ParseMethod upper-cases method and checks it against Methods. An
// empty method means GET.
func ParseMethod(method string) (string, error) {
	if method == "" {
		return http.MethodGet, nil
	}
	m := strings.ToUpper(method)
	for _, valid := range Methods {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, method)
}

// ParseURL parses rawURL and checks that it is an absolute http or https
// URL with a host. Every failure wraps ErrURLRequired.
func ParseURL(rawURL string) (*urlpkg.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrURLRequired
	}
	u, err := urlpkg.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrURLRequired, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: invalid or missing scheme in %q", ErrURLRequired, rawURL)
	}
	u.Host = removeEmptyPort(u.Host)
	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrURLRequired, rawURL)
	}
	return u, nil
}

// Context returns the request plan's context. To change the context,
// use WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// WithTimeout returns a shallow copy of p with Timeout set to d.
func (p *Plan) WithTimeout(d time.Duration) *Plan {
	p2 := new(Plan)
	*p2 = *p
	p2.Timeout = d
	return p2
}

// FullURL returns a copy of URL with Params appended to its query.
func (p *Plan) FullURL() *urlpkg.URL {
	u := *p.URL
	if len(p.Params) > 0 {
		q := p.Params.Encode()
		if u.RawQuery == "" {
			u.RawQuery = q
		} else {
			u.RawQuery += "&" + q
		}
	}
	return &u
}

// AddCookie adds a cookie to the plan headers. Per RFC 6265 section
// 5.4, AddCookie does not attach more than one Cookie header field, so
// all cookies are written into the same line separated by semicolons.
func (p *Plan) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := p.Header.Get("Cookie"); h != "" {
		p.Header.Set("Cookie", h+"; "+s)
	} else {
		p.Header.Set("Cookie", s)
	}
}

// ToRequest creates the net/http request for one attempt of the plan.
// The request carries ctx, its URL is FullURL, its header is a clone of
// the plan header, and Auth, if set, has been applied.
func (p *Plan) ToRequest(ctx context.Context) (*http.Request, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	r, err := http.NewRequestWithContext(ctx, p.Method, p.FullURL().String(), body)
	if err != nil {
		return nil, err
	}
	r.Header = p.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if p.Auth != nil {
		if err = p.Auth.Apply(r); err != nil {
			return nil, fmt.Errorf("rapidhttp/request: auth: %w", err)
		}
	}
	return r, nil
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
