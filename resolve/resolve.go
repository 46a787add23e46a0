// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gogama/rapidhttp/codec"
	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Defaults holds the settings that can be given either as persistent
// session defaults or per call. Pointer and nil-able fields are absent
// when nil; Params, Header, and Proxies are absent when empty.
type Defaults struct {
	Params         request.Values
	Header         http.Header
	Timeout        *time.Duration
	AllowRedirects *bool
	MaxRedirects   *int
	Verify         *request.Verify
	Cert           *request.Cert
	Auth           request.Auth
	Proxies        map[string]string
	Stream         *bool
	TrustEnv       *bool
}

// Call holds everything given for one call: the per-call overrides of
// Defaults plus the settings that only make sense per call.
type Call struct {
	Defaults

	// Context controls the whole call. Nil means the background
	// context.
	Context context.Context

	// Method is the HTTP method, in any case.
	Method string

	// URL is the request URL.
	URL string

	// Cookies are added to the Cookie header.
	Cookies []*http.Cookie

	// Data is a raw body: a string, []byte, or io.Reader. Nil means
	// absent.
	Data interface{}

	// JSON is a value to encode as a JSON body. Nil means absent.
	JSON interface{}

	// Form is a mapping to URL-encode as a form body. Empty means
	// absent.
	Form request.Values
}

// Resolve merges session defaults and call overrides into one request
// plan. For every field the call value wins when present, otherwise the
// session value is used, otherwise a built-in default:
//
// • AllowRedirects defaults to true, except for HEAD where it is false;
//
// • MaxRedirects defaults to request.DefaultMaxRedirects (30);
//
// • Verify defaults to verification against the system roots;
//
// • TrustEnv defaults to true;
//
// • Timeout, Stream, Cert, and Auth default to their zero values.
//
// Header, Params, and Proxies merge key by key: the session mapping is
// copied and every call entry is laid over it, replacing the entry with
// the same key (case-insensitively for headers) or appending a new one.
// A call header whose value list is empty removes that header.
//
// At most one of call.Data, call.JSON, and call.Form may be given. JSON
// bodies are encoded with enc (codec.Default() if enc is nil) and get a
// Content-Type of application/json; form bodies get
// application/x-www-form-urlencoded. An explicit Content-Type header is
// never overwritten.
//
// Every failure is a *reqerr.Error, returned before any network
// activity: URLRequired for a missing or invalid URL, Configuration for
// everything else.
func Resolve(session Defaults, call Call, enc codec.Codec) (*request.Plan, error) {
	op := reqerr.Op(strings.ToUpper(call.Method))

	method, err := request.ParseMethod(call.Method)
	if err != nil {
		return nil, &reqerr.Error{Kind: reqerr.Configuration, Op: op, URL: call.URL, Err: err, Offset: -1}
	}

	u, err := request.ParseURL(call.URL)
	if err != nil {
		return nil, &reqerr.Error{Kind: reqerr.URLRequired, Op: op, URL: call.URL, Err: err, Offset: -1}
	}

	fail := func(msg string, cause error) (*request.Plan, error) {
		return nil, &reqerr.Error{Kind: reqerr.Configuration, Op: op, URL: call.URL, Msg: msg, Err: cause, Offset: -1}
	}

	ctx := call.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := &request.Plan{
		Method:   method,
		URL:      u,
		Params:   session.Params.Overlay(call.Params),
		Header:   mergeHeader(session.Header, call.Header),
		Proxies:  mergeProxies(session.Proxies, call.Proxies),
		Cert:     session.Cert,
		Auth:     session.Auth,
		TrustEnv: true,
	}
	p = p.WithContext(ctx)

	if call.Cert != nil {
		p.Cert = call.Cert
	}
	if call.Auth != nil {
		p.Auth = call.Auth
	}

	if d := pick(call.Timeout, session.Timeout); d != nil {
		if *d < 0 {
			return fail("negative timeout", nil)
		}
		p.Timeout = *d
	}

	p.AllowRedirects = method != http.MethodHead
	if b := pick(call.AllowRedirects, session.AllowRedirects); b != nil {
		p.AllowRedirects = *b
	}

	p.MaxRedirects = request.DefaultMaxRedirects
	if n := pick(call.MaxRedirects, session.MaxRedirects); n != nil {
		if *n < 0 {
			return fail("negative redirect limit", nil)
		}
		p.MaxRedirects = *n
	}

	if v := pick(call.Verify, session.Verify); v != nil {
		if v.Insecure && v.CABundle != "" {
			return fail("verification cannot be both disabled and given a CA bundle", nil)
		}
		p.Verify = *v
	}

	if b := pick(call.Stream, session.Stream); b != nil {
		p.Stream = *b
	}
	if b := pick(call.TrustEnv, session.TrustEnv); b != nil {
		p.TrustEnv = *b
	}

	for _, c := range call.Cookies {
		p.AddCookie(c)
	}

	if err = setBody(p, call, enc); err != nil {
		return fail("", err)
	}

	return p, nil
}

// ErrMultipleBodies is wrapped by the Configuration error Resolve
// returns when a call supplies more than one body kind.
var ErrMultipleBodies = errors.New("more than one body kind supplied")

func setBody(p *request.Plan, call Call, enc codec.Codec) error {
	var kinds []string
	if call.Data != nil {
		kinds = append(kinds, request.RawBody.String())
	}
	if call.JSON != nil {
		kinds = append(kinds, request.JSONBody.String())
	}
	if len(call.Form) > 0 {
		kinds = append(kinds, request.FormBody.String())
	}
	if len(kinds) > 1 {
		return fmt.Errorf("%w: %s", ErrMultipleBodies, strings.Join(kinds, ", "))
	}

	switch {
	case call.Data != nil:
		b, err := request.BodyBytes(call.Data)
		if err != nil {
			return err
		}
		p.BodyKind = request.RawBody
		p.Body = b
	case call.JSON != nil:
		if enc == nil {
			enc = codec.Default()
		}
		b, err := enc.Marshal(call.JSON)
		if err != nil {
			return err
		}
		p.BodyKind = request.JSONBody
		p.Body = b
		p.JSON = call.JSON
		setDefaultHeader(p.Header, "Content-Type", contentTypeJSON)
	case len(call.Form) > 0:
		p.BodyKind = request.FormBody
		p.Form = call.Form.Clone()
		p.Body = []byte(p.Form.Encode())
		setDefaultHeader(p.Header, "Content-Type", contentTypeForm)
	}
	return nil
}

func mergeHeader(session, call http.Header) http.Header {
	out := make(http.Header, len(session)+len(call))
	for k, vs := range session {
		if len(vs) > 0 {
			out[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
	for k, vs := range call {
		ck := http.CanonicalHeaderKey(k)
		if len(vs) == 0 {
			delete(out, ck)
			continue
		}
		out[ck] = append([]string(nil), vs...)
	}
	return out
}

func mergeProxies(session, call map[string]string) map[string]string {
	if len(session) == 0 && len(call) == 0 {
		return nil
	}
	out := make(map[string]string, len(session)+len(call))
	for k, v := range session {
		out[strings.ToLower(k)] = v
	}
	for k, v := range call {
		out[strings.ToLower(k)] = v
	}
	return out
}

func setDefaultHeader(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

func pick[T any](call, session *T) *T {
	if call != nil {
		return call
	}
	return session
}

// Bool returns a pointer to b, for filling optional fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for filling optional fields.
func Int(n int) *int { return &n }

// Duration returns a pointer to d, for filling optional fields.
func Duration(d time.Duration) *time.Duration { return &d }
