// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogama/rapidhttp/codec"
	"github.com/gogama/rapidhttp/internal/config"
	"github.com/gogama/rapidhttp/internal/logger"
	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
	"github.com/gogama/rapidhttp/resolve"
	"github.com/gogama/rapidhttp/retry"
	"github.com/gogama/rapidhttp/timeout"
	"github.com/gogama/rapidhttp/transport"
	"go.uber.org/zap"
)

// ErrClosed is wrapped by the error returned from every call made on a
// closed Session.
var ErrClosed = errors.New("rapidhttp: session closed")

// A Transport performs one request attempt for a resolved plan and
// returns the complete response.
//
// Perform must honor ctx and p.Timeout, follow redirects as p directs,
// and buffer the whole body. Failures should be *reqerr.Error values.
// Other errors are classified by the Session as connection errors, or
// as timeouts when they say so. A timeout is a ConnectTimeout or
// ReadTimeout only when the error implements transport.PhaseReporter;
// without that report it has the parent reqerr.Timeout kind.
//
// If a Transport implements io.Closer, Session.Close closes it.
type Transport interface {
	Perform(ctx context.Context, p *request.Plan) (*request.Response, error)
}

// A Session holds request defaults and a transport shared by many
// calls. Its zero value is a valid configuration: it uses a net/http
// engine created on first use, the JSON codec, no retries, and no
// logging.
//
// Session fields are plain defaults and are not synchronized: set them
// before making calls. Calls themselves may be made concurrently.
//
// A Session owns pooled connections, so close it when done with it.
//
//	s, err := rapidhttp.NewSession()
//	if err != nil {
//		...
//	}
//	defer s.Close()
//	resp, err := s.Get(ctx, "https://example.com/")
type Session struct {
	// Headers are sent with every request. A call header with the same
	// case-insensitive name replaces a session header.
	Headers http.Header
	// Params are added to the query of every request.
	Params request.Values
	// Auth, if not nil, applies credentials to every request.
	Auth request.Auth
	// Proxies maps URL schemes, "scheme://host" keys, or "all" to
	// proxy URLs.
	Proxies map[string]string
	// Verify is the TLS verification setting. The zero value verifies
	// against the system roots.
	Verify request.Verify
	// Cert is an optional client certificate.
	Cert *request.Cert
	// MaxRedirects limits the redirects followed per call. Zero means
	// request.DefaultMaxRedirects; to forbid redirects for a call, use
	// the MaxRedirects or AllowRedirects option.
	MaxRedirects int
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration
	// Stream is accepted for compatibility. Bodies are always buffered.
	Stream bool
	// TrustEnv lets the transport use environment proxies when Proxies
	// has no matching entry.
	TrustEnv bool

	// Transport performs request attempts. If nil, a net/http engine
	// is created on first use.
	Transport Transport
	// RetryPolicy decides whether to retry failed attempts. If nil,
	// retry.Never is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy sets each attempt's timeout. If nil,
	// timeout.DefaultPolicy is used, which applies the resolved
	// Timeout.
	TimeoutPolicy timeout.Policy
	// Handlers are run at each Event of every call. If nil, no
	// handlers run.
	Handlers *HandlerGroup
	// Logger receives debug and warning logs about calls. If nil,
	// nothing is logged.
	Logger *zap.Logger
	// Codec encodes JSON bodies and decodes structured responses. If
	// nil, codec.Default() is used.
	Codec codec.Codec

	engineOnce sync.Once
	engine     Transport

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// A SessionOption customizes a Session built by NewSession.
type SessionOption func(*Session)

// WithTransport makes the session use t instead of the configured
// engine.
func WithTransport(t Transport) SessionOption {
	return func(s *Session) {
		s.Transport = t
	}
}

// WithCodec makes the session use c instead of the configured codec.
func WithCodec(c codec.Codec) SessionOption {
	return func(s *Session) {
		s.Codec = c
	}
}

// WithLogger makes the session log to l instead of the configured
// logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		s.Logger = l
	}
}

// WithRetryPolicy makes the session retry failed attempts according to
// p.
func WithRetryPolicy(p retry.Policy) SessionOption {
	return func(s *Session) {
		s.RetryPolicy = p
	}
}

// WithHandlers installs g in the session.
func WithHandlers(g *HandlerGroup) SessionOption {
	return func(s *Session) {
		s.Handlers = g
	}
}

// NewSession returns a Session initialized from the process
// configuration (see the RAPIDHTTP_* environment variables): its
// transport engine, codec, log level, timeout, redirect limit, TLS
// verification, environment trust, and User-Agent. The default headers
// are User-Agent, Accept: */*, and Accept-Encoding: gzip, deflate.
//
// Options are applied before the configuration is consulted, so a
// collaborator given as an option is never built from it. An invalid
// configuration, unknown engine, or unknown codec name is an error.
func NewSession(opts ...SessionOption) (*Session, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}

	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}

	if s.Logger == nil {
		if s.Logger, err = logger.New(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	if s.Codec == nil {
		if s.Codec, err = codec.Lookup(cfg.JSONCodec); err != nil {
			return nil, err
		}
	}
	if s.Transport == nil {
		if s.Transport, err = transport.New(cfg.Engine, transport.WithLogger(s.Logger)); err != nil {
			return nil, err
		}
	}

	s.Headers = http.Header{
		"User-Agent":      {cfg.UserAgent},
		"Accept":          {"*/*"},
		"Accept-Encoding": {"gzip, deflate"},
	}
	s.Timeout = cfg.Timeout
	s.MaxRedirects = cfg.MaxRedirects
	s.Verify = request.Verify{Insecure: !cfg.Verify, CABundle: cfg.CABundle}
	s.TrustEnv = cfg.TrustEnv
	return s, nil
}

// Request sends an HTTP request and returns the response. The method is
// case-insensitive. Options override the session defaults for this call
// only.
//
// Bad input (an unsupported method, a missing or relative URL, or more
// than one body) fails before any network activity. A response with an
// error status is not an error; use Response.RaiseForStatus. Every
// error is a *reqerr.Error.
//
// Request panics if ctx is nil.
func (s *Session) Request(ctx context.Context, method, url string, opts ...Option) (*Response, error) {
	if ctx == nil {
		panic("rapidhttp: nil context")
	}
	if s.closed.Load() {
		return nil, closedError(method, url)
	}

	call := resolve.Call{Context: ctx, Method: method, URL: url}
	for _, opt := range opts {
		opt(&call)
	}
	p, err := resolve.Resolve(s.defaults(), call, s.codec())
	if err != nil {
		return nil, err
	}

	e, err := s.Do(p)
	if err != nil {
		return nil, err
	}
	return NewResponse(e.Response, p, s.codec()), nil
}

// Get sends a GET request.
func (s *Session) Get(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodGet, url, opts...)
}

// Head sends a HEAD request. Redirects are not followed unless the
// AllowRedirects option says so.
func (s *Session) Head(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodHead, url, opts...)
}

// Options sends an OPTIONS request.
func (s *Session) Options(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodOptions, url, opts...)
}

// Delete sends a DELETE request.
func (s *Session) Delete(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodDelete, url, opts...)
}

// Post sends a POST request. The body is interpreted as by the Body
// option.
func (s *Session) Post(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodPost, url, withBody(body, opts)...)
}

// Put sends a PUT request. The body is interpreted as by the Body
// option.
func (s *Session) Put(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodPut, url, withBody(body, opts)...)
}

// Patch sends a PATCH request. The body is interpreted as by the Body
// option.
func (s *Session) Patch(ctx context.Context, url string, body interface{}, opts ...Option) (*Response, error) {
	return s.Request(ctx, http.MethodPatch, url, withBody(body, opts)...)
}

func withBody(body interface{}, opts []Option) []Option {
	return append([]Option{Body(body)}, opts...)
}

// Do executes a resolved plan, following the session's timeout and
// retry policies and running its handlers, and returns the execution
// state after the last attempt. Session defaults are not applied; use
// Request for that.
//
// If the returned error is nil, the execution's Response is not nil.
// Otherwise Err holds the same error as is returned and is a
// *reqerr.Error.
func (s *Session) Do(p *request.Plan) (*request.Execution, error) {
	if p == nil {
		panic("rapidhttp: nil plan")
	}
	e := request.Execution{
		Plan: p,
	}
	if s.closed.Load() {
		e.Err = closedError(p.Method, p.URL.String())
		return &e, e.Err
	}

	tr := s.transport()
	log := s.logger()

	timeoutPolicy := s.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := s.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.Never
	}

	handlers := s.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		attempt(tr, &e, handlers, timeoutPolicy, log)
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		planCtxErr := p.Context().Err()
		if planCtxErr == context.DeadlineExceeded {
			handlers.run(AfterPlanTimeout, &e)
			break
		} else if planCtxErr != nil {
			break
		} else if retryPolicy.Decide(&e) {
			wait := retryPolicy.Wait(&e)
			log.Debug("retrying",
				zap.String("method", p.Method),
				zap.String("url", p.URL.String()),
				zap.Int("attempt", e.Attempt),
				zap.Duration("wait", wait))
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-p.Context().Done():
				timer.Stop()
				err := p.Context().Err()
				e.Response = nil
				e.Err = waitError(p, err)
				if err == context.DeadlineExceeded {
					handlers.run(AfterPlanTimeout, &e)
				}
				break RetryLoop
			}
			e.Response = nil
			e.Err = nil
			e.Attempt++
		} else {
			break
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func attempt(tr Transport, e *request.Execution, handlers *HandlerGroup, timeoutPolicy timeout.Policy, log *zap.Logger) {
	p := e.Plan.WithTimeout(timeoutPolicy.Timeout(e))
	handlers.run(BeforeAttempt, e)
	resp, err := tr.Perform(p.Context(), p)
	if err != nil {
		e.Response = nil
		rawURL := p.FullURL().String()
		classified := transport.ClassifyExternal(p.Context(), reqerr.Op(p.Method), rawURL, err)
		e.Err = classified
		log.Warn("attempt failed",
			zap.String("method", p.Method),
			zap.String("url", rawURL),
			zap.Int("attempt", e.Attempt),
			zap.Stringer("kind", classified.Kind),
			zap.Error(err))
		return
	}
	e.Response = resp
	e.Err = nil
	log.Debug("attempt complete",
		zap.String("method", p.Method),
		zap.String("url", resp.URL),
		zap.Int("attempt", e.Attempt),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", resp.Elapsed))
}

// CloseIdleConnections closes the transport's idle connections, if it
// has a CloseIdleConnections method.
func (s *Session) CloseIdleConnections() {
	if ic, ok := s.transport().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Close marks the session closed and releases its transport: Close is
// called if the transport is an io.Closer, otherwise its idle
// connections are closed. Calls made after Close fail with ErrClosed.
// Close is safe to call more than once; later calls return the result
// of the first.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		tr := s.transport()
		if c, ok := tr.(io.Closer); ok {
			s.closeErr = c.Close()
		} else if ic, ok := tr.(IdleCloser); ok {
			ic.CloseIdleConnections()
		}
		s.logger().Debug("session closed")
	})
	return s.closeErr
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

func (s *Session) defaults() resolve.Defaults {
	verify := s.Verify
	d := resolve.Defaults{
		Params:   s.Params,
		Header:   s.Headers,
		Verify:   &verify,
		Cert:     s.Cert,
		Auth:     s.Auth,
		Proxies:  s.Proxies,
		Stream:   resolve.Bool(s.Stream),
		TrustEnv: resolve.Bool(s.TrustEnv),
	}
	if s.MaxRedirects != 0 {
		d.MaxRedirects = resolve.Int(s.MaxRedirects)
	}
	if s.Timeout != 0 {
		d.Timeout = resolve.Duration(s.Timeout)
	}
	return d
}

func (s *Session) transport() Transport {
	if s.Transport != nil {
		return s.Transport
	}
	s.engineOnce.Do(func() {
		s.engine = transport.NewNetHTTP(transport.WithLogger(s.logger()))
	})
	return s.engine
}

func (s *Session) codec() codec.Codec {
	if s.Codec == nil {
		return codec.Default()
	}
	return s.Codec
}

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func closedError(method, url string) error {
	return &reqerr.Error{
		Kind:   reqerr.Request,
		Op:     reqerr.Op(strings.ToUpper(method)),
		URL:    url,
		Err:    ErrClosed,
		Offset: -1,
	}
}

func waitError(p *request.Plan, err error) error {
	e := &reqerr.Error{
		Kind:   reqerr.Request,
		Op:     reqerr.Op(p.Method),
		URL:    p.FullURL().String(),
		Msg:    "request canceled while waiting to retry",
		Err:    err,
		Offset: -1,
	}
	if err == context.DeadlineExceeded {
		e.Kind = reqerr.Timeout
		e.Msg = "deadline exceeded while waiting to retry"
	}
	return e
}
