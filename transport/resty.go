// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
	"go.uber.org/zap"
)

// RestyName is the engine name of Resty.
const RestyName = "resty"

// Resty is the engine built on github.com/go-resty/resty/v2. It shares
// the connection pool design of NetHTTP, and sends every request
// through a resty client wrapping the pooled transport. Requests carry
// the plan's headers and no others, as with NetHTTP.
//
// Resty never sends a request body with HEAD or OPTIONS.
type Resty struct {
	pool   *Pool
	logger *zap.Logger
}

// NewResty returns a new Resty engine.
func NewResty(opts ...Option) *Resty {
	o := newOptions(opts)
	return &Resty{pool: o.pool, logger: o.logger}
}

// Perform sends one request attempt for p. The attempt is bounded by
// p.Timeout, if non-zero, and by ctx.
func (t *Resty) Perform(ctx context.Context, p *request.Plan) (*request.Response, error) {
	op := reqerr.Op(p.Method)
	rawURL := p.FullURL().String()

	tr, err := t.pool.Transport(p)
	if err != nil {
		return nil, configError(op, rawURL, err)
	}

	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()
	ctx, conn := trackConn(ctx)

	// Building the net/http request first applies Auth to the headers.
	req, err := p.ToRequest(ctx)
	if err != nil {
		return nil, configError(op, rawURL, err)
	}

	// The wire headers are exactly the plan's. Resty would otherwise add
	// its own User-Agent and a Content-Type sniffed from the body.
	client := resty.NewWithClient(&http.Client{Transport: tr}).
		SetLogger(t.logger.Sugar()).
		SetAllowGetMethodPayload(true).
		SetRedirectPolicy(resty.RedirectPolicyFunc(checkRedirect(p))).
		SetPreRequestHook(func(_ *resty.Client, hr *http.Request) error {
			hr.Header = req.Header.Clone()
			return nil
		})

	// Resty would gunzip the body itself but leave Content-Encoding set.
	r := client.R().SetContext(ctx).SetDoNotParseResponse(true)
	r.Header = req.Header.Clone()
	if len(p.Body) > 0 {
		r.SetBody(p.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, Classify(ctx, op, rawURL, err, conn.connected())
	}
	rawBody := resp.RawBody()
	defer func() {
		_ = rawBody.Close()
	}()
	body, err := io.ReadAll(rawBody)
	if err != nil {
		return nil, Classify(ctx, op, rawURL, err, true)
	}

	finalURL := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil {
		finalURL = raw.Request.URL.String()
	}
	out := &request.Response{
		StatusCode: resp.StatusCode(),
		URL:        finalURL,
		Header:     resp.Header(),
		Body:       body,
		Proto:      resp.Proto(),
		Elapsed:    time.Since(start),
	}
	t.logger.Debug("attempt complete",
		zap.String("engine", RestyName),
		zap.String("method", p.Method),
		zap.String("url", out.URL),
		zap.Int("status", out.StatusCode),
		zap.Duration("elapsed", out.Elapsed))
	return out, nil
}

// CloseIdleConnections closes idle pooled connections.
func (t *Resty) CloseIdleConnections() {
	t.pool.CloseIdleConnections()
}

// Close closes the connection pool.
func (t *Resty) Close() error {
	return t.pool.Close()
}
