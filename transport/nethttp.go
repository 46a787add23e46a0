// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
	"go.uber.org/zap"
)

// NetHTTPName is the engine name of NetHTTP.
const NetHTTPName = "nethttp"

// NetHTTP is the engine built directly on the standard net/http client.
// It is the default engine.
type NetHTTP struct {
	pool   *Pool
	logger *zap.Logger
}

// NewNetHTTP returns a new NetHTTP engine.
func NewNetHTTP(opts ...Option) *NetHTTP {
	o := newOptions(opts)
	return &NetHTTP{pool: o.pool, logger: o.logger}
}

// Perform sends one request attempt for p. The attempt is bounded by
// p.Timeout, if non-zero, and by ctx.
func (t *NetHTTP) Perform(ctx context.Context, p *request.Plan) (*request.Response, error) {
	op := reqerr.Op(p.Method)
	rawURL := p.FullURL().String()

	tr, err := t.pool.Transport(p)
	if err != nil {
		return nil, configError(op, rawURL, err)
	}

	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()
	ctx, conn := trackConn(ctx)

	req, err := p.ToRequest(ctx)
	if err != nil {
		return nil, configError(op, rawURL, err)
	}

	client := &http.Client{
		Transport:     tr,
		CheckRedirect: checkRedirect(p),
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, Classify(ctx, op, rawURL, err, conn.connected())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(ctx, op, rawURL, err, true)
	}

	r := &request.Response{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Header:     resp.Header,
		Body:       body,
		Proto:      resp.Proto,
		Elapsed:    time.Since(start),
	}
	t.logger.Debug("attempt complete",
		zap.String("engine", NetHTTPName),
		zap.String("method", p.Method),
		zap.String("url", r.URL),
		zap.Int("status", r.StatusCode),
		zap.Duration("elapsed", r.Elapsed))
	return r, nil
}

// CloseIdleConnections closes idle pooled connections.
func (t *NetHTTP) CloseIdleConnections() {
	t.pool.CloseIdleConnections()
}

// Close closes the connection pool.
func (t *NetHTTP) Close() error {
	return t.pool.Close()
}
