// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gogama/rapidhttp/request"
	"go.uber.org/zap"
)

// An Engine performs single request attempts. NetHTTP and Resty are
// the two engines.
type Engine interface {
	// Perform sends the request described by p, following redirects
	// according to p, and returns the fully buffered response. Every
	// error is a *reqerr.Error. A non-2XX status is not an error.
	Perform(ctx context.Context, p *request.Plan) (*request.Response, error)

	// CloseIdleConnections closes pooled connections not in use.
	CloseIdleConnections()

	// Close releases the engine's connection pool. Perform fails after
	// Close.
	Close() error
}

// An Option configures an engine.
type Option func(*options)

type options struct {
	logger *zap.Logger
	pool   *Pool
}

// WithLogger makes the engine log through l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPool makes the engine use pool instead of a private one. Engines
// sharing a pool share connections.
func WithPool(pool *Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.pool == nil {
		o.pool = &Pool{Logger: o.logger}
	}
	return o
}

var constructors = map[string]func(...Option) Engine{
	NetHTTPName: func(opts ...Option) Engine { return NewNetHTTP(opts...) },
	RestyName:   func(opts ...Option) Engine { return NewResty(opts...) },
}

// Names returns the engine names accepted by New, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a new engine by name, case-insensitively. The empty name
// selects NetHTTP. An unknown name is an error.
func New(name string, opts ...Option) (Engine, error) {
	if name == "" {
		name = NetHTTPName
	}
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("rapidhttp/transport: unknown engine %q (want one of %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(opts...), nil
}
