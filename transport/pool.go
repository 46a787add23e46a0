// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogama/rapidhttp/request"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// ErrPoolClosed is returned by Pool.Transport after Close.
var ErrPoolClosed = errors.New("rapidhttp/transport: pool closed")

// A Pool holds one connection-pooling *http.Transport per distinct
// combination of the plan settings that live below the request level:
// TLS verification, client certificate, proxies, and TrustEnv. Plans
// which agree on all of these share connections.
//
// The zero value is an empty pool ready to use. A Pool is safe for
// concurrent use by multiple goroutines.
type Pool struct {
	// Logger receives a debug entry for each transport created. Nil
	// means no logging.
	Logger *zap.Logger

	mu         sync.Mutex
	transports map[poolKey]*http.Transport
	closed     bool
}

type poolKey struct {
	insecure bool
	caBundle string
	certFile string
	keyFile  string
	proxies  string
	trustEnv bool
}

func keyOf(p *request.Plan) poolKey {
	k := poolKey{
		insecure: p.Verify.Insecure,
		caBundle: p.Verify.CABundle,
		trustEnv: p.TrustEnv,
	}
	if p.Cert != nil {
		k.certFile = p.Cert.CertFile
		k.keyFile = p.Cert.KeyFile
	}
	if len(p.Proxies) > 0 {
		pairs := make([]string, 0, len(p.Proxies))
		for scheme, proxy := range p.Proxies {
			pairs = append(pairs, strings.ToLower(scheme)+"="+proxy)
		}
		sort.Strings(pairs)
		k.proxies = strings.Join(pairs, "\n")
	}
	return k
}

// Transport returns the transport for the plan's settings, creating it
// on first use. An error means the settings cannot be turned into a
// transport, for example because the CA bundle is unreadable or a proxy
// URL is malformed.
func (pool *Pool) Transport(p *request.Plan) (*http.Transport, error) {
	k := keyOf(p)

	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.closed {
		return nil, ErrPoolClosed
	}
	if t, ok := pool.transports[k]; ok {
		return t, nil
	}

	t, err := newTransport(p)
	if err != nil {
		return nil, err
	}
	if pool.transports == nil {
		pool.transports = make(map[poolKey]*http.Transport)
	}
	pool.transports[k] = t
	if pool.Logger != nil {
		pool.Logger.Debug("transport created",
			zap.Bool("verify", p.Verify.Enabled()),
			zap.String("ca_bundle", p.Verify.CABundle),
			zap.Bool("client_cert", p.Cert != nil),
			zap.Int("proxies", len(p.Proxies)),
			zap.Bool("trust_env", p.TrustEnv),
			zap.Int("pool_size", len(pool.transports)))
	}
	return t, nil
}

// Len returns the number of transports in the pool.
func (pool *Pool) Len() int {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return len(pool.transports)
}

// CloseIdleConnections closes the idle connections of every transport
// in the pool. Transports stay usable.
func (pool *Pool) CloseIdleConnections() {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for _, t := range pool.transports {
		t.CloseIdleConnections()
	}
}

// Close closes all idle connections and empties the pool. Later calls
// to Transport fail with ErrPoolClosed. Close is idempotent.
func (pool *Pool) Close() error {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for _, t := range pool.transports {
		t.CloseIdleConnections()
	}
	pool.transports = nil
	pool.closed = true
	return nil
}

func newTransport(p *request.Plan) (*http.Transport, error) {
	tlsConfig, err := newTLSConfig(p.Verify, p.Cert)
	if err != nil {
		return nil, err
	}
	proxy, err := proxyFunc(p.Proxies, p.TrustEnv)
	if err != nil {
		return nil, err
	}
	t := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       tlsConfig,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if err = http2.ConfigureTransport(t); err != nil {
		return nil, fmt.Errorf("rapidhttp/transport: http2: %w", err)
	}
	return t, nil
}

func newTLSConfig(v request.Verify, cert *request.Cert) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: v.Insecure, // #nosec G402 -- explicit caller opt-out
	}
	if v.CABundle != "" {
		pem, err := os.ReadFile(v.CABundle)
		if err != nil {
			return nil, fmt.Errorf("rapidhttp/transport: CA bundle: %w", err)
		}
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("rapidhttp/transport: CA bundle: no certificates found in %s", v.CABundle)
		}
		cfg.RootCAs = roots
	}
	if cert != nil {
		keyFile := cert.KeyFile
		if keyFile == "" {
			keyFile = cert.CertFile
		}
		pair, err := tls.LoadX509KeyPair(cert.CertFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("rapidhttp/transport: client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}
	return cfg, nil
}

// proxyFunc returns the proxy selector for a transport. An entry for
// "scheme://host" wins over one for the scheme, which wins over "all".
// An empty proxy URL means a direct connection. With no matching entry
// the environment is consulted if trustEnv is set.
func proxyFunc(proxies map[string]string, trustEnv bool) (func(*http.Request) (*url.URL, error), error) {
	parsed := make(map[string]*url.URL, len(proxies))
	for key, raw := range proxies {
		key = strings.ToLower(key)
		if raw == "" {
			parsed[key] = nil
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("rapidhttp/transport: invalid proxy URL for %q: %q", key, raw)
		}
		parsed[key] = u
	}
	return func(r *http.Request) (*url.URL, error) {
		scheme := strings.ToLower(r.URL.Scheme)
		for _, key := range []string{scheme + "://" + r.URL.Hostname(), scheme, "all"} {
			if u, ok := parsed[key]; ok {
				return u, nil
			}
		}
		if trustEnv {
			return http.ProxyFromEnvironment(r)
		}
		return nil, nil
	}, nil
}
