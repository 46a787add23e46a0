// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport sends single request attempts over the network.

Two engines implement the Engine interface: NetHTTP, built directly on
net/http, and Resty, built on github.com/go-resty/resty/v2. Both take a
fully resolved request.Plan and return a fully buffered
request.Response, and both classify every failure into a *reqerr.Error
using Classify:

• a deadline reached before a connection was obtained is a
ConnectTimeout, and one reached afterward is a ReadTimeout;

• a cancelled context is a root-kind Request error wrapping
context.Canceled;

• an exceeded redirect limit is TooManyRedirects;

• any other network failure, including TLS verification failure, is a
Connection error;

• unusable TLS or proxy settings are a Configuration error.

Connections live in a Pool holding one *http.Transport, with HTTP/2
enabled, per distinct combination of TLS verification, client
certificate, proxies, and TrustEnv. Closing an engine closes its pool.
*/
package transport
