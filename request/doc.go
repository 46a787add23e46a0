// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the data contracts that cross the boundary
between a rapidhttp session and its transport: Plan, the fully resolved
request descriptor, and Response, the raw result of one exchange.

A Plan is normally produced by package resolve, which merges session
defaults with call overrides, but one can also be built directly:

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	resp, err := transport.Perform(ctx, p)
	...

A Plan carries exactly one body representation (none, raw bytes, JSON,
or form), the query parameters as an ordered Values list, and every
per-request transport setting: timeout, redirect policy, TLS
verification, client certificate, auth, and proxies.

The third type, Execution, records the progress of one call through a
session's attempt loop. It is the input type for timeout policies,
retry policies, and event handlers. You will typically not allocate
Execution instances yourself.
*/
package request
