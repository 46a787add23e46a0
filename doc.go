// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package rapidhttp is an HTTP client with a small, familiar interface:
one-shot functions for single requests, and Sessions for many.

	resp, err := rapidhttp.Get(ctx, "https://www.example.com/",
		rapidhttp.Param("q", "gophers"))
	...
	resp, err := rapidhttp.Post(ctx, "https://www.example.com/items",
		map[string]interface{}{"name": "gopher"})
	...
	if err = resp.RaiseForStatus(); err != nil {
		...
	}
	v, err := resp.Structured()

The body argument of Post, Put, and Patch picks the body kind from its
type: strings, byte slices, and readers are sent raw; url.Values,
request.Values, and map[string]string are sent as a form; anything else
is encoded as JSON.

Create a Session to share defaults and pooled connections between
calls, and close it when done:

	s, err := rapidhttp.NewSession()
	if err != nil {
		...
	}
	defer s.Close()
	s.Headers.Set("Authorization", "Bearer "+token)
	resp, err := s.Get(ctx, "https://api.example.com/me",
		rapidhttp.Timeout(5*time.Second))

NewSession reads the process configuration from RAPIDHTTP_*
environment variables, an optional .env file, and an optional file
named by RAPIDHTTP_CONFIG. The configuration picks the transport engine
("nethttp" or "resty"), the structured codec ("json", "gjson", or
"yaml"), the log level, and the session defaults.

Every error is a *reqerr.Error whose Kind can be tested with errors.Is:

	if errors.Is(err, reqerr.Timeout) {
		...
	}

Sessions do not retry by default. To retry, set a policy from package
retry:

	s.RetryPolicy = retry.DefaultPolicy

To hook into the attempt loop, install handlers:

	handlers := &rapidhttp.HandlerGroup{}
	handlers.PushBack(rapidhttp.AfterAttempt, rapidhttp.HandlerFunc(
		func(_ rapidhttp.Event, e *request.Execution) {
			log.Printf("attempt %d: %d %v", e.Attempt, e.StatusCode(), e.Err)
		}))
	s.Handlers = handlers

Package rapidhttp also provides an interface per verb (Getter, Poster,
and so on), a combined Executor interface, and Inflate, which turns any
Requester into an Executor.
*/
package rapidhttp
