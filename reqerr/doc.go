// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package reqerr defines the single error hierarchy returned by
// rapidhttp. Every failure is an *Error whose Kind sits under the root
// kind Request:
//
//	Request
//	├── Connection
//	│   └── ConnectTimeout
//	├── Timeout
//	│   ├── ConnectTimeout
//	│   └── ReadTimeout
//	├── TooManyRedirects
//	├── URLRequired
//	├── Configuration
//	├── HTTP
//	└── Decode
//
// Test for a kind, including its descendants, with errors.Is:
//
//	resp, err := s.Get(ctx, url)
//	if errors.Is(err, reqerr.Timeout) {
//		// retry with a longer timeout
//	}
package reqerr
