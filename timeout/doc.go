// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for the timeout of each request
// attempt, including retries. By default a session uses FromPlan, the
// timeout resolved from call and session settings.
package timeout
