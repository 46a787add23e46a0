// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package resolve turns two plain configuration layers, persistent
// session Defaults and per-call Call overrides, into one fully resolved
// request.Plan. Resolve is a pure function: it reads no global state
// and modifies neither input.
package resolve
