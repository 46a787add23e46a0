// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from HTTP request attempts as
// transient or non-transient. Retry policies use it to decide whether a
// failed attempt is worth repeating.
//
// Package transient depends only on the standard library so that the
// request package, which sits below every other rapidhttp package, can
// use it.
package transient
