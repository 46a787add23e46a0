// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package status is a read-only registry of HTTP status codes,
// addressable by symbolic name (Lookup), by code (Code), and with a
// separate table of canonical reason phrases (Reason).
//
// The tables are built at package initialization and never change:
//
//	code, err := status.Lookup("not_found") // 404, nil
//	code, ok := status.Code(404)            // 404, true
//	_, err = status.Lookup("nope")          // errors.Is(err, status.ErrUnknown)
//	phrase := status.Reason(404)            // "Not Found"
package status
