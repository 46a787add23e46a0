// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
)

// A BodyKind identifies which of the mutually exclusive request body
// representations a Plan carries.
type BodyKind int

const (
	// NoBody means the plan sends no request body.
	NoBody BodyKind = iota
	// RawBody means the plan body holds caller-supplied raw bytes.
	RawBody
	// JSONBody means the plan body holds the JSON encoding of
	// Plan.JSON.
	JSONBody
	// FormBody means the plan body holds the URL-encoding of
	// Plan.Form.
	FormBody
)

var bodyKindNames = []string{"none", "raw", "json", "form"}

func (k BodyKind) String() string {
	if k < 0 || int(k) >= len(bodyKindNames) {
		return "unknown"
	}
	return bodyKindNames[k]
}

// ErrBodyType is returned by BodyBytes when the body parameter has an
// unsupported type.
var ErrBodyType = errors.New("rapidhttp/request: invalid type (for raw body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)")

// BodyBytes converts a generic raw body parameter to a byte slice for
// use as a request plan body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, or io.ReadCloser:
//
// • nil produces a nil byte slice;
//
// • a []byte is returned as is, and a string is converted;
//
// • an io.Reader is read to the end, and closed if it is also an
// io.Closer. A read or close error is returned with a nil slice.
//
// Any other type produces ErrBodyType.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		if err = x.Close(); err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, ErrBodyType
	}
}
