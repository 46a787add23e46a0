// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// GJSON decodes with github.com/tidwall/gjson, which validates and
// parses in a single pass without reflection. It encodes with the
// standard library, as gjson is a read-only library.
//
// gjson does not report error positions, so its SyntaxError offsets are
// always -1.
var GJSON Codec = gjsonCodec{}

type gjsonCodec struct{}

func (gjsonCodec) Name() string {
	return "gjson"
}

func (gjsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c gjsonCodec) Decode(data []byte) (interface{}, error) {
	if !gjson.ValidBytes(data) {
		return nil, c.invalid()
	}
	return gjson.ParseBytes(data).Value(), nil
}

func (c gjsonCodec) Unmarshal(data []byte, v interface{}) error {
	if !gjson.ValidBytes(data) {
		return c.invalid()
	}
	if err := json.Unmarshal(data, v); err != nil {
		return jsonSyntaxError(c.Name(), err)
	}
	return nil
}

func (c gjsonCodec) invalid() error {
	return &SyntaxError{Codec: c.Name(), Msg: "invalid JSON", Offset: -1}
}
