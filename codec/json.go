// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/json"
	"errors"
)

// JSON is the standard library JSON codec.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c jsonCodec) Decode(data []byte) (interface{}, error) {
	var v interface{}
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c jsonCodec) Unmarshal(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	return jsonSyntaxError(c.Name(), err)
}

func jsonSyntaxError(name string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SyntaxError{Codec: name, Msg: syntaxErr.Error(), Offset: syntaxErr.Offset, Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SyntaxError{Codec: name, Msg: typeErr.Error(), Offset: typeErr.Offset, Err: err}
	}
	return &SyntaxError{Codec: name, Msg: err.Error(), Offset: -1, Err: err}
}
