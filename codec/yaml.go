// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML decodes YAML response bodies with gopkg.in/yaml.v3. Since JSON
// is a subset of YAML it also accepts JSON, but integers decode as int
// rather than float64.
var YAML Codec = yamlCodec{}

type yamlCodec struct{}

func (yamlCodec) Name() string {
	return "yaml"
}

func (yamlCodec) Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c yamlCodec) Decode(data []byte) (interface{}, error) {
	var v interface{}
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c yamlCodec) Unmarshal(data []byte, v interface{}) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return &SyntaxError{Codec: c.Name(), Msg: err.Error(), Offset: -1, Err: err}
	}
	return nil
}
