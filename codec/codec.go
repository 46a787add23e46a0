// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"sort"
	"strings"
)

// A Codec encodes request payloads and decodes response bodies into
// structured values.
//
// Implementations must be safe for concurrent use by multiple
// goroutines. A Codec never falls back to another Codec: if it cannot
// decode the data it returns an error, preferably a *SyntaxError.
type Codec interface {
	// Name returns the registry name of the codec.
	Name() string
	// Marshal encodes v for a request body.
	Marshal(v interface{}) ([]byte, error)
	// Decode parses data into a generic value built from
	// map[string]interface{}, []interface{}, string, float64 (or
	// another numeric type), bool, and nil.
	Decode(data []byte) (interface{}, error)
	// Unmarshal parses data into the value pointed to by v.
	Unmarshal(data []byte, v interface{}) error
}

// A SyntaxError describes data that a Codec could not parse.
type SyntaxError struct {
	// Codec is the name of the codec that rejected the data.
	Codec string
	// Msg is the parser's description of the problem.
	Msg string
	// Offset is the byte offset at which the problem was detected, or
	// -1 if the parser does not report one.
	Offset int64
	// Err is the parser's original error, if any.
	Err error
}

func (err *SyntaxError) Error() string {
	if err.Offset >= 0 {
		return fmt.Sprintf("rapidhttp/codec: %s: %s (offset %d)", err.Codec, err.Msg, err.Offset)
	}
	return fmt.Sprintf("rapidhttp/codec: %s: %s", err.Codec, err.Msg)
}

// Unwrap returns the parser's original error.
func (err *SyntaxError) Unwrap() error {
	return err.Err
}

var registry = map[string]Codec{
	JSON.Name():  JSON,
	GJSON.Name(): GJSON,
	YAML.Name():  YAML,
}

// Lookup returns the codec registered under name. Names are case
// insensitive; the empty name selects JSON.
func Lookup(name string) (Codec, error) {
	if name == "" {
		return JSON, nil
	}
	if c, ok := registry[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("rapidhttp/codec: unknown codec %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names returns the registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the codec used when none is configured, JSON.
func Default() Codec {
	return JSON
}
