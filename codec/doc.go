// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec provides interchangeable structured-data codecs behind
// one interface, Codec. A session uses its codec to encode JSON request
// bodies and to decode Response.Structured.
//
// Three codecs are registered: "json" (encoding/json, the default),
// "gjson" (github.com/tidwall/gjson), and "yaml" (gopkg.in/yaml.v3).
// The codec is chosen once, by configuration, and never changes
// silently: a body the chosen codec cannot parse is an error.
package codec
