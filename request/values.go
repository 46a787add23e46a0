// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/url"
	"sort"
	"strings"
)

// A Param is one key/value pair in an ordered Values list.
type Param struct {
	Key   string
	Value string
}

// Values is an ordered string-to-string mapping used for query
// parameters and form bodies.
//
// Unlike url.Values, Values remembers insertion order and holds at most
// one value per key: Set on an existing key replaces its value in place,
// and Set on a new key appends it. The zero value is an empty list ready
// to use.
type Values []Param

// ValuesOf converts a map into Values. Since maps are unordered, keys
// are sorted to make the result deterministic.
func ValuesOf(m map[string]string) Values {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := make(Values, 0, len(keys))
	for _, k := range keys {
		v = append(v, Param{k, m[k]})
	}
	return v
}

// FromURLValues converts url.Values into Values, keeping the last value
// of each key. Keys are sorted.
func FromURLValues(u url.Values) Values {
	m := make(map[string]string, len(u))
	for k, vs := range u {
		if len(vs) > 0 {
			m[k] = vs[len(vs)-1]
		}
	}
	return ValuesOf(m)
}

// Get returns the value associated with key and whether it is present.
func (v Values) Get(key string) (string, bool) {
	if i := v.index(key); i >= 0 {
		return v[i].Value, true
	}
	return "", false
}

// Set associates value with key, replacing any existing value in place.
func (v *Values) Set(key, value string) {
	if i := v.index(key); i >= 0 {
		(*v)[i].Value = value
		return
	}
	*v = append(*v, Param{key, value})
}

// Del removes key, preserving the order of the remaining entries.
func (v *Values) Del(key string) {
	if i := v.index(key); i >= 0 {
		*v = append((*v)[:i], (*v)[i+1:]...)
	}
}

// Keys returns the keys in order.
func (v Values) Keys() []string {
	keys := make([]string, len(v))
	for i := range v {
		keys[i] = v[i].Key
	}
	return keys
}

// Clone returns a copy of v which shares no storage with it.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	copy(out, v)
	return out
}

// Overlay returns a copy of v with every entry of w applied on top using
// Set. Neither v nor w is modified.
func (v Values) Overlay(w Values) Values {
	out := v.Clone()
	for _, p := range w {
		out.Set(p.Key, p.Value)
	}
	return out
}

// Encode encodes the values into URL-encoded form ("a=1&b=2") in order.
func (v Values) Encode() string {
	var sb strings.Builder
	for i, p := range v {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

func (v Values) index(key string) int {
	for i := range v {
		if v[i].Key == key {
			return i
		}
	}
	return -1
}
