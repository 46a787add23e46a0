// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuth(t *testing.T) {
	r, err := http.NewRequest("GET", "http://example.com", nil)
	require.NoError(t, err)
	err = BasicAuth{Username: "Aladdin", Password: "open sesame"}.Apply(r)
	require.NoError(t, err)
	assert.Equal(t, "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==", r.Header.Get("Authorization"))
}

func TestAuthFunc(t *testing.T) {
	r, err := http.NewRequest("GET", "http://example.com", nil)
	require.NoError(t, err)
	var a Auth = AuthFunc(func(r *http.Request) error {
		r.Header.Set("X-Signature", r.URL.Host)
		return nil
	})
	require.NoError(t, a.Apply(r))
	assert.Equal(t, "example.com", r.Header.Get("X-Signature"))
}

func TestVerify(t *testing.T) {
	assert.True(t, Verify{}.Enabled())
	assert.True(t, Verify{CABundle: "/etc/ca.pem"}.Enabled())
	assert.False(t, Verify{Insecure: true}.Enabled())
}

func TestBodyKind_String(t *testing.T) {
	assert.Equal(t, "none", NoBody.String())
	assert.Equal(t, "raw", RawBody.String())
	assert.Equal(t, "json", JSONBody.String())
	assert.Equal(t, "form", FormBody.String())
	assert.Equal(t, "unknown", BodyKind(99).String())
}
