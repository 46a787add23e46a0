// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogama/rapidhttp/reqerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type echo struct {
	Method string
	Query  string
	Header http.Header
	Body   string
}

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Served-By", "test")
		_ = json.NewEncoder(w).Encode(echo{
			Method: r.Method,
			Query:  r.URL.RawQuery,
			Header: r.Header,
			Body:   string(b),
		})
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello\n")
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/plain", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type record struct {
	Status  int                 `json:"status" yaml:"status"`
	Reason  string              `json:"reason" yaml:"reason"`
	URL     string              `json:"url" yaml:"url"`
	Headers map[string][]string `json:"headers" yaml:"headers"`
	Body    interface{}         `json:"body" yaml:"body"`
}

func TestRootCmd(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		out, err := run()
		require.NoError(t, err)
		assert.Contains(t, out, "Usage:")
		for _, name := range []string{"get", "head", "post", "put", "patch", "delete", "options", "bench"} {
			assert.Contains(t, out, name)
		}
	})
	t.Run("version", func(t *testing.T) {
		out, err := run("--version")
		require.NoError(t, err)
		assert.Contains(t, out, version)
	})
	t.Run("missing URL", func(t *testing.T) {
		_, err := run("get")
		assert.Error(t, err)
	})
}

func TestRequestCmd(t *testing.T) {
	server := newTestServer(t)

	t.Run("text", func(t *testing.T) {
		out, err := run("get", server.URL+"/echo", "-p", "q=go", "-H", "X-Test: 1")

		require.NoError(t, err)
		assert.Contains(t, out, "HTTP/1.1 200 OK\n")
		assert.Contains(t, out, `"Method": "GET"`)
		assert.Contains(t, out, `"Query": "q=go"`)
		assert.NotContains(t, out, "X-Served-By")
	})
	t.Run("include headers", func(t *testing.T) {
		out, err := run("get", server.URL+"/plain", "-i")

		require.NoError(t, err)
		assert.Contains(t, out, "Content-Type: text/plain\n")
		assert.Contains(t, out, "\n\nhello\n")
	})
	t.Run("json", func(t *testing.T) {
		out, err := run("put", server.URL+"/echo", "-o", "json", "-f", "a=1", "-f", "b=2")

		require.NoError(t, err)
		var rec record
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, 200, rec.Status)
		assert.Equal(t, "OK", rec.Reason)
		assert.Equal(t, server.URL+"/echo", rec.URL)
		assert.Equal(t, []string{"test"}, rec.Headers["X-Served-By"])
		body, ok := rec.Body.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "PUT", body["Method"])
		assert.Equal(t, "a=1&b=2", body["Body"])
	})
	t.Run("yaml", func(t *testing.T) {
		out, err := run("post", server.URL+"/echo", "-o", "yaml", "--json", `{"a":[1,2]}`)

		require.NoError(t, err)
		var rec record
		require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
		assert.Equal(t, 200, rec.Status)
		body, ok := rec.Body.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "POST", body["Method"])
		assert.JSONEq(t, `{"a":[1,2]}`, body["Body"].(string))
	})
	t.Run("text body in json output", func(t *testing.T) {
		out, err := run("get", server.URL+"/plain", "-o", "json")

		require.NoError(t, err)
		var rec record
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "hello\n", rec.Body)
	})
	t.Run("data file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.txt")
		require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

		out, err := run("patch", server.URL+"/echo", "-d", "@"+path, "-o", "json")

		require.NoError(t, err)
		var rec record
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "from file", rec.Body.(map[string]interface{})["Body"])
	})
	t.Run("basic auth", func(t *testing.T) {
		out, err := run("get", server.URL+"/echo", "-u", "user:pass", "-o", "json")

		require.NoError(t, err)
		var rec struct {
			Body echo `json:"body"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "Basic dXNlcjpwYXNz", rec.Body.Header.Get("Authorization"))
	})
	t.Run("head", func(t *testing.T) {
		out, err := run("head", server.URL+"/plain")

		require.NoError(t, err)
		assert.Equal(t, "HTTP/1.1 200 OK\n", out)
	})
	t.Run("no redirects", func(t *testing.T) {
		out, err := run("get", server.URL+"/redirect", "--no-redirects")

		require.NoError(t, err)
		assert.Contains(t, out, "302 Found")
	})
	t.Run("raise", func(t *testing.T) {
		out, err := run("get", server.URL+"/missing", "--raise")

		assert.Contains(t, out, "404 Not Found")
		assert.True(t, errors.Is(err, reqerr.HTTP))

		_, err = run("get", server.URL+"/missing")
		assert.NoError(t, err)
	})
	t.Run("connection error", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		_, err := run("get", addr)

		assert.True(t, errors.Is(err, reqerr.Connection))
	})
	t.Run("invalid flags", func(t *testing.T) {
		testCases := []struct {
			name string
			args []string
			msg  string
		}{
			{"output", []string{"-o", "xml"}, `unknown output format "xml"`},
			{"header", []string{"-H", "nocolon"}, `invalid header "nocolon"`},
			{"param", []string{"-p", "novalue"}, `invalid param "novalue"`},
			{"form", []string{"-f", "=v"}, `invalid form field "=v"`},
			{"json", []string{"--json", "{"}, "invalid --json body"},
			{"two bodies", []string{"-d", "x", "--json", "1"}, "only one of"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				args := append([]string{"post", server.URL + "/echo"}, testCase.args...)
				_, err := run(args...)
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.msg)
			})
		}
	})
}

func TestBenchCmd(t *testing.T) {
	server := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		out, err := run("bench", server.URL+"/plain", "-n", "5", "--warmup", "1", "-o", "json")

		require.NoError(t, err)
		var r benchResult
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, 5, r.Requests)
		assert.Equal(t, 5, r.Count)
		assert.Equal(t, 0, r.Errors)
		assert.Greater(t, r.MeanMS, 0.0)
		assert.GreaterOrEqual(t, r.P95MS, r.MedianMS)
		assert.Greater(t, r.ReqPerSec, 0.0)
	})
	t.Run("text", func(t *testing.T) {
		out, err := run("bench", server.URL+"/echo", "-n", "4", "-c", "2", "-X", "post")

		require.NoError(t, err)
		assert.Contains(t, out, "Benchmark: POST "+server.URL+"/echo")
		assert.Contains(t, out, "succeeded    4")
		assert.Contains(t, out, "errors       0")
	})
	t.Run("all failed", func(t *testing.T) {
		out, err := run("bench", server.URL+"/missing", "-n", "3", "--warmup", "0", "-o", "yaml")

		assert.True(t, errors.Is(err, errAllFailed))
		var r benchResult
		require.NoError(t, yaml.Unmarshal([]byte(out), &r))
		assert.Equal(t, 0, r.Count)
		assert.Equal(t, 3, r.Errors)
	})
	t.Run("bad counts", func(t *testing.T) {
		_, err := run("bench", server.URL, "-n", "0")
		assert.EqualError(t, err, "--requests must be at least 1")

		_, err = run("bench", server.URL, "-c", "0")
		assert.EqualError(t, err, "--concurrency must be at least 1")
	})
}

func TestRunBench(t *testing.T) {
	server := newTestServer(t)
	s, err := newSession()
	require.NoError(t, err)
	defer s.Close()

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runBench(ctx, s, server.URL+"/plain", &benchFlags{method: "GET", requests: 3, warmup: 1, concurrency: 1})

		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("concurrent", func(t *testing.T) {
		r, err := runBench(context.Background(), s, server.URL+"/plain", &benchFlags{method: "get", requests: 20, concurrency: 4})

		require.NoError(t, err)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, 20, r.Count)
	})
}

func TestColorScheme(t *testing.T) {
	cs := NewColorScheme(false)
	assert.Equal(t, "plain", cs.Success.Sprint("plain"))
	assert.Same(t, cs.Success, cs.Status(200))
	assert.Same(t, cs.Success, cs.Status(302))
	assert.Same(t, cs.Warning, cs.Status(404))
	assert.Same(t, cs.Failure, cs.Status(503))

	colored := NewColorScheme(true)
	assert.NotEqual(t, "plain", colored.Success.Sprint("plain"))
	assert.Contains(t, colored.Success.Sprint("plain"), "plain")
}
