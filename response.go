// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gogama/rapidhttp/codec"
	"github.com/gogama/rapidhttp/reqerr"
	"github.com/gogama/rapidhttp/request"
	"github.com/gogama/rapidhttp/status"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"
)

// DefaultEncoding is the text encoding used when neither SetEncoding
// nor the Content-Type header names one.
const DefaultEncoding = "utf-8"

// A Response is the caller's view of the result of one call.
//
// Content, Text, and Structured decode the body lazily, each at most
// once for the life of the Response: the first call does the work and
// every later call returns the same result, including the same error.
// None of the methods perform network activity, and the underlying
// request.Response is never modified.
//
// A Response is safe for concurrent use by multiple goroutines.
type Response struct {
	raw   *request.Response
	plan  *request.Plan
	codec codec.Codec

	mu       sync.Mutex
	encoding string

	contentOnce sync.Once
	content     []byte
	contentErr  error

	textOnce sync.Once
	text     string
	textErr  error

	structuredOnce sync.Once
	structured     interface{}
	structuredErr  error
}

// NewResponse returns a Response viewing raw, the transport result for
// plan p. Structured data is decoded with c, or codec.Default() if c
// is nil.
func NewResponse(raw *request.Response, p *request.Plan, c codec.Codec) *Response {
	if raw == nil {
		panic("rapidhttp: nil response")
	}
	if c == nil {
		c = codec.Default()
	}
	return &Response{raw: raw, plan: p, codec: c}
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.raw.StatusCode
}

// URL returns the final URL, after any redirects.
func (r *Response) URL() string {
	return r.raw.URL
}

// Header returns the response header. It must not be modified.
func (r *Response) Header() http.Header {
	return r.raw.Header
}

// Proto returns the response protocol, for example "HTTP/2.0".
func (r *Response) Proto() string {
	return r.raw.Proto
}

// Elapsed returns the time between sending the request and receiving
// the complete response.
func (r *Response) Elapsed() time.Duration {
	return r.raw.Elapsed
}

// Request returns the resolved plan of the call which produced the
// response.
func (r *Response) Request() *request.Plan {
	return r.plan
}

// Raw returns the transport result the response views.
func (r *Response) Raw() *request.Response {
	return r.raw
}

// Reason returns the canonical reason phrase of the status code, or ""
// if it has none.
func (r *Response) Reason() string {
	return status.Reason(r.raw.StatusCode)
}

// OK reports whether the status code is below 400.
func (r *Response) OK() bool {
	return r.raw.StatusCode < 400
}

// IsRedirect reports whether the response has a Location header and a
// redirect status code: 301, 302, 303, 307, or 308.
func (r *Response) IsRedirect() bool {
	if !r.hasLocation() {
		return false
	}
	switch r.raw.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// IsPermanentRedirect reports whether the response has a Location
// header and a permanent redirect status code: 301 or 308.
func (r *Response) IsPermanentRedirect() bool {
	if !r.hasLocation() {
		return false
	}
	return r.raw.StatusCode == http.StatusMovedPermanently ||
		r.raw.StatusCode == http.StatusPermanentRedirect
}

func (r *Response) hasLocation() bool {
	_, ok := r.raw.Header[http.CanonicalHeaderKey("Location")]
	return ok
}

// RaiseForStatus returns an HTTP error if the status code is 400 or
// above, and nil otherwise. The error carries the response.
func (r *Response) RaiseForStatus() error {
	code := r.raw.StatusCode
	var class string
	switch {
	case code >= 400 && code < 500:
		class = "Client Error"
	case code >= 500 && code < 600:
		class = "Server Error"
	default:
		return nil
	}
	reason := r.Reason()
	return &reqerr.Error{
		Kind:       reqerr.HTTP,
		URL:        r.raw.URL,
		Msg:        fmt.Sprintf("%d %s: %s for url: %s", code, class, reason, r.raw.URL),
		Response:   r.raw,
		StatusCode: code,
		Reason:     reason,
		Offset:     -1,
	}
}

func (r *Response) String() string {
	return fmt.Sprintf("<Response [%d]>", r.raw.StatusCode)
}

// decodeContent removes a Content-Encoding the transport left in place.
// Tests replace it to count decodes.
var decodeContent = func(body []byte, contentEncoding string) ([]byte, error) {
	var rc io.ReadCloser
	var err error
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		rc, err = gzip.NewReader(bytes.NewReader(body))
	case "deflate":
		// Servers send either zlib-wrapped or raw deflate.
		rc, err = zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			rc, err = flate.NewReader(bytes.NewReader(body)), nil
		}
	default:
		return body, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return io.ReadAll(rc)
}

// Content returns the response body, with any gzip or deflate
// Content-Encoding removed. A body that cannot be decompressed gives a
// Decode error.
func (r *Response) Content() ([]byte, error) {
	r.contentOnce.Do(func() {
		if len(r.raw.Body) == 0 {
			r.content = r.raw.Body
			return
		}
		b, err := decodeContent(r.raw.Body, r.raw.Header.Get("Content-Encoding"))
		if err != nil {
			r.contentErr = r.decodeError("failed to decode content: "+err.Error(), err, -1)
			return
		}
		r.content = b
	})
	return r.content, r.contentErr
}

// Reader returns a reader over Content. Bodies are always fully
// buffered, so reading never blocks on the network.
func (r *Response) Reader() (io.Reader, error) {
	b, err := r.Content()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// SetEncoding sets the encoding Text uses, overriding the Content-Type
// charset. It has no effect once Text has been called.
func (r *Response) SetEncoding(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoding = name
}

// Encoding returns the encoding Text uses: the one given to
// SetEncoding, else the charset parameter of the Content-Type header,
// else DefaultEncoding.
func (r *Response) Encoding() string {
	r.mu.Lock()
	enc := r.encoding
	r.mu.Unlock()
	if enc != "" {
		return enc
	}
	if _, params, err := mime.ParseMediaType(r.raw.Header.Get("Content-Type")); err == nil {
		if cs := strings.Trim(params["charset"], `"' `); cs != "" {
			return cs
		}
	}
	return DefaultEncoding
}

// ApparentEncoding guesses the encoding of Content from its bytes alone,
// ignoring any declared charset. It returns "" if Content fails.
func (r *Response) ApparentEncoding() string {
	b, err := r.Content()
	if err != nil {
		return ""
	}
	_, name, _ := charset.DetermineEncoding(b, "")
	return name
}

// Text returns Content decoded with Encoding. Invalid byte sequences
// become U+FFFD. An encoding name that is not recognized gives a Decode
// error.
func (r *Response) Text() (string, error) {
	r.textOnce.Do(func() {
		b, err := r.Content()
		if err != nil {
			r.textErr = err
			return
		}
		name := r.Encoding()
		enc, _ := charset.Lookup(name)
		if enc == nil {
			r.textErr = r.decodeError(fmt.Sprintf("unknown encoding %q", name), nil, -1)
			return
		}
		decoded, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			r.textErr = r.decodeError(fmt.Sprintf("invalid %s text: %s", name, err.Error()), err, -1)
			return
		}
		r.text = string(decoded)
	})
	return r.text, r.textErr
}

// Structured parses Content with the session's codec and returns the
// result, built from maps, slices, strings, numbers, booleans, and nil.
// A body the codec cannot parse gives a Decode error reporting the
// parser's message and, when known, the byte offset.
func (r *Response) Structured() (interface{}, error) {
	r.structuredOnce.Do(func() {
		b, err := r.Content()
		if err != nil {
			r.structuredErr = err
			return
		}
		v, err := r.codec.Decode(b)
		if err != nil {
			r.structuredErr = r.codecError(err)
			return
		}
		r.structured = v
	})
	return r.structured, r.structuredErr
}

// Unmarshal parses Content into the value pointed to by v using the
// session's codec. Unlike Structured it is not cached.
func (r *Response) Unmarshal(v interface{}) error {
	b, err := r.Content()
	if err != nil {
		return err
	}
	if err = r.codec.Unmarshal(b, v); err != nil {
		return r.codecError(err)
	}
	return nil
}

// Get returns the JSON value at path, in gjson syntax ("users.0.name")
// or simple JSONPath syntax ("$.users[0].name"). The result does not
// exist if Content fails or the path matches nothing.
func (r *Response) Get(path string) gjson.Result {
	b, err := r.Content()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(b, gjsonPath(path))
}

// ValidateSchema validates Content, parsed as JSON, against the JSON
// Schema document schema. It returns nil if the body conforms, a
// *jsonschema.ValidationError if it does not, a Decode error if the
// body is not JSON, and a Configuration error if the schema is invalid.
func (r *Response) ValidateSchema(schema string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return r.schemaError(err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return r.schemaError(err)
	}
	b, err := r.Content()
	if err != nil {
		return err
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err = dec.Decode(&doc); err == nil && dec.More() {
		err = errors.New("unexpected data after top-level value")
	}
	if err != nil {
		return r.decodeError("invalid JSON: "+err.Error(), err, dec.InputOffset())
	}
	return compiled.Validate(doc)
}

func (r *Response) schemaError(err error) error {
	return &reqerr.Error{
		Kind:   reqerr.Configuration,
		URL:    r.raw.URL,
		Msg:    "invalid schema: " + err.Error(),
		Err:    err,
		Offset: -1,
	}
}

func (r *Response) codecError(err error) error {
	var syntaxErr *codec.SyntaxError
	if errors.As(err, &syntaxErr) {
		return r.decodeError(syntaxErr.Msg, err, syntaxErr.Offset)
	}
	return r.decodeError(err.Error(), err, -1)
}

func (r *Response) decodeError(msg string, cause error, offset int64) error {
	return &reqerr.Error{
		Kind:     reqerr.Decode,
		URL:      r.raw.URL,
		Msg:      msg,
		Err:      cause,
		Response: r.raw,
		Offset:   offset,
	}
}

// gjsonPath accepts JSONPath-style paths such as "$.a[0]['b']" and
// converts them to gjson syntax ("a.0.b"). Other paths are returned
// unchanged.
func gjsonPath(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}
	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				sb.WriteString(path[i:])
				i = len(path)
				continue
			}
			key := strings.Trim(path[i+1:i+end], `'"`)
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(key)
			i += end
		case '.':
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
