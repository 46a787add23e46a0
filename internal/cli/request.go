// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/gogama/rapidhttp"
	"github.com/gogama/rapidhttp/codec"
	"github.com/gogama/rapidhttp/request"
	"github.com/spf13/cobra"
)

type requestFlags struct {
	headers     []string
	params      []string
	form        []string
	data        string
	json        string
	user        string
	proxy       string
	caBundle    string
	cert        string
	key         string
	timeout     time.Duration
	noRedirects bool
	insecure    bool
	include     bool
	raise       bool
}

func newRequestCmd(root *rootFlags, method string) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: fmt.Sprintf("Send a %s request", method),
		Example: fmt.Sprintf(`  rapidhttp %s https://httpbin.org/anything -H "Accept: application/json" -p q=go`,
			strings.ToLower(method)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), root.output, root.noColor)
			if err != nil {
				return err
			}
			opts, err := f.options()
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.Request(commandContext(cmd), method, args[0], opts...)
			if err != nil {
				return err
			}
			if err = p.response(resp, f.include); err != nil {
				return err
			}
			if f.raise {
				return resp.RaiseForStatus()
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.headers, "header", "H", nil, `request header as "Name: value" (repeatable)`)
	fl.StringArrayVarP(&f.params, "param", "p", nil, "query parameter as key=value (repeatable)")
	fl.StringArrayVarP(&f.form, "form", "f", nil, "form field as key=value (repeatable)")
	fl.StringVarP(&f.data, "data", "d", "", "raw request body, or @file to read it from a file")
	fl.StringVar(&f.json, "json", "", "JSON request body")
	fl.StringVarP(&f.user, "user", "u", "", "basic auth credentials as user:password")
	fl.StringVar(&f.proxy, "proxy", "", "proxy URL for all requests")
	fl.StringVar(&f.caBundle, "ca-bundle", "", "PEM file of CA certificates to trust")
	fl.StringVar(&f.cert, "cert", "", "PEM client certificate file")
	fl.StringVar(&f.key, "key", "", "PEM client key file")
	fl.DurationVarP(&f.timeout, "timeout", "t", 0, "request timeout (0 uses the session default)")
	fl.BoolVar(&f.noRedirects, "no-redirects", false, "do not follow redirects")
	fl.BoolVarP(&f.insecure, "insecure", "k", false, "skip TLS certificate verification")
	fl.BoolVarP(&f.include, "include", "i", false, "print response headers in text output")
	fl.BoolVar(&f.raise, "raise", false, "exit with an error on 4xx and 5xx responses")
	return cmd
}

func (f *requestFlags) options() ([]rapidhttp.Option, error) {
	var opts []rapidhttp.Option

	headers := make(map[string][]string)
	var order []string
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		name = textproto.CanonicalMIMEHeaderKey(name)
		if _, seen := headers[name]; !seen {
			order = append(order, name)
		}
		headers[name] = append(headers[name], strings.TrimSpace(value))
	}
	for _, name := range order {
		opts = append(opts, rapidhttp.Header(name, headers[name]...))
	}

	for _, kv := range f.params {
		k, v, err := splitPair("param", kv)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rapidhttp.Param(k, v))
	}

	bodies := 0
	if len(f.form) > 0 {
		bodies++
		var form request.Values
		for _, kv := range f.form {
			k, v, err := splitPair("form field", kv)
			if err != nil {
				return nil, err
			}
			form = append(form, request.Param{Key: k, Value: v})
		}
		opts = append(opts, rapidhttp.Form(form))
	}
	if f.data != "" {
		bodies++
		data := []byte(f.data)
		if path, ok := strings.CutPrefix(f.data, "@"); ok {
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			data = b
		}
		opts = append(opts, rapidhttp.Data(data))
	}
	if f.json != "" {
		bodies++
		v, err := codec.JSON.Decode([]byte(f.json))
		if err != nil {
			return nil, fmt.Errorf("invalid --json body: %w", err)
		}
		opts = append(opts, rapidhttp.JSON(v))
	}
	if bodies > 1 {
		return nil, fmt.Errorf("only one of --data, --json, and --form may be given")
	}

	if f.user != "" {
		user, pass, _ := strings.Cut(f.user, ":")
		opts = append(opts, rapidhttp.BasicAuth(user, pass))
	}
	if f.proxy != "" {
		opts = append(opts, rapidhttp.Proxies(map[string]string{"all": f.proxy}))
	}
	if f.caBundle != "" {
		opts = append(opts, rapidhttp.CABundle(f.caBundle))
	}
	if f.insecure {
		opts = append(opts, rapidhttp.Verify(false))
	}
	if f.cert != "" {
		opts = append(opts, rapidhttp.Cert(f.cert, f.key))
	}
	if f.timeout > 0 {
		opts = append(opts, rapidhttp.Timeout(f.timeout))
	}
	if f.noRedirects {
		opts = append(opts, rapidhttp.AllowRedirects(false))
	}
	return opts, nil
}

func splitPair(what, kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid %s %q (want key=value)", what, kv)
	}
	return k, v, nil
}
