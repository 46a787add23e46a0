// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gogama/rapidhttp"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ColorScheme holds the colors used for text output.
type ColorScheme struct {
	Success *color.Color
	Warning *color.Color
	Failure *color.Color
	Key     *color.Color
	Label   *color.Color
	Dim     *color.Color
}

// NewColorScheme returns the default scheme, with color turned off when
// enabled is false.
func NewColorScheme(enabled bool) *ColorScheme {
	cs := &ColorScheme{
		Success: color.New(color.FgGreen, color.Bold),
		Warning: color.New(color.FgYellow, color.Bold),
		Failure: color.New(color.FgRed, color.Bold),
		Key:     color.New(color.FgCyan),
		Label:   color.New(color.FgBlue, color.Bold),
		Dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{cs.Success, cs.Warning, cs.Failure, cs.Key, cs.Label, cs.Dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return cs
}

// Status picks the color for an HTTP status code.
func (cs *ColorScheme) Status(code int) *color.Color {
	switch {
	case code >= 500:
		return cs.Failure
	case code >= 400:
		return cs.Warning
	default:
		return cs.Success
	}
}

type printer struct {
	w      io.Writer
	format string
	colors *ColorScheme
}

func newPrinter(w io.Writer, format string, noColor bool) (*printer, error) {
	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or yaml)", format)
	}
	return &printer{
		w:      w,
		format: format,
		colors: NewColorScheme(!noColor && isTerminal(w)),
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type responseRecord struct {
	Status    int                 `json:"status" yaml:"status"`
	Reason    string              `json:"reason" yaml:"reason"`
	URL       string              `json:"url" yaml:"url"`
	Proto     string              `json:"proto" yaml:"proto"`
	ElapsedMS float64             `json:"elapsed_ms" yaml:"elapsed_ms"`
	Headers   map[string][]string `json:"headers" yaml:"headers"`
	Body      interface{}         `json:"body,omitempty" yaml:"body,omitempty"`
}

func newResponseRecord(resp *rapidhttp.Response) (*responseRecord, error) {
	rec := &responseRecord{
		Status:    resp.StatusCode(),
		Reason:    resp.Reason(),
		URL:       resp.URL(),
		Proto:     resp.Proto(),
		ElapsedMS: milliseconds(resp.Elapsed()),
		Headers:   resp.Header(),
	}
	if isJSON(resp) {
		if v, err := resp.Structured(); err == nil {
			rec.Body = v
			return rec, nil
		}
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}
	if text != "" {
		rec.Body = text
	}
	return rec, nil
}

func (p *printer) response(resp *rapidhttp.Response, include bool) error {
	if p.format != formatText {
		rec, err := newResponseRecord(resp)
		if err != nil {
			return err
		}
		return p.encode(rec)
	}

	code := resp.StatusCode()
	fmt.Fprintf(p.w, "%s %s\n", resp.Proto(), p.colors.Status(code).Sprintf("%d %s", code, resp.Reason()))
	if include {
		h := resp.Header()
		keys := make([]string, 0, len(h))
		for k := range h {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range h[k] {
				fmt.Fprintf(p.w, "%s: %s\n", p.colors.Key.Sprint(k), v)
			}
		}
	}
	text, err := resp.Text()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if isJSON(resp) {
		var buf bytes.Buffer
		if json.Indent(&buf, []byte(text), "", "  ") == nil {
			text = buf.String()
		}
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, strings.TrimRight(text, "\n"))
	return nil
}

func (p *printer) bench(r *benchResult) error {
	if p.format != formatText {
		return p.encode(r)
	}
	label := p.colors.Label
	fmt.Fprintf(p.w, "%s %s %s\n", label.Sprint("Benchmark:"), r.Method, r.URL)
	fmt.Fprintf(p.w, "  %-12s %d\n", "requests", r.Requests)
	fmt.Fprintf(p.w, "  %-12s %d\n", "succeeded", r.Count)
	errs := fmt.Sprint(r.Errors)
	if r.Errors > 0 {
		errs = p.colors.Failure.Sprint(errs)
	}
	fmt.Fprintf(p.w, "  %-12s %s\n", "errors", errs)
	fmt.Fprintf(p.w, "  %-12s %.2fms\n", "mean", r.MeanMS)
	fmt.Fprintf(p.w, "  %-12s %.2fms\n", "median", r.MedianMS)
	fmt.Fprintf(p.w, "  %-12s %.2fms\n", "p95", r.P95MS)
	fmt.Fprintf(p.w, "  %-12s %s\n", "req/sec", p.colors.Success.Sprintf("%.1f", r.ReqPerSec))
	return nil
}

func (p *printer) encode(v interface{}) error {
	if p.format == formatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isJSON(resp *rapidhttp.Response) bool {
	return strings.Contains(resp.Header().Get("Content-Type"), "json")
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
