// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/gogama/rapidhttp"
	"github.com/spf13/cobra"
)

const (
	histogramMin     = 1
	histogramMax     = int64(time.Minute / time.Microsecond)
	histogramSigFigs = 3
)

// errAllFailed is returned when no benchmark request succeeded.
var errAllFailed = errors.New("all benchmark requests failed")

type benchFlags struct {
	method      string
	requests    int
	warmup      int
	concurrency int
	timeout     time.Duration
}

type benchResult struct {
	Method    string  `json:"method" yaml:"method"`
	URL       string  `json:"url" yaml:"url"`
	Requests  int     `json:"requests" yaml:"requests"`
	Count     int     `json:"count" yaml:"count"`
	Errors    int     `json:"errors" yaml:"errors"`
	MeanMS    float64 `json:"mean_ms" yaml:"mean_ms"`
	MedianMS  float64 `json:"median_ms" yaml:"median_ms"`
	P95MS     float64 `json:"p95_ms" yaml:"p95_ms"`
	ReqPerSec float64 `json:"req_per_sec" yaml:"req_per_sec"`
}

func newBenchCmd(root *rootFlags) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Measure request latency against a URL",
		Long: `bench sends warmup requests, then the measured requests, through one
session. Only 200 responses count as successes; latency statistics
cover successful requests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.requests < 1 {
				return fmt.Errorf("--requests must be at least 1")
			}
			if f.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}
			p, err := newPrinter(cmd.OutOrStdout(), root.output, root.noColor)
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := runBench(commandContext(cmd), s, args[0], f)
			if err != nil && !errors.Is(err, errAllFailed) {
				return err
			}
			if perr := p.bench(r); perr != nil {
				return perr
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.method, "method", "X", http.MethodGet, "request method")
	fl.IntVarP(&f.requests, "requests", "n", 500, "number of measured requests")
	fl.IntVar(&f.warmup, "warmup", 10, "number of unmeasured warmup requests")
	fl.IntVarP(&f.concurrency, "concurrency", "c", 1, "number of concurrent workers")
	fl.DurationVarP(&f.timeout, "timeout", "t", 5*time.Second, "per-request timeout")
	return cmd
}

type latencyRecorder struct {
	mu     sync.Mutex
	hist   *hdrhistogram.Histogram
	total  time.Duration
	errors int
}

func (l *latencyRecorder) record(d time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !ok {
		l.errors++
		return
	}
	l.total += d
	us := d.Microseconds()
	if us > histogramMax {
		us = histogramMax
	}
	_ = l.hist.RecordValue(us)
}

func runBench(ctx context.Context, r rapidhttp.Requester, url string, f *benchFlags) (*benchResult, error) {
	method := strings.ToUpper(f.method)
	send := func() (time.Duration, bool) {
		start := time.Now()
		resp, err := r.Request(ctx, method, url, rapidhttp.Timeout(f.timeout))
		return time.Since(start), err == nil && resp.StatusCode() == http.StatusOK
	}

	for i := 0; i < f.warmup; i++ {
		send()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	rec := &latencyRecorder{hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)}
	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < f.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				rec.record(send())
			}
		}()
	}
	start := time.Now()
	for i := 0; i < f.requests && ctx.Err() == nil; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	wall := time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &benchResult{
		Method:   method,
		URL:      url,
		Requests: f.requests,
		Count:    int(rec.hist.TotalCount()),
		Errors:   rec.errors,
	}
	if res.Count == 0 {
		return res, errAllFailed
	}
	res.MeanMS = milliseconds(rec.total / time.Duration(res.Count))
	res.MedianMS = milliseconds(time.Duration(rec.hist.ValueAtQuantile(50)) * time.Microsecond)
	res.P95MS = milliseconds(time.Duration(rec.hist.ValueAtQuantile(95)) * time.Microsecond)
	elapsed := rec.total
	if f.concurrency > 1 {
		elapsed = wall
	}
	if elapsed > 0 {
		res.ReqPerSec = float64(res.Count) / elapsed.Seconds()
	}
	return res, nil
}
