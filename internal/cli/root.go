// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the rapidhttp command line tool.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/gogama/rapidhttp"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// verbs are the methods with a subcommand of their own.
var verbs = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

type rootFlags struct {
	output  string
	noColor bool
}

// newSession builds the session each command uses.
var newSession = func() (*rapidhttp.Session, error) {
	return rapidhttp.NewSession()
}

// NewRootCmd returns the rapidhttp command with all its subcommands.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:     "rapidhttp",
		Short:   "Send HTTP requests and benchmark endpoints",
		Version: version,
		Long: `rapidhttp sends HTTP requests with the rapidhttp library and prints
the responses. Session defaults such as the transport engine, codec,
timeout, and TLS verification come from RAPIDHTTP_* environment
variables or the file named by RAPIDHTTP_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", formatText, "output format: text, json, or yaml")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	for _, method := range verbs {
		cmd.AddCommand(newRequestCmd(flags, method))
	}
	cmd.AddCommand(newBenchCmd(flags))
	return cmd
}

// Execute runs the root command with the process arguments until it
// finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error:"), err)
		return err
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
