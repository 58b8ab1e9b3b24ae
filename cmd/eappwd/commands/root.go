// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var verbose bool

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eappwd",
		Short:         "EAP-pwd (RFC 5931) peer tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log the exchange to stderr")

	root.AddCommand(exchangeCmd(), nthashCmd())

	return root
}

func newLogger(cmd *cobra.Command, side string) *slog.Logger {
	if !verbose {
		return nil
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("side", side)
}
