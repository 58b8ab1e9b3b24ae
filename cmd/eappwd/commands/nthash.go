// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytemare/eappwd/internal"
)

func nthashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nthash <password>",
		Short: "Print the NT password hash and its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := internal.NTPasswordHash([]byte(args[0]))
			if err != nil {
				return err
			}
			defer internal.Wipe(h)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "NtPasswordHash:       %s\n", hex.EncodeToString(h))
			_, _ = fmt.Fprintf(out, "HashNtPasswordHash:   %s\n", hex.EncodeToString(internal.HashNTPasswordHash(h)))

			return nil
		},
	}

	return cmd
}
