// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
// Command eappwd runs EAP-pwd exchanges between a peer and the reference server, and computes NT password hashes.
package main

import (
	"os"

	"github.com/bytemare/eappwd/cmd/eappwd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
