// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
// Package commands defines the eappwd CLI.
//
// Commands
//
//   - exchange   Run a full exchange between a peer and the reference server, in memory
//   - nthash     Print the NT password hash of a password, for hashed password configurations
package commands
