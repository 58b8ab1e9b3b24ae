// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate EAP-pwd that are not part of the public API.
package internal

// These strings and values are the static labels and identifiers used throughout the protocol.
const (
	// LabelHuntingAndPecking is the KDF label used to derive candidate x-coordinates of the password element.
	LabelHuntingAndPecking = "EAP-pwd Hunting And Pecking"

	// EAPTypePWD is the EAP method type of EAP-pwd, and the first octet of the Session-Id.
	EAPTypePWD = 52

	// MSKLength is the length of the Master Session Key.
	MSKLength = 64

	// EMSKLength is the length of the Extended Master Session Key.
	EMSKLength = 64

	// SessionIDLength is the length of the Session-Id: the method type followed by a digest.
	SessionIDLength = 1 + HashLength

	// HashLength is the output length of H, the random function of the default ciphersuite.
	HashLength = 32

	// TokenLength is the length of the server token in the Id exchange.
	TokenLength = 4

	// NTHashLength is the length of an NT password hash.
	NTHashLength = 16
)
