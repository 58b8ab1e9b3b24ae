// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"github.com/bytemare/eappwd/internal"
)

// ServerOptions override internally generated values of the reference server.
// Only use this if you know what you're doing. Reusing tokens across sessions is a security risk.
type ServerOptions struct {
	// Token is the 4 byte token sent in the Id request, drawn at random if empty.
	Token []byte
}

func getToken(options ...*ServerOptions) ([]byte, error) {
	if len(options) == 0 || options[0] == nil || len(options[0].Token) == 0 {
		return internal.RandomBytes(internal.TokenLength), nil
	}

	if len(options[0].Token) != internal.TokenLength {
		return nil, ErrConfiguration.Join(internal.ErrTokenLength)
	}

	return clone(options[0].Token), nil
}
