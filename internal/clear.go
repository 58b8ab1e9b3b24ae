// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package internal

import (
	"crypto/subtle"
	"runtime"

	group "github.com/bytemare/crypto"
)

// Wipe overwrites b with zeros.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}

	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(&b)
}

// ClearSlice wipes the slice and sets it to nil.
func ClearSlice(b *[]byte) {
	if b == nil || *b == nil {
		return
	}

	Wipe(*b)
	*b = nil
}

// ClearScalar sets the scalar to zero and the pointer to nil.
func ClearScalar(s **group.Scalar) {
	if s == nil || *s == nil {
		return
	}

	(*s).Zero()
	*s = nil
}
