// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package encoding

import "crypto/subtle"

// Concatenate takes the variadic array of input and returns a concatenation of it.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// LeftPad returns a copy of in, prepended with zeros up to length. Big numbers occupy as little memory as possible,
// so one that is sufficiently smaller than the field it lives in needs to be pre-pended with zeros. If in is already
// longer than length, it is returned as is.
func LeftPad(in []byte, length int) []byte {
	if len(in) >= length {
		out := make([]byte, len(in))
		copy(out, in)

		return out
	}

	out := make([]byte, length)
	copy(out[length-len(in):], in)

	return out
}

// ConstantTimeEqual returns whether a and b are equal, in time independent of their contents.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
