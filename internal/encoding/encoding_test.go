// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package encoding_test

import (
	"bytes"
	"testing"

	"github.com/bytemare/eappwd/internal/encoding"
)

func TestI2OSP(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int
		size    int
	}{
		{value: 0, size: 1, encoded: []byte{0}},
		{value: 1, size: 2, encoded: []byte{0, 1}},
		{value: 15000, size: 2, encoded: []byte{0x3a, 0x98}},
		{value: 19, size: 2, encoded: []byte{0, 19}},
		{value: 1 << 16, size: 3, encoded: []byte{1, 0, 0}},
		{value: 0x00130101, size: 4, encoded: []byte{0, 0x13, 1, 1}},
	}

	for _, tt := range tests {
		if r := encoding.I2OSP(tt.value, tt.size); !bytes.Equal(r, tt.encoded) {
			t.Errorf("I2OSP(%d, %d) = %v, want %v", tt.value, tt.size, r, tt.encoded)
		}
	}
}

func hasPanic(f func()) (has bool, err error) {
	defer func() {
		var report any
		if report = recover(); report != nil {
			has = true
			err, _ = report.(error)
		}
	}()

	f()

	return has, err
}

func TestI2OSP_Panics(t *testing.T) {
	tests := map[string]struct {
		value, length int
	}{
		"negative value":  {value: -1, length: 2},
		"too large value": {value: 1 << 16, length: 2},
		"zero length":     {value: 1, length: 0},
		"length above 4":  {value: 1, length: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if has, err := hasPanic(func() { _ = encoding.I2OSP(tt.value, tt.length) }); !has || err == nil {
				t.Fatalf("expected panic with an error, got %v", err)
			}
		})
	}
}

func TestLeftPad(t *testing.T) {
	in := []byte{1, 2}

	padded := encoding.LeftPad(in, 4)
	if !bytes.Equal(padded, []byte{0, 0, 1, 2}) {
		t.Fatalf("unexpected padding %v", padded)
	}

	same := encoding.LeftPad(in, 2)
	if !bytes.Equal(same, in) {
		t.Fatalf("unexpected result %v", same)
	}

	same[0] = 9
	if in[0] != 1 {
		t.Fatal("LeftPad must not alias its input")
	}

	if c := encoding.Concatenate([]byte{1}, nil, []byte{2, 3}); !bytes.Equal(c, []byte{1, 2, 3}) {
		t.Fatalf("unexpected concatenation %v", c)
	}

	if !encoding.ConstantTimeEqual([]byte{1, 2}, []byte{1, 2}) || encoding.ConstantTimeEqual([]byte{1, 2}, []byte{1, 3}) {
		t.Fatal("unexpected comparison")
	}
}
