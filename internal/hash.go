// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package internal

import (
	"crypto"

	"github.com/bytemare/hash"

	"github.com/bytemare/eappwd/internal/encoding"
)

// zeroKey keys the HMAC that instantiates the random function H.
var zeroKey = make([]byte, HashLength)

func newHashFunction() *hash.Fixed {
	return hash.FromCrypto(crypto.SHA256).GetHashFunction()
}

// Hash is the random function H of the default ciphersuite: HMAC-SHA-256 keyed with an all-zero key.
// It is fed incrementally with Write and finalized with Sum.
type Hash struct {
	h   *hash.Fixed
	buf []byte
}

// NewHash returns a newly instantiated H. sizeHint is the expected total input length.
func NewHash(sizeHint int) *Hash {
	return &Hash{
		h:   newHashFunction(),
		buf: make([]byte, 0, sizeHint),
	}
}

// Write adds input to the running state.
func (h *Hash) Write(p ...[]byte) {
	for _, b := range p {
		h.buf = append(h.buf, b...)
	}
}

// Sum returns the digest of the running state and wipes it.
func (h *Hash) Sum() []byte {
	digest := h.h.Hmac(h.buf, zeroKey)
	ClearSlice(&h.buf)

	return digest
}

// Size returns the output size of the hashing function.
func (h *Hash) Size() int {
	return h.h.Size()
}

// KDF is the key derivation function of RFC 5931 section 2.5, a counter mode construction over HMAC-SHA-256.
// It returns bits bits of output, with the trailing bits of the last byte masked off when bits isn't a
// multiple of 8.
func KDF(key, label []byte, bits int) []byte {
	h := newHashFunction()
	length := (bits + 7) / 8
	out := make([]byte, 0, length+h.Size())
	l := encoding.I2OSP(bits, 2)

	var digest []byte

	for ctr := 1; len(out) < length; ctr++ {
		digest = h.Hmac(encoding.Concatenate(digest, encoding.I2OSP(ctr, 2), label, l), key)
		out = append(out, digest...)
	}

	Wipe(out[length:])
	out = out[:length]

	if r := bits % 8; r != 0 {
		out[length-1] &= byte(0xff << (8 - r))
	}

	return out
}
