// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package message

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/bytemare/eappwd/internal"
)

// Commit is the Commit payload: the affine coordinates of an element followed by a scalar.
type Commit struct {
	X      []byte `json:"x"`
	Y      []byte `json:"y"`
	Scalar []byte `json:"s"`
}

// DeserializeCommit decodes a Commit payload, whose length must be exactly 2*primeLen + orderLen.
func DeserializeCommit(in []byte, primeLen, orderLen int) (*Commit, error) {
	if len(in) != 2*primeLen+orderLen {
		return nil, internal.ErrInvalidCommitLength
	}

	s := cryptobyte.String(in)
	c := new(Commit)

	var x, y, scalar []byte
	if !s.ReadBytes(&x, primeLen) || !s.ReadBytes(&y, primeLen) || !s.ReadBytes(&scalar, orderLen) {
		return nil, internal.ErrInvalidCommitLength
	}

	c.X = append([]byte(nil), x...)
	c.Y = append([]byte(nil), y...)
	c.Scalar = append([]byte(nil), scalar...)

	return c, nil
}

// Serialize returns the byte encoding of the Commit payload.
func (c *Commit) Serialize() []byte {
	b := cryptobyte.NewBuilder(make([]byte, 0, len(c.X)+len(c.Y)+len(c.Scalar)))
	b.AddBytes(c.X)
	b.AddBytes(c.Y)
	b.AddBytes(c.Scalar)

	return b.BytesOrPanic()
}

// Confirm is the Confirm payload, a single digest.
type Confirm struct {
	Digest []byte `json:"d"`
}

// DeserializeConfirm decodes a Confirm payload, whose length must be exactly the digest size.
func DeserializeConfirm(in []byte) (*Confirm, error) {
	if len(in) != internal.HashLength {
		return nil, internal.ErrInvalidConfirmLength
	}

	return &Confirm{Digest: append([]byte(nil), in...)}, nil
}

// Serialize returns the byte encoding of the Confirm payload.
func (c *Confirm) Serialize() []byte {
	return c.Digest
}
