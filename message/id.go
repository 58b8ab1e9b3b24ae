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

// Prep is the password preprocessing method negotiated in the Id exchange.
type Prep byte

const (
	// PrepNone uses the password as provided.
	PrepNone Prep = 0

	// PrepMS uses the MS-CHAPv2 hash of the NT password hash.
	PrepMS Prep = 1
)

// String implements the fmt.Stringer interface.
func (p Prep) String() string {
	switch p {
	case PrepNone:
		return "None"
	case PrepMS:
		return "MS"
	default:
		return "Unknown"
	}
}

const (
	// RandomFunction is the only random function defined, HMAC-SHA256 keyed with zeros.
	RandomFunction uint8 = 1

	// PRF is the only pseudo-random function defined, HMAC-SHA256.
	PRF uint8 = 1

	// CiphersuiteLength is the size of the ciphersuite: group, random function, and PRF.
	CiphersuiteLength = 4

	idFixedLength = CiphersuiteLength + internal.TokenLength + 1
)

// ID is the Id payload. Both sides send one, the peer echoing the server's ciphersuite, token and preprocessing.
type ID struct {
	Token          []byte `json:"t"`
	Identity       []byte `json:"i"`
	Group          uint16 `json:"g"`
	RandomFunction uint8  `json:"r"`
	PRF            uint8  `json:"p"`
	Prep           Prep   `json:"m"`
}

// DeserializeID decodes an Id payload. The identity is whatever follows the fixed fields, and can be empty.
func DeserializeID(in []byte) (*ID, error) {
	s := cryptobyte.String(in)
	m := new(ID)

	var token []byte

	var prep uint8
	if !s.ReadUint16(&m.Group) || !s.ReadUint8(&m.RandomFunction) || !s.ReadUint8(&m.PRF) ||
		!s.ReadBytes(&token, internal.TokenLength) || !s.ReadUint8(&prep) {
		return nil, internal.ErrInvalidIDLength
	}

	m.Token = append([]byte(nil), token...)
	m.Prep = Prep(prep)
	m.Identity = append([]byte(nil), s...)

	return m, nil
}

// Ciphersuite returns the group, random function and PRF as bound into the session identifier.
func (m *ID) Ciphersuite() []byte {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, CiphersuiteLength))
	b.AddUint16(m.Group)
	b.AddUint8(m.RandomFunction)
	b.AddUint8(m.PRF)

	return b.BytesOrPanic()
}

// Serialize returns the byte encoding of the Id payload.
func (m *ID) Serialize() []byte {
	b := cryptobyte.NewBuilder(make([]byte, 0, idFixedLength+len(m.Identity)))
	b.AddBytes(m.Ciphersuite())
	b.AddBytes(m.Token)
	b.AddUint8(uint8(m.Prep))
	b.AddBytes(m.Identity)

	return b.BytesOrPanic()
}
