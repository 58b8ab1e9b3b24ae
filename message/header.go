// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
// Package message provides the EAP-pwd header and the Id, Commit and Confirm payload structures.
package message

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/bytemare/eappwd/internal"
)

// Exchange identifies the kind of an EAP-pwd message, in the low 6 bits of the header.
type Exchange byte

const (
	// ExchangeID is the Id exchange, negotiating the ciphersuite and identities.
	ExchangeID Exchange = 1

	// ExchangeCommit is the Commit exchange, carrying an element and a scalar.
	ExchangeCommit Exchange = 2

	// ExchangeConfirm is the Confirm exchange, carrying the confirmation digest.
	ExchangeConfirm Exchange = 3
)

// Available returns whether the exchange is one of Id, Commit or Confirm.
func (e Exchange) Available() bool {
	return e >= ExchangeID && e <= ExchangeConfirm
}

// String implements the fmt.Stringer interface.
func (e Exchange) String() string {
	switch e {
	case ExchangeID:
		return "Id"
	case ExchangeCommit:
		return "Commit"
	case ExchangeConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}

const (
	// HeaderLength is the size of the EAP-pwd header.
	HeaderLength = 1

	// TotalLengthSize is the size of the total length field present in first fragments.
	TotalLengthSize = 2

	// MaxTotalLength is the largest total length accepted for a reassembled message.
	MaxTotalLength = 15000

	flagLength   = 0x80
	flagMore     = 0x40
	exchangeMask = 0x3f
)

// Header is the EAP-pwd header octet: the L and M flags followed by the exchange.
type Header struct {
	Exchange Exchange `json:"e"`
	Length   bool     `json:"l"`
	More     bool     `json:"m"`
}

// ParseHeader decodes the header octet.
func ParseHeader(b byte) Header {
	return Header{
		Exchange: Exchange(b & exchangeMask),
		Length:   b&flagLength != 0,
		More:     b&flagMore != 0,
	}
}

// Serialize returns the header octet.
func (h Header) Serialize() byte {
	b := byte(h.Exchange) & exchangeMask

	if h.Length {
		b |= flagLength
	}

	if h.More {
		b |= flagMore
	}

	return b
}

// Frame is one EAP-pwd packet: a header, the total length when the L flag is set, and a data chunk.
type Frame struct {
	Data        []byte `json:"d"`
	TotalLength uint16 `json:"t"`
	Header
}

// ParseFrame splits a frame into its header, total length and data. The data aliases the input.
func ParseFrame(in []byte) (*Frame, error) {
	s := cryptobyte.String(in)

	var h uint8
	if !s.ReadUint8(&h) {
		return nil, internal.ErrEmptyFrame
	}

	f := &Frame{Header: ParseHeader(h)}

	if f.Length {
		if !s.ReadUint16(&f.TotalLength) {
			return nil, internal.ErrShortTotalLength
		}

		if f.TotalLength > MaxTotalLength {
			return nil, internal.ErrTotalLengthTooLarge
		}
	}

	f.Data = s

	return f, nil
}

// Serialize returns the wire encoding of the frame.
func (f *Frame) Serialize() []byte {
	b := cryptobyte.NewBuilder(make([]byte, 0, HeaderLength+TotalLengthSize+len(f.Data)))
	b.AddUint8(f.Header.Serialize())

	if f.Length {
		b.AddUint16(f.TotalLength)
	}

	b.AddBytes(f.Data)

	return b.BytesOrPanic()
}

// Ack returns the acknowledgement frame of the exchange: a bare header with no flags and no data.
func Ack(e Exchange) []byte {
	return []byte{Header{Exchange: e}.Serialize()}
}
