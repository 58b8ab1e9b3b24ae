// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
// Package group provides the elliptic curve groups EAP-pwd runs over, with affine coordinate access.
package group

import (
	"crypto/elliptic"
	"errors"
	"math/big"

	"filippo.io/nistec"
	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/encoding"
)

// IANA registered group numbers for the supported curves.
const (
	// P256 is the NIST P-256 curve.
	P256 uint16 = 19

	// P384 is the NIST P-384 curve.
	P384 uint16 = 20

	// P521 is the NIST P-521 curve.
	P521 uint16 = 21
)

// ErrUnsupportedGroup happens when the requested group number is not supported.
var ErrUnsupportedGroup = errors.New("unsupported group")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Group describes a negotiated group. The lengths are bound once at construction and never change.
type Group struct {
	Prime    *big.Int
	Order    *big.Int
	Cofactor *big.Int
	b        *big.Int
	points   backend
	Number   uint16
	PrimeLen int
	OrderLen int
	scalars  ecc.Group
}

// New returns a fresh descriptor of the group identified by number.
func New(number uint16) (*Group, error) {
	switch number {
	case P256:
		return newNIST(number, elliptic.P256(), nist[*nistec.P256Point]{nistec.NewP256Point}, ecc.P256Sha256), nil
	case P384:
		return newNIST(number, elliptic.P384(), nist[*nistec.P384Point]{nistec.NewP384Point}, ecc.P384Sha384), nil
	case P521:
		return newNIST(number, elliptic.P521(), nist[*nistec.P521Point]{nistec.NewP521Point}, ecc.P521Sha512), nil
	default:
		return nil, ErrUnsupportedGroup
	}
}

// Available returns whether the group number is supported.
func Available(number uint16) bool {
	switch number {
	case P256, P384, P521:
		return true
	default:
		return false
	}
}

func newNIST(number uint16, curve elliptic.Curve, points backend, scalars ecc.Group) *Group {
	params := curve.Params()

	return &Group{
		Prime:    params.P,
		Order:    params.N,
		Cofactor: big.NewInt(1),
		b:        params.B,
		points:   points,
		Number:   number,
		PrimeLen: (params.P.BitLen() + 7) / 8,
		OrderLen: (params.N.BitLen() + 7) / 8,
		scalars:  scalars,
	}
}

// HasCofactor returns whether the cofactor is greater than 1.
func (g *Group) HasCofactor() bool {
	return g.Cofactor.Cmp(one) > 0
}

// NewScalar returns a new scalar set to zero.
func (g *Group) NewScalar() *ecc.Scalar {
	return g.scalars.NewScalar()
}

// RandomScalar returns a uniformly random non-zero scalar modulo the order.
func (g *Group) RandomScalar() *ecc.Scalar {
	return g.scalars.NewScalar().Random()
}

// EncodeScalar returns the big-endian encoding of s, left-padded to the order length.
func (g *Group) EncodeScalar(s *ecc.Scalar) []byte {
	enc := s.Encode()
	out := encoding.LeftPad(enc, g.OrderLen)
	internal.Wipe(enc)

	return out
}

// DecodeScalar decodes a scalar received from the other party, which must be in (1, order).
func (g *Group) DecodeScalar(in []byte) (*ecc.Scalar, error) {
	if len(in) != g.OrderLen {
		return nil, internal.ErrInvalidScalar
	}

	if v := new(big.Int).SetBytes(in); v.Cmp(one) <= 0 || v.Cmp(g.Order) >= 0 {
		return nil, internal.ErrInvalidScalar
	}

	s := g.NewScalar()
	if err := s.Decode(in); err != nil {
		return nil, errors.Join(internal.ErrInvalidScalar, err)
	}

	return s, nil
}

// IsSmallScalar returns whether s is 0 or 1, which are unfit as a commit scalar.
func (g *Group) IsSmallScalar(s *ecc.Scalar) bool {
	enc := s.Encode()
	defer internal.Wipe(enc)

	return new(big.Int).SetBytes(enc).Cmp(two) < 0
}

// Identity returns the point at infinity.
func (g *Group) Identity() *Element {
	return &Element{group: g, encoded: []byte{0}}
}

// NewElement returns the point of affine coordinates x and y, each exactly the prime length long, and verifies it
// is on the curve.
func (g *Group) NewElement(x, y []byte) (*Element, error) {
	if len(x) != g.PrimeLen || len(y) != g.PrimeLen {
		return nil, internal.ErrInvalidElement
	}

	enc := encoding.Concatenate([]byte{uncompressed}, x, y)
	if err := g.points.check(enc); err != nil {
		return nil, errors.Join(internal.ErrInvalidElement, err)
	}

	return &Element{group: g, encoded: enc}, nil
}

// rhs returns x³ - 3x + b mod p.
func (g *Group) rhs(x *big.Int) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)

	threeX := new(big.Int).Lsh(x, 1)
	threeX.Add(threeX, x)

	x3.Sub(x3, threeX)
	x3.Add(x3, g.b)

	return x3.Mod(x3, g.Prime)
}

func clearInt(i *big.Int) {
	if i == nil {
		return
	}

	words := i.Bits()
	for j := range words {
		words[j] = 0
	}

	i.SetInt64(0)
}
