// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package group

import (
	"crypto/subtle"
	"errors"
	"math/big"

	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/encoding"
)

const uncompressed = 0x04

// ErrIdentity happens when requesting the coordinates of the point at infinity.
var ErrIdentity = errors.New("the point at infinity has no affine coordinates")

// point is implemented by the nistec point types.
type point[T any] interface {
	Bytes() []byte
	SetBytes([]byte) (T, error)
	Add(T, T) T
	ScalarMult(T, []byte) (T, error)
}

// backend performs point arithmetic over SEC 1 encoded points.
type backend interface {
	check(p []byte) error
	add(p, q []byte) ([]byte, error)
	mult(p, scalar []byte) ([]byte, error)
}

type nist[P point[P]] struct {
	newPoint func() P
}

func (n nist[P]) check(p []byte) error {
	_, err := n.newPoint().SetBytes(p)
	return err
}

func (n nist[P]) add(p, q []byte) ([]byte, error) {
	a, err := n.newPoint().SetBytes(p)
	if err != nil {
		return nil, err
	}

	b, err := n.newPoint().SetBytes(q)
	if err != nil {
		return nil, err
	}

	return n.newPoint().Add(a, b).Bytes(), nil
}

func (n nist[P]) mult(p, scalar []byte) ([]byte, error) {
	a, err := n.newPoint().SetBytes(p)
	if err != nil {
		return nil, err
	}

	r, err := n.newPoint().ScalarMult(a, scalar)
	if err != nil {
		return nil, err
	}

	return r.Bytes(), nil
}

// Element is a point of a Group, held in its SEC 1 encoding: uncompressed, or a single zero byte for the identity.
type Element struct {
	group   *Group
	encoded []byte
}

// IsIdentity returns whether the element is the point at infinity.
func (e *Element) IsIdentity() bool {
	return len(e.encoded) == 1 && e.encoded[0] == 0
}

// Equal returns whether both elements are the same point, in constant time.
func (e *Element) Equal(o *Element) bool {
	return subtle.ConstantTimeCompare(e.encoded, o.encoded) == 1
}

// Copy returns a copy of the element.
func (e *Element) Copy() *Element {
	return &Element{group: e.group, encoded: encoding.LeftPad(e.encoded, len(e.encoded))}
}

// Coordinates returns the affine coordinates, each left-padded to the prime length.
func (e *Element) Coordinates() (x, y []byte, err error) {
	if e.IsIdentity() {
		return nil, nil, ErrIdentity
	}

	l := e.group.PrimeLen
	x = encoding.LeftPad(e.encoded[1:1+l], l)
	y = encoding.LeftPad(e.encoded[1+l:], l)

	return x, y, nil
}

// X returns the affine x-coordinate, left-padded to the prime length.
func (e *Element) X() ([]byte, error) {
	x, y, err := e.Coordinates()
	internal.Wipe(y)

	return x, err
}

// Add returns e + o.
func (e *Element) Add(o *Element) (*Element, error) {
	enc, err := e.group.points.add(e.encoded, o.encoded)
	if err != nil {
		return nil, errors.Join(internal.ErrInvalidElement, err)
	}

	return &Element{group: e.group, encoded: enc}, nil
}

// Multiply returns s·e.
func (e *Element) Multiply(s *ecc.Scalar) (*Element, error) {
	scalar := e.group.EncodeScalar(s)
	defer internal.Wipe(scalar)

	return e.multiply(scalar)
}

// MultiplyCofactor returns h·e, with h the group's cofactor.
func (e *Element) MultiplyCofactor() (*Element, error) {
	return e.multiply(encoding.LeftPad(e.group.Cofactor.Bytes(), e.group.OrderLen))
}

func (e *Element) multiply(scalar []byte) (*Element, error) {
	enc, err := e.group.points.mult(e.encoded, scalar)
	if err != nil {
		return nil, errors.Join(internal.ErrInvalidElement, err)
	}

	return &Element{group: e.group, encoded: enc}, nil
}

// Negate returns the additive inverse of e, (x, p - y).
func (e *Element) Negate() (*Element, error) {
	if e.IsIdentity() {
		return e.group.Identity(), nil
	}

	x, y, _ := e.Coordinates()
	defer internal.Wipe(x)
	defer internal.Wipe(y)

	v := new(big.Int).SetBytes(y)
	v.Sub(e.group.Prime, v)
	v.Mod(v, e.group.Prime)

	defer clearInt(v)

	return e.group.NewElement(x, encoding.LeftPad(v.Bytes(), e.group.PrimeLen))
}

// Zero wipes the element and sets it to the identity.
func (e *Element) Zero() {
	if e == nil {
		return
	}

	internal.ClearSlice(&e.encoded)
	e.encoded = []byte{0}
}
