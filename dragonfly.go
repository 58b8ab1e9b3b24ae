// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"errors"

	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/encoding"
	"github.com/bytemare/eappwd/internal/group"
	"github.com/bytemare/eappwd/message"
)

const maxCommitAttempts = 16

// commitment holds one side's ephemeral values of the Commit exchange.
type commitment struct {
	private *ecc.Scalar
	scalar  *ecc.Scalar
	element *group.Element
}

// newCommitment draws private and mask, and returns scalar = private + mask and element = -(mask·PWE).
func newCommitment(g *group.Group, pwe *group.Element) (*commitment, error) {
	for range maxCommitAttempts {
		private := g.RandomScalar()
		mask := g.RandomScalar()
		scalar := private.Copy().Add(mask)

		if g.IsSmallScalar(scalar) {
			internal.ClearScalar(&private)
			internal.ClearScalar(&mask)
			internal.ClearScalar(&scalar)

			continue
		}

		masked, err := pwe.Multiply(mask)
		internal.ClearScalar(&mask)

		if err != nil {
			internal.ClearScalar(&private)
			internal.ClearScalar(&scalar)

			return nil, err
		}

		element, err := masked.Negate()
		masked.Zero()

		if err != nil {
			internal.ClearScalar(&private)
			internal.ClearScalar(&scalar)

			return nil, err
		}

		return &commitment{private: private, scalar: scalar, element: element}, nil
	}

	return nil, internal.ErrScalarGeneration
}

// serialize returns the Commit payload of the commitment.
func (c *commitment) serialize(g *group.Group) (*message.Commit, error) {
	x, y, err := c.element.Coordinates()
	if err != nil {
		return nil, err
	}

	return &message.Commit{X: x, Y: y, Scalar: g.EncodeScalar(c.scalar)}, nil
}

// equals returns whether the element and scalar are the ones of the commitment.
func (c *commitment) equals(g *group.Group, element *group.Element, scalar *ecc.Scalar) bool {
	own := g.EncodeScalar(c.scalar)
	other := g.EncodeScalar(scalar)

	defer internal.Wipe(own)
	defer internal.Wipe(other)

	return c.element.Equal(element) && encoding.ConstantTimeEqual(own, other)
}

func (c *commitment) clear() {
	if c == nil {
		return
	}

	internal.ClearScalar(&c.private)
	internal.ClearScalar(&c.scalar)
	c.element.Zero()
}

// decodeCommit validates the other party's element and scalar. An element in a small subgroup is rejected.
func decodeCommit(g *group.Group, c *message.Commit) (*group.Element, *ecc.Scalar, error) {
	element, err := g.NewElement(c.X, c.Y)
	if err != nil {
		return nil, nil, err
	}

	if g.HasCofactor() {
		e, err := element.MultiplyCofactor()
		if err != nil {
			return nil, nil, err
		}

		if e.IsIdentity() {
			return nil, nil, internal.ErrSmallSubgroup
		}
	}

	scalar, err := g.DecodeScalar(c.Scalar)
	if err != nil {
		return nil, nil, err
	}

	return element, scalar, nil
}

// sharedSecret returns k, the x-coordinate of K = private·(scalar·PWE + element), left-padded to the prime length.
func sharedSecret(
	g *group.Group,
	pwe *group.Element,
	private, scalar *ecc.Scalar,
	element *group.Element,
) ([]byte, error) {
	t, err := pwe.Multiply(scalar)
	if err != nil {
		return nil, err
	}

	sum, err := t.Add(element)
	t.Zero()

	if err != nil {
		return nil, err
	}

	k, err := sum.Multiply(private)
	sum.Zero()

	if err != nil {
		return nil, err
	}

	defer k.Zero()

	if g.HasCofactor() {
		kc, err := k.MultiplyCofactor()
		if err != nil {
			return nil, err
		}

		defer kc.Zero()

		k = kc
	}

	if k.IsIdentity() {
		return nil, internal.ErrSharedSecretIdentity
	}

	x, err := k.X()
	if err != nil {
		return nil, errors.Join(internal.ErrSharedSecretIdentity, err)
	}

	return x, nil
}

// confirmation returns H(k | element1 | scalar1 | element2 | scalar2 | ciphersuite). The sender of a Confirm puts its
// own values first.
func confirmation(
	k []byte,
	element1 *group.Element, scalar1 []byte,
	element2 *group.Element, scalar2 []byte,
	ciphersuite []byte,
) ([]byte, error) {
	x1, y1, err := element1.Coordinates()
	if err != nil {
		return nil, err
	}

	x2, y2, err := element2.Coordinates()
	if err != nil {
		return nil, err
	}

	h := internal.NewHash(len(k) + 2*(len(x1)+len(y1)+len(scalar1)) + len(ciphersuite))
	h.Write(k, x1, y1, scalar1, x2, y2, scalar2, ciphersuite)

	return h.Sum(), nil
}
