// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package group

import (
	"math/big"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/encoding"
)

// maxHuntingAttempts bounds the counter of the hunting and pecking loop.
const maxHuntingAttempts = 30

// DerivePWE implements the hunting and pecking derivation of the password element of RFC 5931 section 2.8.3.
//
//	pwd-seed  = H(token | peer-ID | server-ID | password | counter)
//	pwd-value = KDF(pwd-seed, "EAP-pwd Hunting And Pecking", len(p))
//
// pwd-value is the x-coordinate candidate, and the least significant bit of pwd-seed selects y.
func (g *Group) DerivePWE(password, serverID, peerID, token []byte) (*Element, error) {
	primeBits := g.Prime.BitLen()
	label := []byte(internal.LabelHuntingAndPecking)
	x := new(big.Int)

	defer clearInt(x)

	for counter := 1; counter <= maxHuntingAttempts; counter++ {
		h := internal.NewHash(len(token) + len(peerID) + len(serverID) + len(password) + 1)
		h.Write(token, peerID, serverID, password, []byte{byte(counter)})
		seed := h.Sum()

		value := internal.KDF(seed, label, primeBits)
		x.SetBytes(value)
		internal.Wipe(value)

		if r := primeBits % 8; r != 0 {
			x.Rsh(x, uint(8-r))
		}

		odd := uint(seed[len(seed)-1] & 1)
		internal.Wipe(seed)

		if x.Cmp(g.Prime) >= 0 {
			continue
		}

		pwe := g.pointFromX(x, odd)
		if pwe == nil {
			continue
		}

		if g.HasCofactor() {
			p, err := pwe.MultiplyCofactor()
			pwe.Zero()

			if err != nil || p.IsIdentity() {
				continue
			}

			pwe = p
		}

		return pwe, nil
	}

	return nil, internal.ErrPasswordElement
}

// pointFromX returns the point of x-coordinate x whose y-coordinate has the given parity, or nil if x is not the
// x-coordinate of a point on the curve.
func (g *Group) pointFromX(x *big.Int, odd uint) *Element {
	y := new(big.Int).ModSqrt(g.rhs(x), g.Prime)
	if y == nil {
		return nil
	}

	defer clearInt(y)

	if y.Bit(0) != odd {
		y.Sub(g.Prime, y)
	}

	xb := encoding.LeftPad(x.Bytes(), g.PrimeLen)
	yb := encoding.LeftPad(y.Bytes(), g.PrimeLen)

	defer internal.Wipe(xb)
	defer internal.Wipe(yb)

	e, err := g.NewElement(xb, yb)
	if err != nil {
		return nil
	}

	return e
}
