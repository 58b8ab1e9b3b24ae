// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package internal

import "errors"

var errKeyDerivationInput = errors.New("invalid key derivation input")

// Keys holds the key material exported by a successful exchange.
type Keys struct {
	MSK       []byte
	EMSK      []byte
	SessionID []byte
}

// Clear wipes the key material.
func (k *Keys) Clear() {
	if k == nil {
		return
	}

	ClearSlice(&k.MSK)
	ClearSlice(&k.EMSK)
	ClearSlice(&k.SessionID)
}

// DeriveKeys implements RFC 5931 section 2.8.7. Scalars must be padded to the order length, and k to the prime
// length. The argument order is from the peer's point of view, the server must call it with the same order.
//
//	Session-Id = Type | H(ciphersuite | peer scalar | server scalar)
//	MK         = H(k | peer confirm | server confirm)
//	MSK | EMSK = KDF(MK, Session-Id, 1024)
func DeriveKeys(k, peerScalar, serverScalar, peerConfirm, serverConfirm, ciphersuite []byte) (*Keys, error) {
	if len(k) == 0 || len(peerScalar) == 0 || len(peerScalar) != len(serverScalar) ||
		len(peerConfirm) != HashLength || len(serverConfirm) != HashLength || len(ciphersuite) != 4 {
		return nil, errKeyDerivationInput
	}

	h := NewHash(len(ciphersuite) + 2*len(peerScalar))
	h.Write(ciphersuite, peerScalar, serverScalar)

	sessionID := make([]byte, 1, SessionIDLength)
	sessionID[0] = EAPTypePWD
	sessionID = append(sessionID, h.Sum()...)

	h = NewHash(len(k) + 2*HashLength)
	h.Write(k, peerConfirm, serverConfirm)
	mk := h.Sum()
	defer Wipe(mk)

	keys := KDF(mk, sessionID, (MSKLength+EMSKLength)*8)

	return &Keys{
		MSK:       keys[:MSKLength:MSKLength],
		EMSK:      keys[MSKLength:],
		SessionID: sessionID,
	}, nil
}
