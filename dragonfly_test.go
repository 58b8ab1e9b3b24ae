// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"bytes"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/bytemare/eappwd/internal/group"
)

// hmacZero is HMAC-SHA-256 keyed with 32 zero octets.
func hmacZero(in ...[]byte) []byte {
	mac := hmac.New(sha256.New, make([]byte, sha256.Size))
	for _, b := range in {
		mac.Write(b)
	}

	return mac.Sum(nil)
}

// kdf1024 expands key and label to 1024 bits, the length of MSK | EMSK.
func kdf1024(key, label []byte) []byte {
	var out, block []byte

	for i := 1; len(out) < 128; i++ {
		mac := hmac.New(sha256.New, key)
		mac.Write(block)
		mac.Write([]byte{byte(i >> 8), byte(i)})
		mac.Write(label)
		mac.Write([]byte{0x04, 0x00})
		block = mac.Sum(nil)
		out = append(out, block...)
	}

	return out
}

func coordinates(t *testing.T, e *group.Element) (x, y *big.Int) {
	t.Helper()

	xb, yb, err := e.Coordinates()
	if err != nil {
		t.Fatal(err)
	}

	return new(big.Int).SetBytes(xb), new(big.Int).SetBytes(yb)
}

func pad32(i *big.Int) []byte {
	return i.FillBytes(make([]byte, 32))
}

// TestExchange_KnownAnswer recomputes the P-256 shared secret, both confirms and the keys from the peer's ephemeral
// values with crypto/elliptic and crypto/hmac.
func TestExchange_KnownAnswer(t *testing.T) {
	curve := elliptic.P256()
	peer, server, frame := newPair(t, group.P256)
	confirmRequest := advance(t, peer, server, frame, AwaitingConfirm)

	px, py := coordinates(t, peer.pwe)
	sx, sy := coordinates(t, peer.serverElement)
	ex, ey := coordinates(t, peer.commitment.element)
	serverScalar := peer.group.EncodeScalar(peer.serverScalar)
	peerScalar := peer.group.EncodeScalar(peer.commitment.scalar)
	private := peer.group.EncodeScalar(peer.commitment.private)
	cs := []byte{0x00, 0x13, 0x01, 0x01}

	if !bytes.Equal(peer.ciphersuite, cs) {
		t.Fatalf("unexpected ciphersuite %x", peer.ciphersuite)
	}

	// scalar·PWE + element = private·PWE, since element = -(mask·PWE).
	ax, ay := curve.ScalarMult(px, py, peerScalar)
	ax, ay = curve.Add(ax, ay, ex, ey)

	bx, by := curve.ScalarMult(px, py, private)
	if ax.Cmp(bx) != 0 || ay.Cmp(by) != 0 {
		t.Fatal("the peer commitment does not open to its private value")
	}

	// K = private·(s_S·PWE + E_S)
	kx, ky := curve.ScalarMult(px, py, serverScalar)
	kx, ky = curve.Add(kx, ky, sx, sy)
	kx, _ = curve.ScalarMult(kx, ky, private)

	k := pad32(kx)
	if !bytes.Equal(peer.k, k) {
		t.Fatalf("unexpected shared secret %x", peer.k)
	}

	serverConfirm := hmacZero(k, pad32(sx), pad32(sy), serverScalar, pad32(ex), pad32(ey), peerScalar, cs)
	if !bytes.Equal(confirmRequest, append([]byte{0x03}, serverConfirm...)) {
		t.Fatalf("unexpected Confirm request %x", confirmRequest)
	}

	response, err := peer.Process(confirmRequest)
	if err != nil {
		t.Fatal(err)
	}

	peerConfirm := hmacZero(k, pad32(ex), pad32(ey), peerScalar, pad32(sx), pad32(sy), serverScalar, cs)
	if !bytes.Equal(response, append([]byte{0x03}, peerConfirm...)) {
		t.Fatalf("unexpected Confirm response %x", response)
	}

	sessionID := append([]byte{52}, hmacZero(cs, peerScalar, serverScalar)...)
	keys := kdf1024(hmacZero(k, peerConfirm, serverConfirm), sessionID)

	if !peer.IsKeyAvailable() {
		t.Fatalf("expected Success, got %s", peer.State())
	}

	if !bytes.Equal(peer.SessionID(), sessionID) {
		t.Fatalf("unexpected Session-Id %x", peer.SessionID())
	}

	if !bytes.Equal(peer.MSK(), keys[:64]) || !bytes.Equal(peer.EMSK(), keys[64:]) {
		t.Fatal("unexpected MSK or EMSK")
	}
}
