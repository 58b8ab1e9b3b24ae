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
	"errors"
	"math/big"
	"testing"

	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/group"
	"github.com/bytemare/eappwd/message"
)

func newPair(t *testing.T, g uint16) (*Peer, *Server, []byte) {
	t.Helper()

	peer, err := NewPeer(&Configuration{Identity: []byte("alice"), Password: []byte("secret123")})
	if err != nil {
		t.Fatal(err)
	}

	server, err := NewServer(&ServerConfiguration{Identity: []byte("server1"), Password: []byte("secret123"), Group: g})
	if err != nil {
		t.Fatal(err)
	}

	frame, err := server.Start()
	if err != nil {
		t.Fatal(err)
	}

	return peer, server, frame
}

// advance relays frames until the peer reaches the state, and returns the next server frame.
func advance(t *testing.T, peer *Peer, server *Server, frame []byte, state State) []byte {
	t.Helper()

	for rounds := 0; peer.State() != state || peer.frag.pending(); rounds++ {
		if frame == nil || rounds > 100 {
			t.Fatalf("state %s not reached, in %s", state, peer.State())
		}

		response, err := peer.Process(frame)
		if err != nil {
			t.Fatal(err)
		}

		if frame, err = server.Process(response); err != nil {
			t.Fatal(err)
		}
	}

	return frame
}

// secrets holds references to the secret-bearing memory of a peer.
type secrets struct {
	bytes    map[string][]byte
	scalars  map[string]*ecc.Scalar
	elements map[string]*group.Element
}

func snapshot(p *Peer) *secrets {
	s := &secrets{
		bytes:    map[string][]byte{"password": p.password, "k": p.k},
		scalars:  map[string]*ecc.Scalar{"server scalar": p.serverScalar},
		elements: map[string]*group.Element{"pwe": p.pwe, "server element": p.serverElement},
	}

	if p.commitment != nil {
		s.scalars["private"] = p.commitment.private
		s.scalars["scalar"] = p.commitment.scalar
		s.elements["element"] = p.commitment.element
	}

	if p.keys != nil {
		s.bytes["msk"] = p.keys.MSK
		s.bytes["emsk"] = p.keys.EMSK
		s.bytes["session id"] = p.keys.SessionID
	}

	return s
}

func (s *secrets) verify(t *testing.T) {
	t.Helper()

	for name, b := range s.bytes {
		if !bytes.Equal(b, make([]byte, len(b))) {
			t.Fatalf("%s not wiped", name)
		}
	}

	for name, sc := range s.scalars {
		if sc != nil && !sc.IsZero() {
			t.Fatalf("%s not wiped", name)
		}
	}

	for name, e := range s.elements {
		if e != nil && !e.IsIdentity() {
			t.Fatalf("%s not wiped", name)
		}
	}
}

func TestPeer_Destroy(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"before Id", AwaitingID},
		{"after Id", AwaitingCommit},
		{"after Commit", AwaitingConfirm},
		{"success", Success},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			peer, server, frame := newPair(t, group.P256)
			advance(t, peer, server, frame, test.state)

			s := snapshot(peer)
			if len(s.bytes["password"]) == 0 {
				t.Fatal("expected a password")
			}

			if test.state == Success && len(s.bytes["msk"]) == 0 {
				t.Fatal("expected keys")
			}

			peer.Destroy()
			s.verify(t)

			if peer.IsKeyAvailable() || peer.MSK() != nil || peer.EMSK() != nil || peer.SessionID() != nil {
				t.Fatal("no key should be available after Destroy")
			}

			if _, err := peer.Process(frame); !errors.Is(err, ErrState) {
				t.Fatalf("expected %v, got %v", ErrState, err)
			}
		})
	}
}

func TestPeer_DestroyAfterFailure(t *testing.T) {
	peer, server, frame := newPair(t, group.P256)
	frame = advance(t, peer, server, frame, AwaitingConfirm)
	s := snapshot(peer)

	frame[len(frame)-1] ^= 0xff
	if _, err := peer.Process(frame); !errors.Is(err, internal.ErrConfirmMismatch) {
		t.Fatalf("expected %v, got %v", internal.ErrConfirmMismatch, err)
	}

	// The exchange secrets are wiped on failure already.
	for _, name := range []string{"private", "scalar", "server scalar"} {
		if !s.scalars[name].IsZero() {
			t.Fatalf("%s not wiped on failure", name)
		}
	}

	if !bytes.Equal(s.bytes["k"], make([]byte, len(s.bytes["k"]))) {
		t.Fatal("k not wiped on failure")
	}

	peer.Destroy()
	s.verify(t)
}

func TestPeer_DestroyPendingFragments(t *testing.T) {
	peer, err := NewPeer(&Configuration{Identity: []byte("alice"), Password: []byte("secret123"), MTU: 8})
	if err != nil {
		t.Fatal(err)
	}

	server, err := NewServer(&ServerConfiguration{Identity: []byte("server1"), Password: []byte("secret123")})
	if err != nil {
		t.Fatal(err)
	}

	frame, err := server.Start()
	if err != nil {
		t.Fatal(err)
	}

	frame = advance(t, peer, server, frame, AwaitingConfirm)
	if _, err = peer.Process(frame); err != nil {
		t.Fatal(err)
	}

	if peer.State() != SuccessPendingFragCompletion {
		t.Fatalf("expected SuccessPendingFragCompletion, got %s", peer.State())
	}

	out := peer.frag.out
	s := snapshot(peer)

	peer.Destroy()
	s.verify(t)

	if peer.frag.pending() || !bytes.Equal(out, make([]byte, len(out))) {
		t.Fatal("outbound buffer not wiped")
	}
	if peer.State() != Failure {
		t.Fatalf("expected Failure, got %s", peer.State())
	}
}

func TestPeer_SmallSubgroup(t *testing.T) {
	for _, g := range []uint16{group.P256, group.P384, group.P521} {
		peer, server, frame := newPair(t, g)
		frame = advance(t, peer, server, frame, AwaitingCommit)

		// With the cofactor set to the order, any element of the server is confined to the small subgroup.
		peer.group.Cofactor = new(big.Int).Set(peer.group.Order)

		if _, err := peer.Process(frame); !errors.Is(err, ErrAuthentication) || !errors.Is(err, internal.ErrSmallSubgroup) {
			t.Fatalf("expected %v, got %v", internal.ErrSmallSubgroup, err)
		}

		if peer.State() != Failure {
			t.Fatalf("expected Failure, got %s", peer.State())
		}

		if peer.k != nil || peer.commitment != nil {
			t.Fatal("no shared secret should be computed")
		}
	}
}

func TestServer_Reflection(t *testing.T) {
	peer, server, frame := newPair(t, group.P256)
	frame = advance(t, peer, server, frame, AwaitingCommit)

	// Send the server's own commitment back.
	if _, err := server.Process(frame); !errors.Is(err, ErrAuthentication) || !errors.Is(err, internal.ErrReflection) {
		t.Fatalf("expected %v, got %v", internal.ErrReflection, err)
	}

	if server.State() != Failure {
		t.Fatalf("expected Failure, got %s", server.State())
	}
}

func TestCommitment_Equals(t *testing.T) {
	peer, server, frame := newPair(t, group.P384)
	frame = advance(t, peer, server, frame, AwaitingCommit)

	c, err := message.DeserializeCommit(frame[message.HeaderLength:], peer.group.PrimeLen, peer.group.OrderLen)
	if err != nil {
		t.Fatal(err)
	}

	element, scalar, err := decodeCommit(peer.group, c)
	if err != nil {
		t.Fatal(err)
	}

	if !server.commitment.equals(peer.group, element, scalar) {
		t.Fatal("a commitment should equal its own values")
	}

	own, err := newCommitment(peer.group, peer.pwe)
	if err != nil {
		t.Fatal(err)
	}

	if own.equals(peer.group, element, scalar) {
		t.Fatal("fresh commitment equals the server's")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status   status
		pending  bool
		expected State
	}{
		{status{step: stepID}, false, AwaitingID},
		{status{step: stepCommit}, true, AwaitingCommit},
		{status{step: stepConfirm}, false, AwaitingConfirm},
		{status{step: stepConfirm, outcome: succeeded}, true, SuccessPendingFragCompletion},
		{status{step: stepConfirm, outcome: succeeded}, false, Success},
		{status{step: stepCommit, outcome: failed}, true, Failure},
	}

	for _, test := range tests {
		if got := test.status.state(test.pending); got != test.expected {
			t.Fatalf("expected %s, got %s", test.expected, got)
		}
	}

	if State(42).String() != "Unknown" {
		t.Fatal("unexpected name for an unknown state")
	}
}
