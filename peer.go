// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"log/slog"

	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/group"
)

// Peer represents an EAP-pwd peer, exposing its functions and holding the state of one exchange with a server.
// A Peer must not be used concurrently.
type Peer struct {
	log  *slog.Logger
	frag *fragmenter

	identity []byte
	password []byte
	serverID []byte

	// Bound by the Id exchange.
	group       *group.Group
	pwe         *group.Element
	ciphersuite []byte

	// Bound by the Commit exchange.
	commitment    *commitment
	serverElement *group.Element
	serverScalar  *ecc.Scalar
	k             []byte

	// Bound by the Confirm exchange.
	keys *internal.Keys

	status status
	hashed bool
	fips   bool
}

// NewPeer returns a Peer ready for the server's Id request. The configuration is copied.
func NewPeer(conf *Configuration) (*Peer, error) {
	if err := conf.verify(); err != nil {
		return nil, err
	}

	log := logger(conf.Logger)

	return &Peer{
		log:      log,
		frag:     newFragmenter(mtu(conf.MTU), log),
		identity: clone(conf.Identity),
		password: clone(conf.Password),
		hashed:   conf.PasswordIsHashed,
		fips:     fipsMode(conf.FIPS),
	}, nil
}

// Process handles a frame received from the server and returns the frame to send back. A nil frame means there is
// nothing to send: the error then tells why the input was ignored or why the exchange failed, which State reflects.
func (p *Peer) Process(frame []byte) ([]byte, error) {
	if p.status.done() && !p.frag.pending() {
		p.log.Debug("frame ignored", "state", p.State())
		return nil, ErrState.Join(internal.ErrSessionDone)
	}

	r, err := p.frag.receive(frame)
	if err != nil {
		return nil, err
	}

	if r.reply != nil {
		return r.reply, nil
	}

	defer r.release()

	out, err := p.handle(r)
	if err != nil {
		return nil, err
	}

	return p.frag.send(r.exchange, out), nil
}

// State returns the state of the exchange.
func (p *Peer) State() State {
	return p.status.state(p.frag.pending())
}

// IsKeyAvailable returns whether the exchange succeeded and the keys can be read.
func (p *Peer) IsKeyAvailable() bool {
	return p.keys != nil && p.State() == Success
}

// ServerIdentity returns the server identity learned in the Id exchange.
func (p *Peer) ServerIdentity() []byte {
	return clone(p.serverID)
}

// MSK returns a copy of the Master Session Key, or nil if the exchange did not succeed.
func (p *Peer) MSK() []byte {
	if !p.IsKeyAvailable() {
		return nil
	}

	return clone(p.keys.MSK)
}

// EMSK returns a copy of the Extended Master Session Key, or nil if the exchange did not succeed.
func (p *Peer) EMSK() []byte {
	if !p.IsKeyAvailable() {
		return nil
	}

	return clone(p.keys.EMSK)
}

// SessionID returns a copy of the Session-Id, or nil if the exchange did not succeed.
func (p *Peer) SessionID() []byte {
	if !p.IsKeyAvailable() {
		return nil
	}

	return clone(p.keys.SessionID)
}

// Destroy wipes all secrets held by the peer. It is valid in every state, and the peer can't be used afterwards.
func (p *Peer) Destroy() {
	p.clearExchange()
	p.keys.Clear()
	p.keys = nil

	// An exchange is only complete once its last message is fully sent.
	if p.status.outcome == pending || p.frag.pending() {
		p.status.outcome = failed
	}

	p.frag.clear()
	internal.ClearSlice(&p.password)
}

// clearExchange wipes the ephemeral values of the exchange.
func (p *Peer) clearExchange() {
	p.commitment.clear()
	p.commitment = nil
	internal.ClearScalar(&p.serverScalar)
	internal.ClearSlice(&p.k)
	p.serverElement.Zero()
	p.pwe.Zero()
}

func (p *Peer) transition(s step) {
	p.log.Debug("state transition", "from", p.State(), "to", status{step: s}.state(false))
	p.status.step = s
}

// fail ends the exchange.
func (p *Peer) fail(err error) error {
	p.log.Warn("exchange failed", "from", p.State(), "error", err)
	p.status.outcome = failed
	p.clearExchange()
	p.frag.clear()

	return err
}

func (p *Peer) succeed(keys *internal.Keys) {
	p.keys = keys
	p.status.outcome = succeeded
	p.log.Debug("exchange succeeded", "group", p.group.Number)
}
