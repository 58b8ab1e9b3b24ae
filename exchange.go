// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"crypto/hmac"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/group"
	"github.com/bytemare/eappwd/message"
)

func (p *Peer) handle(r *received) ([]byte, error) {
	switch r.exchange {
	case message.ExchangeID:
		if p.status.done() || p.status.step != stepID {
			p.log.Debug("Id message ignored", "state", p.State())
			return nil, ErrState.Join(internal.ErrUnexpectedMessage)
		}

		return p.id(r.msg)
	case message.ExchangeCommit:
		if p.status.done() || p.status.step != stepCommit {
			return nil, p.fail(ErrAuthentication.Join(ErrState, internal.ErrUnexpectedMessage))
		}

		return p.commit(r.msg)
	case message.ExchangeConfirm:
		if p.status.done() || p.status.step != stepConfirm {
			return nil, p.fail(ErrAuthentication.Join(ErrState, internal.ErrUnexpectedMessage))
		}

		return p.confirm(r.msg)
	default:
		p.log.Warn("unknown exchange ignored", "exchange", byte(r.exchange))
		return nil, ErrMessage.Join(internal.ErrUnknownExchange)
	}
}

// id negotiates the ciphersuite and derives the password element.
func (p *Peer) id(payload []byte) ([]byte, error) {
	m, err := message.DeserializeID(payload)
	if err != nil {
		p.log.Warn("malformed Id message ignored", "length", len(payload))
		return nil, ErrID.Join(err)
	}

	if m.RandomFunction != message.RandomFunction || m.PRF != message.PRF {
		return nil, p.fail(ErrAuthentication.Join(internal.ErrCiphersuite))
	}

	material, err := passwordMaterial(m.Prep, p.password, p.hashed, p.fips)
	if err != nil {
		return nil, p.fail(ErrAuthentication.Join(err))
	}
	defer internal.Wipe(material)

	g, err := group.New(m.Group)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(internal.ErrPasswordElement, err))
	}

	pwe, err := g.DerivePWE(material, m.Identity, p.identity, m.Token)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	p.group = g
	p.pwe = pwe
	p.serverID = m.Identity
	p.ciphersuite = m.Ciphersuite()

	p.log.Debug("Id exchange", "group", m.Group, "prep", m.Prep)

	response := &message.ID{
		Group:          m.Group,
		RandomFunction: m.RandomFunction,
		PRF:            m.PRF,
		Token:          m.Token,
		Prep:           message.PrepNone,
		Identity:       p.identity,
	}

	p.transition(stepCommit)

	return response.Serialize(), nil
}

// commit validates the server's commitment, computes the shared secret, and returns the peer's commitment.
func (p *Peer) commit(payload []byte) ([]byte, error) {
	c, err := message.DeserializeCommit(payload, p.group.PrimeLen, p.group.OrderLen)
	if err != nil {
		p.log.Warn("malformed Commit message ignored", "length", len(payload))
		return nil, ErrCommit.Join(err)
	}

	serverElement, serverScalar, err := decodeCommit(p.group, c)
	if err != nil {
		return nil, p.fail(ErrAuthentication.Join(err))
	}

	p.serverElement = serverElement
	p.serverScalar = serverScalar

	p.commitment, err = newCommitment(p.group, p.pwe)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	if p.commitment.equals(p.group, serverElement, serverScalar) {
		return nil, p.fail(ErrAuthentication.Join(internal.ErrReflection))
	}

	p.k, err = sharedSecret(p.group, p.pwe, p.commitment.private, serverScalar, serverElement)
	if err != nil {
		return nil, p.fail(ErrAuthentication.Join(err))
	}

	response, err := p.commitment.serialize(p.group)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	p.transition(stepConfirm)

	return response.Serialize(), nil
}

// confirm verifies the server's confirmation, derives the keys, and returns the peer's confirmation.
func (p *Peer) confirm(payload []byte) ([]byte, error) {
	c, err := message.DeserializeConfirm(payload)
	if err != nil {
		p.log.Warn("malformed Confirm message ignored", "length", len(payload))
		return nil, ErrConfirm.Join(err)
	}

	peerScalar := p.group.EncodeScalar(p.commitment.scalar)
	serverScalar := p.group.EncodeScalar(p.serverScalar)

	expected, err := confirmation(p.k, p.serverElement, serverScalar, p.commitment.element, peerScalar, p.ciphersuite)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	if !hmac.Equal(expected, c.Digest) {
		return nil, p.fail(ErrAuthentication.Join(internal.ErrConfirmMismatch))
	}

	own, err := confirmation(p.k, p.commitment.element, peerScalar, p.serverElement, serverScalar, p.ciphersuite)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	keys, err := internal.DeriveKeys(p.k, peerScalar, serverScalar, own, c.Digest, p.ciphersuite)
	if err != nil {
		return nil, p.fail(ErrKeyDerivation.Join(err))
	}

	p.succeed(keys)

	return own, nil
}
