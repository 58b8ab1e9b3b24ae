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
	"crypto/hmac"
	"log/slog"

	ecc "github.com/bytemare/crypto"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/group"
	"github.com/bytemare/eappwd/message"
)

// Server is a reference EAP-pwd server running one exchange with a Peer. It is meant for tests and tooling, not as a
// production authenticator. A Server must not be used concurrently.
type Server struct {
	log  *slog.Logger
	frag *fragmenter

	identity []byte
	password []byte
	peerID   []byte
	request  *message.ID

	group       *group.Group
	pwe         *group.Element
	ciphersuite []byte

	commitment  *commitment
	peerElement *group.Element
	peerScalar  *ecc.Scalar
	k           []byte
	confirm     []byte

	keys *internal.Keys

	status  status
	groupID uint16
	prep    message.Prep
	hashed  bool
	fips    bool
}

// NewServer returns a Server given its configuration. The configuration is copied.
func NewServer(conf *ServerConfiguration) (*Server, error) {
	if err := conf.verify(); err != nil {
		return nil, err
	}

	log := logger(conf.Logger)

	return &Server{
		log:      log,
		frag:     newFragmenter(mtu(conf.MTU), log),
		identity: clone(conf.Identity),
		password: clone(conf.Password),
		groupID:  conf.group(),
		prep:     conf.Prep,
		hashed:   conf.PasswordIsHashed,
		fips:     conf.FIPS,
	}, nil
}

// Start returns the first frame of the Id request.
func (s *Server) Start(options ...*ServerOptions) ([]byte, error) {
	if s.request != nil || s.status.done() {
		return nil, ErrState.Join(internal.ErrUnexpectedMessage)
	}

	token, err := getToken(options...)
	if err != nil {
		return nil, err
	}

	g, err := group.New(s.groupID)
	if err != nil {
		return nil, ErrConfiguration.Join(internal.ErrInvalidGroup, err)
	}

	s.group = g
	s.request = &message.ID{
		Group:          s.groupID,
		RandomFunction: message.RandomFunction,
		PRF:            message.PRF,
		Token:          token,
		Prep:           s.prep,
		Identity:       s.identity,
	}
	s.ciphersuite = s.request.Ciphersuite()

	return s.frag.send(message.ExchangeID, s.request.Serialize()), nil
}

// Process handles a frame received from the peer and returns the frame to send back. After the peer's Confirm
// response the exchange is over and nothing is returned.
func (s *Server) Process(frame []byte) ([]byte, error) {
	if s.request == nil {
		return nil, ErrState.Join(internal.ErrNotStarted)
	}

	if s.status.done() && !s.frag.pending() {
		return nil, ErrState.Join(internal.ErrSessionDone)
	}

	r, err := s.frag.receive(frame)
	if err != nil {
		return nil, err
	}

	if r.reply != nil {
		return r.reply, nil
	}

	defer r.release()

	var (
		next     message.Exchange
		response []byte
	)

	switch {
	case r.exchange == message.ExchangeID && s.status.step == stepID:
		next, response, err = message.ExchangeCommit, nil, s.idResponse(r.msg)
		if err == nil {
			response, err = s.commitRequest()
		}
	case r.exchange == message.ExchangeCommit && s.status.step == stepCommit:
		next = message.ExchangeConfirm
		response, err = s.commitResponse(r.msg)
	case r.exchange == message.ExchangeConfirm && s.status.step == stepConfirm:
		return nil, s.confirmResponse(r.msg)
	default:
		s.log.Debug("message ignored", "exchange", r.exchange, "state", s.State())
		return nil, ErrState.Join(internal.ErrUnexpectedMessage)
	}

	if err != nil {
		return nil, err
	}

	return s.frag.send(next, response), nil
}

func (s *Server) idResponse(payload []byte) error {
	m, err := message.DeserializeID(payload)
	if err != nil {
		return ErrID.Join(err)
	}

	switch {
	case m.Group != s.request.Group:
		return s.fail(ErrAuthentication.Join(internal.ErrGroupMismatch))
	case m.RandomFunction != s.request.RandomFunction || m.PRF != s.request.PRF:
		return s.fail(ErrAuthentication.Join(internal.ErrCiphersuite))
	case !bytes.Equal(m.Token, s.request.Token):
		return s.fail(ErrAuthentication.Join(internal.ErrTokenMismatch))
	}

	material, err := passwordMaterial(s.prep, s.password, s.hashed, s.fips)
	if err != nil {
		return s.fail(ErrAuthentication.Join(err))
	}
	defer internal.Wipe(material)

	pwe, err := s.group.DerivePWE(material, s.identity, m.Identity, s.request.Token)
	if err != nil {
		return s.fail(ErrKeyDerivation.Join(err))
	}

	s.peerID = m.Identity
	s.pwe = pwe

	return nil
}

func (s *Server) commitRequest() ([]byte, error) {
	var err error

	s.commitment, err = newCommitment(s.group, s.pwe)
	if err != nil {
		return nil, s.fail(ErrKeyDerivation.Join(err))
	}

	c, err := s.commitment.serialize(s.group)
	if err != nil {
		return nil, s.fail(ErrKeyDerivation.Join(err))
	}

	s.transition(stepCommit)

	return c.Serialize(), nil
}

func (s *Server) commitResponse(payload []byte) ([]byte, error) {
	c, err := message.DeserializeCommit(payload, s.group.PrimeLen, s.group.OrderLen)
	if err != nil {
		return nil, ErrCommit.Join(err)
	}

	peerElement, peerScalar, err := decodeCommit(s.group, c)
	if err != nil {
		return nil, s.fail(ErrAuthentication.Join(err))
	}

	s.peerElement = peerElement
	s.peerScalar = peerScalar

	if s.commitment.equals(s.group, peerElement, peerScalar) {
		return nil, s.fail(ErrAuthentication.Join(internal.ErrReflection))
	}

	s.k, err = sharedSecret(s.group, s.pwe, s.commitment.private, peerScalar, peerElement)
	if err != nil {
		return nil, s.fail(ErrAuthentication.Join(err))
	}

	ownScalar := s.group.EncodeScalar(s.commitment.scalar)
	otherScalar := s.group.EncodeScalar(s.peerScalar)

	s.confirm, err = confirmation(s.k, s.commitment.element, ownScalar, s.peerElement, otherScalar, s.ciphersuite)
	if err != nil {
		return nil, s.fail(ErrKeyDerivation.Join(err))
	}

	s.transition(stepConfirm)

	return clone(s.confirm), nil
}

func (s *Server) confirmResponse(payload []byte) error {
	c, err := message.DeserializeConfirm(payload)
	if err != nil {
		return ErrConfirm.Join(err)
	}

	ownScalar := s.group.EncodeScalar(s.commitment.scalar)
	peerScalar := s.group.EncodeScalar(s.peerScalar)

	expected, err := confirmation(s.k, s.peerElement, peerScalar, s.commitment.element, ownScalar, s.ciphersuite)
	if err != nil {
		return s.fail(ErrKeyDerivation.Join(err))
	}

	if !hmac.Equal(expected, c.Digest) {
		return s.fail(ErrAuthentication.Join(internal.ErrConfirmMismatch))
	}

	keys, err := internal.DeriveKeys(s.k, peerScalar, ownScalar, c.Digest, s.confirm, s.ciphersuite)
	if err != nil {
		return s.fail(ErrKeyDerivation.Join(err))
	}

	s.keys = keys
	s.status.outcome = succeeded
	s.log.Debug("exchange succeeded", "group", s.group.Number)

	return nil
}

// State returns the state of the exchange, from the server's point of view.
func (s *Server) State() State {
	return s.status.state(s.frag.pending())
}

// PeerIdentity returns the identity the peer sent in its Id response.
func (s *Server) PeerIdentity() []byte {
	return clone(s.peerID)
}

// IsKeyAvailable returns whether the exchange succeeded and the keys can be read.
func (s *Server) IsKeyAvailable() bool {
	return s.keys != nil && s.State() == Success
}

// MSK returns a copy of the Master Session Key, or nil if the exchange did not succeed.
func (s *Server) MSK() []byte {
	if !s.IsKeyAvailable() {
		return nil
	}

	return clone(s.keys.MSK)
}

// EMSK returns a copy of the Extended Master Session Key, or nil if the exchange did not succeed.
func (s *Server) EMSK() []byte {
	if !s.IsKeyAvailable() {
		return nil
	}

	return clone(s.keys.EMSK)
}

// SessionID returns a copy of the Session-Id, or nil if the exchange did not succeed.
func (s *Server) SessionID() []byte {
	if !s.IsKeyAvailable() {
		return nil
	}

	return clone(s.keys.SessionID)
}

// Destroy wipes all secrets held by the server.
func (s *Server) Destroy() {
	s.clearExchange()
	s.keys.Clear()
	s.keys = nil

	// An exchange is only complete once its last message is fully sent.
	if s.status.outcome == pending || s.frag.pending() {
		s.status.outcome = failed
	}

	s.frag.clear()
	internal.ClearSlice(&s.password)
}

func (s *Server) clearExchange() {
	s.commitment.clear()
	s.commitment = nil
	internal.ClearScalar(&s.peerScalar)
	internal.ClearSlice(&s.k)
	internal.ClearSlice(&s.confirm)
	s.peerElement.Zero()
	s.pwe.Zero()
}

func (s *Server) transition(st step) {
	s.log.Debug("state transition", "from", s.State(), "to", status{step: st}.state(false))
	s.status.step = st
}

func (s *Server) fail(err error) error {
	s.log.Warn("exchange failed", "from", s.State(), "error", err)
	s.status.outcome = failed
	s.clearExchange()
	s.frag.clear()

	return err
}
