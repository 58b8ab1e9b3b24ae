// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

var (
	// ErrEmptyFrame happens when a frame does not even carry a header octet.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrShortTotalLength happens when the Length-present bit is set but the frame can't hold the total length.
	ErrShortTotalLength = errors.New("frame too short to contain the total length field")

	// ErrTotalLengthTooLarge happens when the announced total length exceeds the reassembly ceiling.
	ErrTotalLengthTooLarge = errors.New("announced total length exceeds the reassembly ceiling")

	// ErrReassemblyInProgress happens when a new first fragment arrives while a previous message is being reassembled.
	ErrReassemblyInProgress = errors.New("unexpected first fragment while reassembling")

	// ErrReassemblyOverflow happens when fragments overflow the announced total length.
	ErrReassemblyOverflow = errors.New("fragments overflow the announced total length")

	// ErrUnknownExchange happens when the exchange type of a frame is not Id, Commit or Confirm.
	ErrUnknownExchange = errors.New("unknown exchange type")

	// ErrUnexpectedMessage happens when a message arrives in a state that does not accept it.
	ErrUnexpectedMessage = errors.New("message not expected in current state")

	// ErrSessionDone happens when a frame arrives after the outcome of the exchange is decided.
	ErrSessionDone = errors.New("exchange already completed")

	// ErrInvalidIDLength happens when an Id payload is too short.
	ErrInvalidIDLength = errors.New("invalid Id payload length")

	// ErrInvalidCommitLength happens when a Commit payload does not match the group's element and scalar sizes.
	ErrInvalidCommitLength = errors.New("invalid Commit payload length")

	// ErrInvalidConfirmLength happens when a Confirm payload does not match the digest size.
	ErrInvalidConfirmLength = errors.New("invalid Confirm payload length")

	// ErrCiphersuite happens when the random function or PRF proposed by the server is not supported.
	ErrCiphersuite = errors.New("unsupported random function or PRF")

	// ErrPreprocessing happens when the server proposes an unsupported password preprocessing.
	ErrPreprocessing = errors.New("unsupported password preprocessing")

	// ErrUnhashedPasswordUnavailable happens when cleartext processing is requested but only a hash is configured.
	ErrUnhashedPasswordUnavailable = errors.New("unhashed password not available")

	// ErrFIPSPreprocessing happens when MS password preprocessing is requested in FIPS mode.
	ErrFIPSPreprocessing = errors.New("MS password preprocessing not supported in FIPS mode")

	// ErrPasswordElement happens when the password element can't be derived.
	ErrPasswordElement = errors.New("unable to compute the password element")

	// ErrSmallSubgroup happens when a received element lies in a small subgroup.
	ErrSmallSubgroup = errors.New("element is in a small subgroup")

	// ErrSharedSecretIdentity happens when the shared point is the point at infinity.
	ErrSharedSecretIdentity = errors.New("shared key point is at infinity")

	// ErrInvalidElement happens when a received element does not decode to a point on the curve.
	ErrInvalidElement = errors.New("invalid element")

	// ErrInvalidScalar happens when a received scalar is not in (1, order).
	ErrInvalidScalar = errors.New("invalid scalar")

	// ErrReflection happens when the server replays the peer's own commit values.
	ErrReflection = errors.New("reflected commit values")

	// ErrConfirmMismatch happens when a received confirmation does not verify.
	ErrConfirmMismatch = errors.New("confirm did not verify")

	// ErrTokenMismatch happens when the peer does not echo the server token.
	ErrTokenMismatch = errors.New("token mismatch")

	// ErrGroupMismatch happens when the peer does not echo the proposed group.
	ErrGroupMismatch = errors.New("group mismatch")

	// ErrNoIdentity happens when no identity is configured.
	ErrNoIdentity = errors.New("no identity configured")

	// ErrNoPassword happens when no password is configured.
	ErrNoPassword = errors.New("no password configured")

	// ErrHashedPasswordLength happens when a hashed password is not an NT password hash.
	ErrHashedPasswordLength = errors.New("hashed password must be a 16 byte NT password hash")

	// ErrInvalidMTU happens when the MTU can't carry a first fragment.
	ErrInvalidMTU = errors.New("fragment size too small")

	// ErrPasswordEncoding happens when a password to hash is not valid UTF-8 or is too long.
	ErrPasswordEncoding = errors.New("password is not valid UTF-8 of at most 256 characters")

	// ErrIdentityLength happens when an identity does not fit in an Id message.
	ErrIdentityLength = errors.New("identity too long")

	// ErrInvalidGroup happens when a server is configured with an unsupported group.
	ErrInvalidGroup = errors.New("unsupported group")

	// ErrTokenLength happens when a configured server token is not 4 bytes long.
	ErrTokenLength = errors.New("invalid token length")

	// ErrScalarGeneration happens when no commit scalar greater than 1 could be drawn.
	ErrScalarGeneration = errors.New("unable to generate a commit scalar")

	// ErrNotStarted happens when the server processes a frame before Start.
	ErrNotStarted = errors.New("exchange not started")
)
