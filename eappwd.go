// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

import (
	"crypto/fips140"
	"log/slog"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/internal/group"
	"github.com/bytemare/eappwd/message"
)

const (
	// DefaultMTU is the fragment size used when none is configured.
	DefaultMTU = 1020

	// minMTU leaves room for one octet of content in a first fragment.
	minMTU = message.HeaderLength + message.TotalLengthSize + 1

	// maxIdentityLength keeps an Id message under the reassembly ceiling.
	maxIdentityLength = message.MaxTotalLength - message.CiphersuiteLength - internal.TokenLength - 1
)

// Configuration holds the peer's credentials and settings.
type Configuration struct {
	// Logger receives the peer's diagnostics. Secrets are never logged. If nil, nothing is logged.
	Logger *slog.Logger

	// Identity is the peer's identity, sent in the Id response.
	Identity []byte

	// Password is the shared password, or its 16 byte NT password hash if PasswordIsHashed is set.
	Password []byte

	// MTU is the maximum fragment size. 0 uses DefaultMTU.
	MTU int

	// PasswordIsHashed indicates that Password is an NT password hash, usable only with MS preprocessing.
	PasswordIsHashed bool

	// FIPS disables the MS preprocessing. It is always disabled when the FIPS 140-3 mode is enabled.
	FIPS bool
}

func (c *Configuration) verify() error {
	if c == nil {
		return ErrConfiguration.Join(internal.ErrNoIdentity)
	}

	if len(c.Identity) == 0 {
		return ErrConfiguration.Join(internal.ErrNoIdentity)
	}

	if len(c.Identity) > maxIdentityLength {
		return ErrConfiguration.Join(internal.ErrIdentityLength)
	}

	return verifyCredentials(c.Password, c.PasswordIsHashed, c.MTU)
}

func verifyCredentials(password []byte, hashed bool, mtu int) error {
	if len(password) == 0 {
		return ErrConfiguration.Join(internal.ErrNoPassword)
	}

	if hashed && len(password) != internal.NTHashLength {
		return ErrConfiguration.Join(internal.ErrHashedPasswordLength)
	}

	if mtu != 0 && mtu < minMTU {
		return ErrConfiguration.Join(internal.ErrInvalidMTU)
	}

	return nil
}

// ServerConfiguration holds the reference server's credentials and the parameters it proposes.
type ServerConfiguration struct {
	// Logger receives the server's diagnostics. If nil, nothing is logged.
	Logger *slog.Logger

	// Identity is the server's identity, sent in the Id request.
	Identity []byte

	// Password is the shared password, or its NT password hash if PasswordIsHashed is set.
	Password []byte

	// Group is the proposed group. 0 uses group 19.
	Group uint16

	// MTU is the maximum fragment size. 0 uses DefaultMTU.
	MTU int

	// Prep is the proposed password preprocessing.
	Prep message.Prep

	// PasswordIsHashed indicates that Password is an NT password hash, which requires MS preprocessing.
	PasswordIsHashed bool

	// FIPS disables the MS preprocessing.
	FIPS bool
}

func (c *ServerConfiguration) verify() error {
	if c == nil {
		return ErrConfiguration.Join(internal.ErrNoIdentity)
	}

	if len(c.Identity) > maxIdentityLength {
		return ErrConfiguration.Join(internal.ErrIdentityLength)
	}

	if err := verifyCredentials(c.Password, c.PasswordIsHashed, c.MTU); err != nil {
		return err
	}

	if c.Group != 0 && !group.Available(c.Group) {
		return ErrConfiguration.Join(internal.ErrInvalidGroup)
	}

	switch c.Prep {
	case message.PrepNone:
		if c.PasswordIsHashed {
			return ErrConfiguration.Join(internal.ErrUnhashedPasswordUnavailable)
		}
	case message.PrepMS:
		if fipsMode(c.FIPS) {
			return ErrConfiguration.Join(internal.ErrFIPSPreprocessing)
		}
	default:
		return ErrConfiguration.Join(internal.ErrPreprocessing)
	}

	return nil
}

func (c *ServerConfiguration) group() uint16 {
	if c.Group == 0 {
		return group.P256
	}

	return c.Group
}

func fipsMode(configured bool) bool {
	return configured || fips140.Enabled()
}

func mtu(configured int) int {
	if configured == 0 {
		return DefaultMTU
	}

	return configured
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}

	return l
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

// passwordMaterial returns the password input of the password element derivation for the preprocessing.
func passwordMaterial(prep message.Prep, password []byte, hashed, fips bool) ([]byte, error) {
	switch prep {
	case message.PrepNone:
		if hashed {
			return nil, internal.ErrUnhashedPasswordUnavailable
		}

		return clone(password), nil
	case message.PrepMS:
		if fipsMode(fips) {
			return nil, internal.ErrFIPSPreprocessing
		}

		return internal.MSPasswordMaterial(password, hashed)
	default:
		return nil, internal.ErrPreprocessing
	}
}
