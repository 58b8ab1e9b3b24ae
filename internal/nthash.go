// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package internal

import (
	"unicode/utf8"

	"golang.org/x/crypto/md4" //nolint:staticcheck // MS-CHAPv2 password hashing is MD4 by definition.
	"golang.org/x/text/encoding/unicode"
)

const maxPasswordCharacters = 256

// NTPasswordHash returns MD4 over the UTF-16LE encoding of the password, as in RFC 2759 section 8.3.
func NTPasswordHash(password []byte) ([]byte, error) {
	if !utf8.Valid(password) || utf8.RuneCount(password) > maxPasswordCharacters {
		return nil, ErrPasswordEncoding
	}

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes(password)
	if err != nil {
		return nil, ErrPasswordEncoding
	}
	defer Wipe(encoded)

	h := md4.New()
	_, _ = h.Write(encoded)

	return h.Sum(nil), nil
}

// HashNTPasswordHash returns MD4 over an NT password hash, as in RFC 2759 section 8.4.
func HashNTPasswordHash(passwordHash []byte) []byte {
	h := md4.New()
	_, _ = h.Write(passwordHash)

	return h.Sum(nil)
}

// MSPasswordMaterial returns the password material of the MS-CHAPv2 preprocessing: the hash of the NT password
// hash. hashed indicates that password already is the NT password hash.
func MSPasswordMaterial(password []byte, hashed bool) ([]byte, error) {
	if hashed {
		if len(password) != NTHashLength {
			return nil, ErrHashedPasswordLength
		}

		return HashNTPasswordHash(password), nil
	}

	ntHash, err := NTPasswordHash(password)
	if err != nil {
		return nil, err
	}
	defer Wipe(ntHash)

	return HashNTPasswordHash(ntHash), nil
}
