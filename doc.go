// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
// Package eappwd implements the peer side of EAP-pwd (RFC 5931), a password-authenticated EAP method based on the
// Dragonfly key exchange, together with a reference server for the same exchange.
//
// A Peer consumes the EAP-pwd part of EAP-Request packets (the header octet and what follows) and produces the
// EAP-pwd part of the matching EAP-Response. The outer EAP framing is left to the caller.
//
//	peer, err := eappwd.NewPeer(&eappwd.Configuration{Identity: id, Password: password})
//	...
//	response, err := peer.Process(request)
//	...
//	if peer.IsKeyAvailable() {
//		msk := peer.MSK()
//	}
//	peer.Destroy()
//
// Errors tell whether the frame was ignored (ErrMessage, ErrFragment, ErrState) or the exchange failed
// (ErrAuthentication, ErrKeyDerivation), in which case the peer is in the Failure state. A Commit or Confirm message
// received out of order ends the exchange, and matches both ErrState and ErrAuthentication. State is authoritative.
package eappwd
