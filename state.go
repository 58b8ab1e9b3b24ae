// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package eappwd

// State is the externally visible state of an exchange.
type State byte

const (
	// AwaitingID is the initial state, expecting the server's Id request.
	AwaitingID State = iota

	// AwaitingCommit expects the Commit exchange.
	AwaitingCommit

	// AwaitingConfirm expects the Confirm exchange.
	AwaitingConfirm

	// SuccessPendingFragCompletion indicates a successful exchange whose last message is still being fragmented.
	SuccessPendingFragCompletion

	// Success indicates that the exchange succeeded and the keys are available.
	Success

	// Failure indicates that the exchange failed. It is terminal.
	Failure
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case AwaitingID:
		return "AwaitingID"
	case AwaitingCommit:
		return "AwaitingCommit"
	case AwaitingConfirm:
		return "AwaitingConfirm"
	case SuccessPendingFragCompletion:
		return "SuccessPendingFragCompletion"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// step is the protocol progress, independently of the outcome.
type step byte

const (
	stepID step = iota
	stepCommit
	stepConfirm
)

type outcome byte

const (
	pending outcome = iota
	succeeded
	failed
)

// status holds the protocol progress and its outcome. Together with the fragment delivery they determine the State.
type status struct {
	step    step
	outcome outcome
}

func (s status) state(fragmentsPending bool) State {
	switch s.outcome {
	case failed:
		return Failure
	case succeeded:
		if fragmentsPending {
			return SuccessPendingFragCompletion
		}

		return Success
	default:
	}

	switch s.step {
	case stepCommit:
		return AwaitingCommit
	case stepConfirm:
		return AwaitingConfirm
	default:
		return AwaitingID
	}
}

// done returns whether the outcome is decided.
func (s status) done() bool {
	return s.outcome != pending
}
