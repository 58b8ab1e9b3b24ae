// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package eappwd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrMessage indicates a malformed message. It is ignored and the session does not change.
	ErrMessage = ErrCodeMessage.New("")

	// ErrFragment indicates a fragment that was rejected by reassembly. It is ignored.
	ErrFragment = ErrCodeFragment.New("")

	// ErrState indicates a message that is not accepted in the current state.
	ErrState = ErrCodeState.New("")

	// ErrAuthentication indicates that the exchange failed validation. The session is in Failure.
	ErrAuthentication = ErrCodeAuthentication.New("")

	// ErrKeyDerivation indicates that the password element or the session keys could not be derived. The session is
	// in Failure.
	ErrKeyDerivation = ErrCodeKeyDerivation.New("")

	// ErrID indicates an error with an Id message.
	ErrID = ErrCodeMessage.New("invalid Id message")

	// ErrCommit indicates an error with a Commit message.
	ErrCommit = ErrCodeMessage.New("invalid Commit message")

	// ErrConfirm indicates an error with a Confirm message.
	ErrConfirm = ErrCodeMessage.New("invalid Confirm message")
)

// ErrorCode represents the type of error in an EAP-pwd exchange. It is used to categorize errors and tells whether
// the frame was ignored or the session failed.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeMessage represents a malformed message.
	ErrCodeMessage

	// ErrCodeFragment represents a rejected fragment.
	ErrCodeFragment

	// ErrCodeState represents a message received in the wrong state.
	ErrCodeState

	// ErrCodeAuthentication represents a protocol validation failure.
	ErrCodeAuthentication

	// ErrCodeKeyDerivation represents a failure of the password element or key derivation.
	ErrCodeKeyDerivation
)

// New creates a new Error with the given message and errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = c.message()
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

func (c ErrorCode) message() string {
	return strings.ReplaceAll(c.String(), "_", " ")
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "unknown_error"
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeMessage:
		return "message_error"
	case ErrCodeFragment:
		return "fragment_error"
	case ErrCodeState:
		return "state_error"
	case ErrCodeAuthentication:
		return "authentication_error"
	case ErrCodeKeyDerivation:
		return "key_derivation_error"
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type. It returns a string representation of the error code.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	var pwdErr *Error
	if errors.As(target, &pwdErr) {
		return byte(c) == byte(pwdErr.Code)
	}

	return false
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case ErrorCode:
		return true
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error represents an error in an EAP-pwd exchange.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we return only the concise form of the
// current error, without the cause. The cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided error to the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// LogValue implements the slog.LogValuer interface for the Error type.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// Format implements the fmt.Formatter interface for the Error type. It allows formatting the error in different ways.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // human-readable
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error()) //nolint:errcheck // safe to ignore // quoted string
	default:
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // safe default
	}
}

// Is implements the errors.Is method for the Error type. It allows checking if the error is of a specific ErrorCode.
// A category sentinel like ErrMessage, created with an empty message, matches every error of its code.
func (e *Error) Is(target error) bool {
	if !e.Code.Is(target) {
		return false
	}

	var t *Error
	if errors.As(target, &t) && t.Err == nil && t.Message == t.Code.message() {
		return true
	}

	return strings.EqualFold(e.Message, target.Error())
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err) //nolint:errcheck // safe to ignore

	// Check for errors that can unwrap multiple errors
	var multiUnwrapper interface{ Unwrap() []error }
	if errors.As(err, &multiUnwrapper) {
		for _, child := range multiUnwrapper.Unwrap() {
			printV(f, child, depth+1)
		}

		return
	}

	// Check for errors that can unwrap a single error
	var singleUnwrapper interface{ Unwrap() error }
	if errors.As(err, &singleUnwrapper) {
		printV(f, singleUnwrapper.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	// header with code
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String()) //nolint:errcheck // safe to ignore
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message) //nolint:errcheck // safe to ignore
	}

	// unwrap error chain
	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}
