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

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/message"
)

// received is the result of handing a frame to the fragmenter. Either reply is set and goes back to the other
// party as is, or msg holds a complete logical message for the exchange.
type received struct {
	reply    []byte
	msg      []byte
	exchange message.Exchange

	// owned is set when msg is a reassembly buffer, which is wiped once consumed.
	owned bool
}

// release wipes the message if it was reassembled.
func (r *received) release() {
	if r.owned {
		internal.ClearSlice(&r.msg)
	}
}

// fragmenter reassembles inbound fragments and fragments outbound messages. Both directions have their own buffer.
type fragmenter struct {
	log *slog.Logger

	// in is the reassembly buffer, its capacity is the announced total length. nil unless reassembling.
	in []byte

	// out is the outbound message being sent, sent is the number of octets already sent. nil unless draining.
	out  []byte
	sent int

	mtu int
}

func newFragmenter(mtu int, log *slog.Logger) *fragmenter {
	return &fragmenter{log: log, mtu: mtu}
}

// pending returns whether an outbound message is being drained.
func (f *fragmenter) pending() bool {
	return f.out != nil
}

// reassembling returns whether an inbound message is being reassembled.
func (f *fragmenter) reassembling() bool {
	return f.in != nil
}

func (f *fragmenter) receive(frame []byte) (*received, error) {
	if len(frame) < message.HeaderLength {
		return nil, ErrMessage.Join(internal.ErrEmptyFrame)
	}

	header := message.ParseHeader(frame[0])

	// While draining, any frame is an acknowledgement.
	if f.pending() {
		if len(frame) > message.HeaderLength {
			f.log.Warn("non-empty acknowledgement", "exchange", header.Exchange, "length", len(frame))
		}

		return &received{reply: f.next(header.Exchange), exchange: header.Exchange}, nil
	}

	fr, err := message.ParseFrame(frame)
	if err != nil {
		f.log.Warn("rejected fragment", "error", err)
		return nil, ErrFragment.Join(err)
	}

	if fr.Length {
		if f.reassembling() {
			f.log.Warn("rejected fragment", "error", internal.ErrReassemblyInProgress)
			return nil, ErrFragment.Join(internal.ErrReassemblyInProgress)
		}

		f.in = make([]byte, 0, fr.TotalLength)
		f.log.Debug("reassembly started", "exchange", fr.Exchange, "total", fr.TotalLength)
	}

	if fr.More || f.reassembling() {
		if len(f.in)+len(fr.Data) > cap(f.in) {
			f.abort()
			f.log.Warn("rejected fragment", "error", internal.ErrReassemblyOverflow)

			return nil, ErrFragment.Join(internal.ErrReassemblyOverflow)
		}

		f.in = append(f.in, fr.Data...)
	}

	if fr.More {
		f.log.Debug("fragment received", "exchange", fr.Exchange, "length", len(fr.Data), "buffered", len(f.in))
		return &received{reply: message.Ack(fr.Exchange), exchange: fr.Exchange}, nil
	}

	if f.reassembling() {
		msg := f.in
		f.in = nil
		f.log.Debug("reassembly complete", "exchange", fr.Exchange, "length", len(msg))

		return &received{msg: msg, exchange: fr.Exchange, owned: true}, nil
	}

	return &received{msg: fr.Data, exchange: fr.Exchange}, nil
}

// send returns the first frame of msg. If msg does not fit, the fragmenter keeps a copy of it and sends the rest on
// each acknowledgement. msg is left untouched.
func (f *fragmenter) send(exchange message.Exchange, msg []byte) []byte {
	if message.HeaderLength+len(msg) <= f.mtu {
		fr := &message.Frame{Header: message.Header{Exchange: exchange}, Data: msg}
		return fr.Serialize()
	}

	f.out = clone(msg)
	f.sent = f.mtu - message.HeaderLength - message.TotalLengthSize

	fr := &message.Frame{
		Header:      message.Header{Exchange: exchange, Length: true, More: true},
		TotalLength: uint16(len(msg)), //nolint:gosec // messages are below the total length ceiling.
		Data:        f.out[:f.sent],
	}

	f.log.Debug("fragmenting", "exchange", exchange, "total", len(msg), "mtu", f.mtu)

	return fr.Serialize()
}

// next returns the next fragment of the outbound message, and releases it once fully sent.
func (f *fragmenter) next(exchange message.Exchange) []byte {
	end := min(len(f.out), f.sent+f.mtu-message.HeaderLength)

	fr := &message.Frame{
		Header: message.Header{Exchange: exchange, More: end < len(f.out)},
		Data:   f.out[f.sent:end],
	}
	frame := fr.Serialize()

	f.sent = end
	if end == len(f.out) {
		f.log.Debug("fragmented message sent", "exchange", exchange, "total", len(f.out))
		internal.ClearSlice(&f.out)
		f.sent = 0
	}

	return frame
}

func (f *fragmenter) abort() {
	internal.ClearSlice(&f.in)
}

// clear wipes and releases both buffers.
func (f *fragmenter) clear() {
	internal.ClearSlice(&f.in)
	internal.ClearSlice(&f.out)
	f.sent = 0
}
