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
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/bytemare/eappwd/internal"
	"github.com/bytemare/eappwd/message"
)

var discard = slog.New(slog.DiscardHandler)

func transfer(t *testing.T, mtu int, msg []byte) []byte {
	t.Helper()

	sender := newFragmenter(mtu, discard)
	receiver := newFragmenter(mtu, discard)
	frame := sender.send(message.ExchangeCommit, bytes.Clone(msg))

	for rounds := 0; ; rounds++ {
		if rounds > len(msg)+1 {
			t.Fatal("transfer does not terminate")
		}

		if len(frame) > mtu {
			t.Fatalf("frame of %d bytes exceeds the mtu %d", len(frame), mtu)
		}

		r, err := receiver.receive(frame)
		if err != nil {
			t.Fatal(err)
		}

		if r.exchange != message.ExchangeCommit {
			t.Fatalf("unexpected exchange %s", r.exchange)
		}

		if r.reply == nil {
			if sender.pending() || receiver.reassembling() {
				t.Fatal("buffers should be released")
			}

			return r.msg
		}

		if !bytes.Equal(r.reply, []byte{byte(message.ExchangeCommit)}) {
			t.Fatalf("unexpected ack %x", r.reply)
		}

		ack, err := sender.receive(r.reply)
		if err != nil {
			t.Fatal(err)
		}

		frame = ack.reply
	}
}

func TestFragmenter_Reassembly(t *testing.T) {
	for _, mtu := range []int{4, 5, 16, 1020} {
		for _, n := range []int{0, 1, mtu - 1, mtu, mtu + 1, 3 * mtu} {
			t.Run(fmt.Sprintf("%d/%d", mtu, n), func(t *testing.T) {
				msg := internal.RandomBytes(n)

				if got := transfer(t, mtu, msg); !bytes.Equal(got, msg) {
					t.Fatal("reassembled message differs")
				}
			})
		}
	}
}

func TestFragmenter_FirstFragment(t *testing.T) {
	f := newFragmenter(10, discard)
	msg := internal.RandomBytes(20)
	original := bytes.Clone(msg)

	frame := f.send(message.ExchangeConfirm, msg)

	expected := append([]byte{0xc3, 0x00, 20}, msg[:7]...)
	if !bytes.Equal(frame, expected) {
		t.Fatalf("unexpected first fragment %x", frame)
	}

	if !f.pending() {
		t.Fatal("remainder should be pending")
	}

	// A non-empty acknowledgement is still an acknowledgement.
	r, err := f.receive([]byte{0x03, 0xff})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(r.reply, append([]byte{0x43}, msg[7:16]...)) {
		t.Fatalf("unexpected second fragment %x", r.reply)
	}

	r, err = f.receive([]byte{0x03})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(r.reply, append([]byte{0x03}, msg[16:]...)) {
		t.Fatalf("unexpected last fragment %x", r.reply)
	}

	if f.pending() {
		t.Fatal("nothing should be pending")
	}

	// The fragmenter wipes its own copy, not the caller's message.
	if !bytes.Equal(msg, original) {
		t.Fatal("the sent message was modified")
	}
}

func TestFragmenter_SingleFrame(t *testing.T) {
	f := newFragmenter(10, discard)
	msg := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}

	if frame := f.send(message.ExchangeID, msg); !bytes.Equal(frame, append([]byte{0x01}, msg...)) {
		t.Fatalf("unexpected frame %x", frame)
	}

	if f.pending() {
		t.Fatal("nothing should be pending")
	}
}

func TestFragmenter_Rejections(t *testing.T) {
	tests := []struct {
		err    error
		code   error
		frames [][]byte
		name   string
		// reassembling is whether a reassembly is still in progress after the last frame.
		reassembling bool
	}{
		{
			name:   "empty",
			frames: [][]byte{{}},
			code:   ErrMessage,
			err:    internal.ErrEmptyFrame,
		},
		{
			name:   "short total length",
			frames: [][]byte{{0xc2, 0x01}},
			code:   ErrFragment,
			err:    internal.ErrShortTotalLength,
		},
		{
			name:   "total length above ceiling",
			frames: [][]byte{{0xc2, 0x3a, 0x99, 1, 2, 3}},
			code:   ErrFragment,
			err:    internal.ErrTotalLengthTooLarge,
		},
		{
			name:   "overflow",
			frames: [][]byte{{0xc2, 0x00, 0x04, 1, 2, 3}, {0x42, 4, 5}},
			code:   ErrFragment,
			err:    internal.ErrReassemblyOverflow,
		},
		{
			name:   "overflow on the first fragment",
			frames: [][]byte{{0xc2, 0x00, 0x01, 1, 2}},
			code:   ErrFragment,
			err:    internal.ErrReassemblyOverflow,
		},
		{
			name:         "second first fragment",
			frames:       [][]byte{{0xc2, 0x00, 0x08, 1, 2, 3}, {0xc2, 0x00, 0x08, 1, 2, 3}},
			code:         ErrFragment,
			err:          internal.ErrReassemblyInProgress,
			reassembling: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFragmenter(DefaultMTU, discard)

			var err error
			for _, frame := range test.frames {
				_, err = f.receive(frame)
			}

			if !errors.Is(err, test.code) || !errors.Is(err, test.err) {
				t.Fatalf("expected %v, got %v", test.err, err)
			}

			if f.reassembling() != test.reassembling {
				t.Fatalf("unexpected reassembly state %v", f.reassembling())
			}
		})
	}
}

func TestFragmenter_ResumeAfterRejection(t *testing.T) {
	f := newFragmenter(DefaultMTU, discard)

	if _, err := f.receive([]byte{0xc2, 0x00, 0x04, 1, 2}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.receive([]byte{0xc2, 0x00, 0x04, 9, 9}); !errors.Is(err, internal.ErrReassemblyInProgress) {
		t.Fatalf("expected %v, got %v", internal.ErrReassemblyInProgress, err)
	}

	r, err := f.receive([]byte{0x02, 3, 4})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(r.msg, []byte{1, 2, 3, 4}) || !r.owned {
		t.Fatalf("unexpected message %x", r.msg)
	}

	msg := r.msg
	r.release()

	if !bytes.Equal(msg, make([]byte, 4)) {
		t.Fatal("reassembled message not wiped on release")
	}
}
