// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytemare/eappwd"
	"github.com/bytemare/eappwd/message"
)

const maxRounds = 20000

var errNoTermination = errors.New("exchange did not terminate")

type exchangeFlags struct {
	identity       string
	serverIdentity string
	password       string
	passwordHash   string
	prep           string
	group          uint16
	mtu            int
	serverMTU      int
}

func exchangeCmd() *cobra.Command {
	f := &exchangeFlags{}

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Run an exchange between a peer and the reference server, in memory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExchange(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.identity, "identity", "alice", "peer identity")
	flags.StringVar(&f.serverIdentity, "server-identity", "server1", "server identity")
	flags.StringVarP(&f.password, "password", "p", "", "shared password")
	flags.StringVar(&f.passwordHash, "password-hash", "", "hex NT password hash the peer uses instead of the password")
	flags.StringVar(&f.prep, "prep", "none", "password preprocessing proposed by the server: none or ms")
	flags.Uint16VarP(&f.group, "group", "g", 19, "group proposed by the server: 19, 20 or 21")
	flags.IntVar(&f.mtu, "mtu", eappwd.DefaultMTU, "peer fragment size")
	flags.IntVar(&f.serverMTU, "server-mtu", eappwd.DefaultMTU, "server fragment size")

	return cmd
}

func (f *exchangeFlags) configurations(cmd *cobra.Command) (*eappwd.Configuration, *eappwd.ServerConfiguration, error) {
	var prep message.Prep

	switch strings.ToLower(f.prep) {
	case "none":
		prep = message.PrepNone
	case "ms":
		prep = message.PrepMS
	default:
		return nil, nil, fmt.Errorf("unknown preprocessing %q", f.prep)
	}

	peer := &eappwd.Configuration{
		Logger:   newLogger(cmd, "peer"),
		Identity: []byte(f.identity),
		Password: []byte(f.password),
		MTU:      f.mtu,
	}

	if f.passwordHash != "" {
		h, err := hex.DecodeString(f.passwordHash)
		if err != nil {
			return nil, nil, fmt.Errorf("decoding password hash: %w", err)
		}

		peer.Password = h
		peer.PasswordIsHashed = true
	}

	server := &eappwd.ServerConfiguration{
		Logger:   newLogger(cmd, "server"),
		Identity: []byte(f.serverIdentity),
		Password: []byte(f.password),
		Group:    f.group,
		Prep:     prep,
		MTU:      f.serverMTU,
	}

	return peer, server, nil
}

func runExchange(cmd *cobra.Command, f *exchangeFlags) error {
	peerConf, serverConf, err := f.configurations(cmd)
	if err != nil {
		return err
	}

	peer, err := eappwd.NewPeer(peerConf)
	if err != nil {
		return err
	}
	defer peer.Destroy()

	server, err := eappwd.NewServer(serverConf)
	if err != nil {
		return err
	}
	defer server.Destroy()

	frame, err := server.Start()
	if err != nil {
		return err
	}

	rounds := 0
	for ; frame != nil; rounds++ {
		if rounds == maxRounds {
			return errNoTermination
		}

		response, err := peer.Process(frame)
		if err != nil {
			return fmt.Errorf("peer: %w", err)
		}

		if frame, err = server.Process(response); err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "rounds:     %d\n", rounds)
	_, _ = fmt.Fprintf(out, "peer:       %s\n", peer.State())
	_, _ = fmt.Fprintf(out, "server:     %s\n", server.State())

	if !peer.IsKeyAvailable() {
		return eappwd.ErrAuthentication
	}

	_, _ = fmt.Fprintf(out, "MSK:        %s\n", hex.EncodeToString(peer.MSK()))
	_, _ = fmt.Fprintf(out, "EMSK:       %s\n", hex.EncodeToString(peer.EMSK()))
	_, _ = fmt.Fprintf(out, "Session-Id: %s\n", hex.EncodeToString(peer.SessionID()))

	return nil
}
