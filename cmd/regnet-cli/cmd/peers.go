// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/candelachain/regharness/peering"
	"github.com/candelachain/regharness/ports"
	"github.com/candelachain/regharness/rpc"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "manage links between nodes",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

func peerArgs(args []string) (*rpc.JSONRPCClient, int, error) {
	if len(args) != 2 {
		return nil, 0, ErrInvalidArgs
	}
	opts, err := clientOptions()
	if err != nil {
		return nil, 0, err
	}
	cli, err := rpc.NewJSONRPCClient(args[0], opts...)
	if err != nil {
		return nil, 0, err
	}
	toIndex, err := strconv.Atoi(args[1])
	if err != nil || toIndex < 0 || toIndex >= ports.MaxNodes {
		return nil, 0, ErrInvalidArgs
	}
	return cli, toIndex, nil
}

var peersConnectCmd = &cobra.Command{
	Use:   "connect [fromURI] [toIndex]",
	Short: "link a node to another and wait for the handshake",
	RunE: func(_ *cobra.Command, args []string) error {
		cli, toIndex, err := peerArgs(args)
		if err != nil {
			return err
		}
		mgr := peering.NewManager(allocator(), logger())
		if err := mgr.Connect(context.Background(), cli, toIndex); err != nil {
			return err
		}
		color.Green("%s connected to node %d", cli.Node(), toIndex)
		return nil
	},
}

var peersDisconnectCmd = &cobra.Command{
	Use:   "disconnect [fromURI] [toIndex]",
	Short: "drop a node's links to another and wait for removal",
	RunE: func(_ *cobra.Command, args []string) error {
		cli, toIndex, err := peerArgs(args)
		if err != nil {
			return err
		}
		mgr := peering.NewManager(allocator(), logger())
		if err := mgr.Disconnect(context.Background(), cli, toIndex); err != nil {
			return err
		}
		color.Green("%s disconnected from node %d", cli.Node(), toIndex)
		return nil
	},
}
