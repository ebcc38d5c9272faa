// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/candelachain/regharness/ports"
)

var portsCmd = &cobra.Command{
	Use:   "ports [index]",
	Short: "print the p2p/rpc port pair(s) derived from --seed",
	RunE: func(_ *cobra.Command, args []string) error {
		alloc := allocator()
		indexes := make([]int, 0, ports.MaxNodes)
		switch len(args) {
		case 0:
			for n := 0; n < ports.MaxNodes; n++ {
				indexes = append(indexes, n)
			}
		case 1:
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 || n >= ports.MaxNodes {
				return ErrInvalidArgs
			}
			indexes = append(indexes, n)
		default:
			return ErrInvalidArgs
		}

		for _, n := range indexes {
			color.Yellow("node%d: p2p=%d rpc=%d", n, alloc.P2P(n), alloc.RPC(n))
		}
		return nil
	},
}
