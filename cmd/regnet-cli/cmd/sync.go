// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/candelachain/regharness/poll"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "wait for the endpoints to converge",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var syncBlocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "wait until all endpoints report the same tip",
	RunE: func(*cobra.Command, []string) error {
		clis, err := clients()
		if err != nil {
			return err
		}
		if err := poll.SyncBlocks(
			context.Background(),
			clis,
			poll.WithSyncTimeout(syncTimeout),
			poll.WithSyncLogger(logger()),
		); err != nil {
			return err
		}
		color.Green("blocks synced across %d endpoints", len(clis))
		return nil
	},
}

var syncChainCmd = &cobra.Command{
	Use:   "chain",
	Short: "wait until all endpoints report the same best hash",
	RunE: func(*cobra.Command, []string) error {
		clis, err := clients()
		if err != nil {
			return err
		}
		if err := poll.SyncChain(
			context.Background(),
			clis,
			poll.WithSyncTimeout(syncTimeout),
		); err != nil {
			return err
		}
		color.Green("chain synced across %d endpoints", len(clis))
		return nil
	},
}

var syncMempoolsCmd = &cobra.Command{
	Use:   "mempools",
	Short: "wait until all endpoints report the same mempool set",
	RunE: func(*cobra.Command, []string) error {
		clis, err := clients()
		if err != nil {
			return err
		}
		if err := poll.SyncMempools(
			context.Background(),
			clis,
			poll.WithSyncTimeout(syncTimeout),
		); err != nil {
			return err
		}
		color.Green("mempools synced across %d endpoints", len(clis))
		return nil
	},
}
