// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/candelachain/regharness/contract"
	"github.com/candelachain/regharness/rpc"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "publish and call contracts",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var contractDeployCmd = &cobra.Command{
	Use:   "deploy [uri] [sourcePath]",
	Short: "publish a contract; with no sourcePath, generate the template",
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return ErrInvalidArgs
		}
		opts, err := clientOptions()
		if err != nil {
			return err
		}
		cli, err := rpc.NewJSONRPCClient(args[0], opts...)
		if err != nil {
			return err
		}

		var sourcePath string
		if len(args) == 2 {
			sourcePath = args[1]
		} else {
			dir, err := os.MkdirTemp("", "contract_")
			if err != nil {
				return err
			}
			sourcePath, err = contract.GenerateSource(dir, contract.VariantNone)
			if err != nil {
				return err
			}
		}

		c := contract.New(cli, sourcePath, contract.WithContractLogger(logger()))
		if err := c.Publish(context.Background()); err != nil {
			return err
		}
		color.Green("published %s", c.Address())
		color.Yellow("publisher: %s", c.Publisher())
		color.Yellow("txid: %s", c.PublishTxID())
		return nil
	},
}

var contractCallCmd = &cobra.Command{
	Use:   "call [uri] [address] [sender] [fn] [args...]",
	Short: "invoke a function on a deployed contract",
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) < 4 {
			return ErrInvalidArgs
		}
		opts, err := clientOptions()
		if err != nil {
			return err
		}
		cli, err := rpc.NewJSONRPCClient(args[0], opts...)
		if err != nil {
			return err
		}

		caller := contract.NewCaller(cli, args[1], args[2], args[3])
		callArgs := make([]interface{}, 0, len(args)-4)
		for _, a := range args[4:] {
			callArgs = append(callArgs, a)
		}

		result, err := caller.Invoke(context.Background(), callArgs, contract.WithCapturedFailure())
		if err != nil {
			return err
		}
		if !result.Ok() {
			color.Red("call failed: %s", result.Reason())
			return nil
		}
		for k, v := range result.Fields() {
			color.Yellow("%s: %v", k, v)
		}
		return nil
	},
}
