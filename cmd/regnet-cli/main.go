// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "regnet-cli" drives a local regtest network from the command line: port
// allocation, convergence waits, peer links and contract publish/call.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/candelachain/regharness/cmd/regnet-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.Red("regnet-cli exited with error: %+v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
