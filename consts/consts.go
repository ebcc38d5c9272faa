// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is the harness identifier sent as the JSON-RPC client id prefix.
	Name = "regharness"

	// Symbol of the chain the harness drives.
	Symbol = "CLA"

	// ConfFileName is the per-node configuration file the node binary reads.
	ConfFileName = "candela.conf"

	// ChainDirName is the network subdirectory inside a node's datadir.
	ChainDirName = "regtest"
)
