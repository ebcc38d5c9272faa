// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "time"

// BlockTip is one node's view of the chain tip at a given height.
type BlockTip struct {
	Height int64  `json:"height"`
	Hash   string `json:"hash"`
}

// Peer is one entry of a node's peer list. Version is zero until the version
// handshake with that peer has completed.
type Peer struct {
	ID      int64  `json:"id"`
	Addr    string `json:"addr"`
	Version int64  `json:"version"`
	SubVer  string `json:"subver"`
}

// PublishReply is the response to a contract publish. All three fields come
// from the same response and are recorded together.
type PublishReply struct {
	ContractAddress string `json:"contractaddress"`
	SenderAddress   string `json:"senderaddress"`
	TxID            string `json:"txid"`
}

// Recorder receives one entry per issued RPC command. Implementations must
// tolerate being called from the request path; failures to persist must not
// fail the request.
type Recorder interface {
	Record(node string, method string, ok bool, reason string, took time.Duration)
}
