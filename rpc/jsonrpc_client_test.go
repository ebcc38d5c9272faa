// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/candelachain/regharness/rpc"
	"github.com/candelachain/regharness/rpctest"
)

func newClient(t *testing.T, n *rpctest.Node, opts ...rpc.ClientOption) *rpc.JSONRPCClient {
	t.Helper()
	cli, err := rpc.NewJSONRPCClient(n.URL(), opts...)
	require.NoError(t, err)
	return cli
}

func TestQueries(t *testing.T) {
	require := require.New(t)

	n := rpctest.NewNode()
	defer n.Close()
	n.SetTip(7, "blk7")
	n.SetMempool("txa", "txb")
	n.SetPeers(&rpc.Peer{ID: 3, Version: 70015, SubVer: "/Candela:0.1.0(testnode3)/"})
	n.SetBalance("addr1", 12.5)

	cli := newClient(t, n)
	ctx := context.Background()

	height, err := cli.BlockCount(ctx)
	require.NoError(err)
	require.Equal(int64(7), height)

	hash, err := cli.BestBlockHash(ctx)
	require.NoError(err)
	require.Equal("blk7", hash)

	tip, err := cli.WaitForBlockHeight(ctx, 7, time.Second)
	require.NoError(err)
	require.Equal(&rpc.BlockTip{Height: 7, Hash: "blk7"}, tip)

	txids, err := cli.RawMempool(ctx)
	require.NoError(err)
	require.ElementsMatch([]string{"txa", "txb"}, txids)

	peers, err := cli.PeerInfo(ctx)
	require.NoError(err)
	require.Len(peers, 1)
	require.Equal(int64(3), peers[0].ID)
	require.Contains(peers[0].SubVer, "testnode3")

	balance, err := cli.GetBalanceOf(ctx, "addr1")
	require.NoError(err)
	require.Equal(12.5, balance)

	hashes, err := cli.Generate(ctx, 2)
	require.NoError(err)
	require.Len(hashes, 2)

	height, err = cli.BlockCount(ctx)
	require.NoError(err)
	require.Equal(int64(9), height)
}

func TestWireErrorPassthrough(t *testing.T) {
	require := require.New(t)

	n := rpctest.NewNode()
	defer n.Close()
	n.Handle("getblockcount", func([]interface{}) (interface{}, *rpc.Error) {
		return nil, &rpc.Error{Code: -5, Message: "boom"}
	})

	cli := newClient(t, n)
	_, err := cli.BlockCount(context.Background())

	rpcErr := &rpc.Error{}
	require.ErrorAs(err, &rpcErr)
	require.Equal(-5, rpcErr.Code)
	require.Equal("boom", rpcErr.Message)
}

func TestBasicAuth(t *testing.T) {
	require := require.New(t)

	n := rpctest.NewNode()
	defer n.Close()
	n.RequireAuth("user", "hunter2")
	n.SetTip(1, "blk1")

	cli := newClient(t, n)
	height, err := cli.BlockCount(context.Background())
	require.NoError(err)
	require.Equal(int64(1), height)

	unauth, err := rpc.NewJSONRPCClient("http://user:wrong@" + cli.Node())
	require.NoError(err)
	_, err = unauth.BlockCount(context.Background())
	require.ErrorIs(err, rpc.ErrBadResponse)
}

func TestPublishAndCall(t *testing.T) {
	require := require.New(t)

	n := rpctest.NewNode()
	defer n.Close()
	cli := newClient(t, n)
	ctx := context.Background()

	reply, err := cli.PublishContract(ctx, "/tmp/contract.lua")
	require.NoError(err)
	require.NotEmpty(reply.ContractAddress)
	require.NotEmpty(reply.SenderAddress)
	require.NotEmpty(reply.TxID)

	var (
		mu     sync.Mutex
		params []interface{}
	)
	n.Handle("callcontract", func(p []interface{}) (interface{}, *rpc.Error) {
		mu.Lock()
		params = p
		mu.Unlock()
		return map[string]interface{}{"txid": "txidCall", "return": "pong"}, nil
	})

	fields, err := cli.CallContract(ctx, true, 25, reply.ContractAddress, reply.SenderAddress, "say", "hello", 1)
	require.NoError(err)
	require.Equal("pong", fields["return"])

	mu.Lock()
	defer mu.Unlock()
	require.Equal(true, params[0])
	require.Equal(float64(25), params[1])
	require.Equal(reply.ContractAddress, params[2])
	require.Equal(reply.SenderAddress, params[3])
	require.Equal("say", params[4])
	require.Equal("hello", params[5])
	require.Equal(float64(1), params[6])
}

func TestURIValidation(t *testing.T) {
	_, err := rpc.NewJSONRPCClient("http://localhost")
	require.ErrorIs(t, err, rpc.ErrNoRPCPort)
}

type recordedCall struct {
	node   string
	method string
	ok     bool
}

type memRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *memRecorder) Record(node, method string, ok bool, _ string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{node: node, method: method, ok: ok})
}

func TestRecorderObservesCommands(t *testing.T) {
	require := require.New(t)

	n := rpctest.NewNode()
	defer n.Close()
	n.Handle("getbestblockhash", func([]interface{}) (interface{}, *rpc.Error) {
		return nil, &rpc.Error{Code: -1, Message: "nope"}
	})

	rec := &memRecorder{}
	cli := newClient(t, n, rpc.WithRecorder(rec), rpc.WithNodeName("node0"))
	ctx := context.Background()

	_, err := cli.BlockCount(ctx)
	require.NoError(err)
	_, err = cli.BestBlockHash(ctx)
	require.Error(err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal([]recordedCall{
		{node: "node0", method: "getblockcount", ok: true},
		{node: "node0", method: "getbestblockhash", ok: false},
	}, rec.calls)
}
