// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peering_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/candelachain/regharness/peering"
	"github.com/candelachain/regharness/ports"
	"github.com/candelachain/regharness/rpc"
	"github.com/candelachain/regharness/rpctest"
)

func newNode(t *testing.T) (*rpctest.Node, *rpc.JSONRPCClient) {
	t.Helper()
	n := rpctest.NewNode()
	t.Cleanup(n.Close)
	cli, err := rpc.NewJSONRPCClient(n.URL())
	require.NoError(t, err)
	return n, cli
}

func newManager() *peering.Manager {
	return peering.NewManager(ports.NewAllocator(0), nil)
}

func TestConnectWaitsForHandshake(t *testing.T) {
	require := require.New(t)

	n, cli := newNode(t)
	n.SetPeers(&rpc.Peer{ID: 1, Version: 0, SubVer: "/Candela:0.1.0(testnode1)/"})

	go func() {
		time.Sleep(150 * time.Millisecond)
		n.SetPeerVersion(1, 70015)
	}()

	require.NoError(newManager().Connect(context.Background(), cli, 1))
	require.Equal(1, n.Calls("addnode"))
	require.GreaterOrEqual(n.Calls("getpeerinfo"), 2)
}

func TestConnectBoundedByContext(t *testing.T) {
	require := require.New(t)

	n, cli := newNode(t)
	n.SetPeers(&rpc.Peer{ID: 1, Version: 0, SubVer: "/Candela:0.1.0(testnode1)/"})

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err := newManager().Connect(ctx, cli, 1)
	require.ErrorIs(err, context.DeadlineExceeded)
}

func TestDisconnectRemovesMatchingPeers(t *testing.T) {
	require := require.New(t)

	n, cli := newNode(t)
	n.SetPeers(
		&rpc.Peer{ID: 1, Version: 70015, SubVer: "/Candela:0.1.0(testnode1)/"},
		&rpc.Peer{ID: 2, Version: 70015, SubVer: "/Candela:0.1.0(testnode2)/"},
	)

	require.NoError(newManager().Disconnect(context.Background(), cli, 2))

	peers, err := cli.PeerInfo(context.Background())
	require.NoError(err)
	require.Len(peers, 1)
	require.Equal(int64(1), peers[0].ID)
	require.Equal(1, n.Calls("disconnectnode"))
}

func TestDisconnectNoMatchingPeers(t *testing.T) {
	require := require.New(t)

	n, cli := newNode(t)
	n.SetPeers(&rpc.Peer{ID: 3, Version: 70015, SubVer: "/Candela:0.1.0(testnode3)/"})

	require.NoError(newManager().Disconnect(context.Background(), cli, 1))
	require.Zero(n.Calls("disconnectnode"))
}

func TestDisconnectTimeout(t *testing.T) {
	require := require.New(t)

	n, cli := newNode(t)
	n.SetPeers(&rpc.Peer{ID: 2, Version: 70015, SubVer: "/Candela:0.1.0(testnode2)/"})
	n.KeepPeersOnDisconnect()

	err := newManager().DisconnectWithBudget(context.Background(), cli, 2, 3, 10*time.Millisecond)

	timeoutErr := &peering.DisconnectTimeoutError{}
	require.ErrorAs(err, &timeoutErr)
	require.Equal(2, timeoutErr.PeerIndex)
	require.Equal(1, n.Calls("disconnectnode"))
}

func TestConnectBothSurfacesFirstFailure(t *testing.T) {
	require := require.New(t)

	a, aCli := newNode(t)
	_, bCli := newNode(t)
	a.Handle("addnode", func([]interface{}) (interface{}, *rpc.Error) {
		return nil, &rpc.Error{Code: -9, Message: "addnode refused"}
	})

	err := newManager().ConnectBoth(context.Background(), aCli, 0, bCli, 1)
	require.Error(err)
	require.Contains(err.Error(), "connect")

	rpcErr := &rpc.Error{}
	require.ErrorAs(err, &rpcErr)
	require.Equal(-9, rpcErr.Code)
}
