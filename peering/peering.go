// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package peering establishes and tears down links between harness nodes and
// waits for the node to acknowledge them.
package peering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/candelachain/regharness/ports"
	"github.com/candelachain/regharness/rpc"
)

const (
	handshakeInterval = 100 * time.Millisecond

	disconnectAttempts = 50
	disconnectInterval = 100 * time.Millisecond
)

// DisconnectTimeoutError reports that a peer was still listed after the
// disconnect poll budget ran out.
type DisconnectTimeoutError struct {
	Node      string
	PeerIndex int
}

func (e *DisconnectTimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out waiting for disconnect from node %d", e.Node, e.PeerIndex)
}

// Marker returns the subversion marker node index carries in its user agent
// comment; peers are matched on it when tearing links down.
func Marker(index int) string {
	return fmt.Sprintf("testnode%d", index)
}

type Manager struct {
	alloc *ports.Allocator
	log   *zap.Logger
}

func NewManager(alloc *ports.Allocator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{alloc: alloc, log: log}
}

// Connect directs cli's node to dial node toIndex and waits until the version
// handshake has completed for every listed peer, so a transaction relayed
// right after cannot race the link coming up. The wait is bounded only by
// ctx.
func (m *Manager) Connect(ctx context.Context, cli *rpc.JSONRPCClient, toIndex int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", m.alloc.P2P(toIndex))
	if err := cli.AddNode(ctx, addr, "onetry"); err != nil {
		return err
	}
	m.log.Debug("connecting", zap.String("from", cli.Node()), zap.String("to", addr))

	for {
		peers, err := cli.PeerInfo(ctx)
		if err != nil {
			return err
		}
		pending := false
		for _, peer := range peers {
			if peer.Version == 0 {
				pending = true
				break
			}
		}
		if !pending {
			return nil
		}
		if err := sleep(ctx, handshakeInterval); err != nil {
			return err
		}
	}
}

// Disconnect directs cli's node to drop every peer carrying toIndex's marker
// and polls a bounded number of short intervals for the peer list to clear.
func (m *Manager) Disconnect(ctx context.Context, cli *rpc.JSONRPCClient, toIndex int) error {
	return m.disconnect(ctx, cli, toIndex, disconnectAttempts, disconnectInterval)
}

func (m *Manager) disconnect(
	ctx context.Context,
	cli *rpc.JSONRPCClient,
	toIndex int,
	attempts int,
	interval time.Duration,
) error {
	ids, err := m.matchingPeers(ctx, cli, toIndex)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := cli.DisconnectNode(ctx, id); err != nil {
			return err
		}
	}

	for i := 0; i < attempts; i++ {
		ids, err := m.matchingPeers(ctx, cli, toIndex)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
	return &DisconnectTimeoutError{Node: cli.Node(), PeerIndex: toIndex}
}

func (m *Manager) matchingPeers(ctx context.Context, cli *rpc.JSONRPCClient, toIndex int) ([]int64, error) {
	peers, err := cli.PeerInfo(ctx)
	if err != nil {
		return nil, err
	}
	marker := Marker(toIndex)
	ids := make([]int64, 0, len(peers))
	for _, peer := range peers {
		if strings.Contains(peer.SubVer, marker) {
			ids = append(ids, peer.ID)
		}
	}
	return ids, nil
}

// ConnectBoth links a and b in both directions. The directions are
// independent; the first failure surfaces immediately so a half-connected
// pair is never silently left behind.
func (m *Manager) ConnectBoth(
	ctx context.Context,
	a *rpc.JSONRPCClient, aIndex int,
	b *rpc.JSONRPCClient, bIndex int,
) error {
	if err := m.Connect(ctx, a, bIndex); err != nil {
		return fmt.Errorf("connect %s -> node %d: %w", a.Node(), bIndex, err)
	}
	if err := m.Connect(ctx, b, aIndex); err != nil {
		return fmt.Errorf("connect %s -> node %d: %w", b.Node(), aIndex, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
