// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peering

import (
	"context"
	"time"

	"github.com/candelachain/regharness/rpc"
)

// DisconnectWithBudget exposes the bounded disconnect poll so tests can
// shrink its budget.
func (m *Manager) DisconnectWithBudget(
	ctx context.Context,
	cli *rpc.JSONRPCClient,
	toIndex int,
	attempts int,
	interval time.Duration,
) error {
	return m.disconnect(ctx, cli, toIndex, attempts, interval)
}
