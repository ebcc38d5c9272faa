// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poll

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/candelachain/regharness/rpc"
)

type syncOptions struct {
	wait    time.Duration
	timeout time.Duration
	log     *zap.Logger
}

type SyncOption func(*syncOptions)

// WithRoundWait sets the per-round budget: the per-node block wait in
// SyncBlocks, the inter-round sleep in SyncChain/SyncMempools.
func WithRoundWait(d time.Duration) SyncOption {
	return func(o *syncOptions) { o.wait = d }
}

// WithSyncTimeout bounds the whole synchronization.
func WithSyncTimeout(d time.Duration) SyncOption {
	return func(o *syncOptions) { o.timeout = d }
}

func WithSyncLogger(log *zap.Logger) SyncOption {
	return func(o *syncOptions) { o.log = log }
}

func newSyncOptions(opts []SyncOption) syncOptions {
	o := syncOptions{
		wait:    time.Second,
		timeout: defaultCeiling,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SyncBlocks waits until every endpoint reports the same tip. At least one
// endpoint must already hold the latest stable tip, otherwise the target
// height can be established below where the network will settle.
//
// The target is taken from a direct height query rather than the blocking
// block wait: on a node still catching up the height query surfaces the
// authoritative height sooner. Equal heights with mismatched hashes mean a
// fork; that fails immediately with *DivergenceError and is never retried.
func SyncBlocks(ctx context.Context, clients []*rpc.JSONRPCClient, opts ...SyncOption) error {
	o := newSyncOptions(opts)

	var maxHeight int64
	for _, cli := range clients {
		height, err := cli.BlockCount(ctx)
		if err != nil {
			return err
		}
		if height > maxHeight {
			maxHeight = height
		}
	}
	o.log.Info("syncing blocks", zap.Int64("maxHeight", maxHeight))

	deadline := time.Now().Add(o.timeout)
	tips := make([]*rpc.BlockTip, len(clients))
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, cli := range clients {
			tip, err := cli.WaitForBlockHeight(ctx, maxHeight, o.wait)
			if err != nil {
				return err
			}
			tips[i] = tip
		}

		settled := true
		for _, tip := range tips {
			if tip.Height != maxHeight {
				settled = false
				break
			}
		}
		if !settled {
			continue
		}

		for _, tip := range tips {
			if tip.Hash != tips[0].Hash {
				return &DivergenceError{Height: maxHeight, Tips: observedTips(clients, tips)}
			}
		}
		return nil
	}

	return &ConvergenceError{
		Observable: "block",
		Target:     fmt.Sprintf("height %d", maxHeight),
		Observed:   observedTips(clients, tips),
	}
}

// SyncChain waits until every endpoint reports the same best block hash.
func SyncChain(ctx context.Context, clients []*rpc.JSONRPCClient, opts ...SyncOption) error {
	o := newSyncOptions(opts)

	hashes := make([]string, len(clients))
	deadline := time.Now().Add(o.timeout)
	for {
		for i, cli := range clients {
			hash, err := cli.BestBlockHash(ctx)
			if err != nil {
				return err
			}
			hashes[i] = hash
		}

		equal := true
		for _, hash := range hashes {
			if hash != hashes[0] {
				equal = false
				break
			}
		}
		if equal {
			return nil
		}

		if !time.Now().Add(o.wait).Before(deadline) {
			observed := make(map[string]string, len(clients))
			for i, cli := range clients {
				observed[cli.Node()] = hashes[i]
			}
			return &ConvergenceError{Observable: "chain", Observed: observed}
		}
		if err := sleep(ctx, o.wait); err != nil {
			return err
		}
	}
}

// SyncMempools waits until every endpoint reports an identical set of pending
// transaction ids.
func SyncMempools(ctx context.Context, clients []*rpc.JSONRPCClient, opts ...SyncOption) error {
	o := newSyncOptions(opts)

	pools := make([][]string, len(clients))
	deadline := time.Now().Add(o.timeout)
	for {
		for i, cli := range clients {
			txids, err := cli.RawMempool(ctx)
			if err != nil {
				return err
			}
			pools[i] = txids
		}

		equal := true
		for _, pool := range pools[1:] {
			if !sameIDSet(pools[0], pool) {
				equal = false
				break
			}
		}
		if equal {
			return nil
		}

		if !time.Now().Add(o.wait).Before(deadline) {
			observed := make(map[string]string, len(clients))
			for i, cli := range clients {
				sorted := append([]string{}, pools[i]...)
				sort.Strings(sorted)
				observed[cli.Node()] = "{" + strings.Join(sorted, ",") + "}"
			}
			return &ConvergenceError{Observable: "mempool", Observed: observed}
		}
		if err := sleep(ctx, o.wait); err != nil {
			return err
		}
	}
}

func sameIDSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	if len(set) != len(uniq(b)) {
		return false
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func uniq(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func observedTips(clients []*rpc.JSONRPCClient, tips []*rpc.BlockTip) map[string]string {
	observed := make(map[string]string, len(clients))
	for i, cli := range clients {
		if tips[i] == nil {
			continue
		}
		observed[cli.Node()] = fmt.Sprintf("height=%d hash=%s", tips[i].Height, tips[i].Hash)
	}
	return observed
}
