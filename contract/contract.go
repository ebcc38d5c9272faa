// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract models the publish/call lifecycle of one smart contract
// against a bound node endpoint. A Contract is owned by the test that created
// it and is not shared across goroutines.
package contract

import (
	"context"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/candelachain/regharness/rpc"
)

// callPrefix marks the symbolic names that resolve to contract calls.
const callPrefix = "call_"

// Contract starts unpublished; Publish moves it to published exactly once,
// recording address, publisher and publish txid together from the one
// response. Construction performs no I/O.
type Contract struct {
	cli        *rpc.JSONRPCClient
	sourcePath string
	log        *zap.Logger

	published   bool
	address     string
	publisher   string
	publishTxID string
}

type Option func(*Contract)

func WithContractLogger(log *zap.Logger) Option {
	return func(c *Contract) { c.log = log }
}

// New builds an unpublished contract descriptor around the source artifact at
// sourcePath, bound to cli.
func New(cli *rpc.JSONRPCClient, sourcePath string, opts ...Option) *Contract {
	c := &Contract{
		cli:        cli,
		sourcePath: sourcePath,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish sends the source artifact to the bound node. Calling it on an
// already published contract is a no-op, so address, publisher and txid never
// change after the first success.
func (c *Contract) Publish(ctx context.Context) error {
	if c.published {
		return nil
	}
	reply, err := c.cli.PublishContract(ctx, c.sourcePath)
	if err != nil {
		return err
	}
	c.address = reply.ContractAddress
	c.publisher = reply.SenderAddress
	c.publishTxID = reply.TxID
	c.published = true
	c.log.Info("contract published",
		zap.String("address", c.address),
		zap.String("publisher", c.publisher),
		zap.String("txid", c.publishTxID),
	)
	return nil
}

func (c *Contract) Published() bool { return c.published }
func (c *Contract) Address() string { return c.address }
func (c *Contract) Publisher() string { return c.publisher }
func (c *Contract) PublishTxID() string { return c.publishTxID }
func (c *Contract) SourcePath() string { return c.sourcePath }

// Call resolves a symbolic name of the form "call_<fn>" into a bound Caller.
// Resolution fails fast with ErrNotPublished before publish and with
// ErrUnknownSymbol for names outside the call pattern.
func (c *Contract) Call(symbol string) (*Caller, error) {
	if !c.published {
		return nil, ErrNotPublished
	}
	if !strings.HasPrefix(symbol, callPrefix) || len(symbol) == len(callPrefix) {
		return nil, ErrUnknownSymbol
	}
	return &Caller{
		cli:     c.cli,
		fn:      strings.TrimPrefix(symbol, callPrefix),
		address: c.address,
		sender:  c.publisher,
		log:     c.log,
	}, nil
}

// Balance returns the contract address's balance as seen by the bound node,
// or by execCli when non-nil.
func (c *Contract) Balance(ctx context.Context, execCli *rpc.JSONRPCClient) (float64, error) {
	cli := c.cli
	if execCli != nil {
		cli = execCli
	}
	return cli.GetBalanceOf(ctx, c.address)
}

// Caller is a reusable handle for invoking one contract function. It holds
// only lookups (endpoint, function name, contract address, default sender);
// per-call overrides never persist on it.
type Caller struct {
	cli     *rpc.JSONRPCClient
	fn      string
	address string
	sender  string
	log     *zap.Logger
}

func (cl *Caller) Fn() string { return cl.fn }

// NewCaller binds fn on an already deployed contract, for resuming work
// against an address published by an earlier run.
func NewCaller(cli *rpc.JSONRPCClient, address, sender, fn string) *Caller {
	return &Caller{
		cli:     cli,
		fn:      fn,
		address: address,
		sender:  sender,
		log:     zap.NewNop(),
	}
}

type callOptions struct {
	sender    string
	amount    int64
	amountSet bool
	broadcast bool
	capture   bool
	exec      *rpc.JSONRPCClient
}

type CallOption func(*callOptions)

// WithSender overrides the sender for this invocation only.
func WithSender(sender string) CallOption {
	return func(o *callOptions) { o.sender = sender }
}

// WithAmount fixes the attached amount. When unset, a pseudo-random amount in
// [1,10000] is attached; that default exists to stress value handling, it
// carries no semantics.
func WithAmount(amount int64) CallOption {
	return func(o *callOptions) {
		o.amount = amount
		o.amountSet = true
	}
}

// WithBroadcast controls whether the node broadcasts the call transaction.
func WithBroadcast(broadcast bool) CallOption {
	return func(o *callOptions) { o.broadcast = broadcast }
}

// WithCapturedFailure downgrades invocation errors into the result's failure
// reason instead of returning them.
func WithCapturedFailure() CallOption {
	return func(o *callOptions) { o.capture = true }
}

// WithExecClient redirects this invocation to another endpoint. Unless an
// explicit sender is also given, a fresh address from that endpoint is used.
func WithExecClient(cli *rpc.JSONRPCClient) CallOption {
	return func(o *callOptions) { o.exec = cli }
}

// Invoke performs one RPC invocation of the bound function with positional
// args. On success the response payload passes through untouched; on failure
// the error either propagates or, with WithCapturedFailure, becomes the
// result's failure reason.
func (cl *Caller) Invoke(ctx context.Context, args []interface{}, opts ...CallOption) (*CallResult, error) {
	o := callOptions{broadcast: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.amountSet {
		o.amount = 1 + rand.Int63n(10000)
	}

	result, err := cl.invoke(ctx, args, &o)
	if err != nil {
		if !o.capture {
			return nil, err
		}
		cl.log.Debug("captured call failure",
			zap.String("fn", cl.fn),
			zap.Error(err),
		)
		return failed(err.Error()), nil
	}
	return result, nil
}

func (cl *Caller) invoke(ctx context.Context, args []interface{}, o *callOptions) (*CallResult, error) {
	cli := cl.cli
	if o.exec != nil {
		cli = o.exec
	}

	sender := cl.sender
	switch {
	case o.sender != "":
		sender = o.sender
	case o.exec != nil:
		fresh, err := o.exec.GetNewAddress(ctx)
		if err != nil {
			return nil, err
		}
		sender = fresh
	}

	cl.log.Debug("calling contract",
		zap.String("address", cl.address),
		zap.String("fn", cl.fn),
		zap.String("sender", sender),
		zap.Int64("amount", o.amount),
	)
	fields, err := cli.CallContract(ctx, o.broadcast, o.amount, cl.address, sender, cl.fn, args...)
	if err != nil {
		return nil, err
	}
	return succeeded(fields), nil
}
