// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpctest runs an in-process stand-in for one node's RPC interface.
// Tests mutate its chain/mempool/peer state between polling rounds to script
// convergence scenarios without real node processes.
package rpctest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/candelachain/regharness/rpc"
)

// Handler serves one RPC method. Params arrive as decoded JSON values
// (numbers are float64). Returning a non-nil *rpc.Error produces a
// structured wire error.
type Handler func(params []interface{}) (interface{}, *rpc.Error)

type Node struct {
	srv *httptest.Server

	mu       sync.Mutex
	height   int64
	hashes   map[int64]string
	mempool  []string
	peers    []*rpc.Peer
	balances map[string]float64
	handlers map[string]Handler
	calls    map[string]int
	addrSeq  int

	removeOnDisconnect bool

	user string
	pass string
}

// NewNode starts a stub at height 0 with an empty mempool. Close it when the
// test ends.
func NewNode() *Node {
	n := &Node{
		hashes:             map[int64]string{0: "genesis"},
		balances:           map[string]float64{},
		handlers:           map[string]Handler{},
		calls:              map[string]int{},
		removeOnDisconnect: true,
	}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	return n
}

func (n *Node) Close() {
	n.srv.Close()
}

// URL returns the endpoint, with credentials embedded when auth is required.
func (n *Node) URL() string {
	if n.user == "" && n.pass == "" {
		return n.srv.URL
	}
	return fmt.Sprintf("http://%s:%s@%s", n.user, n.pass, n.srv.Listener.Addr())
}

// RequireAuth makes the stub reject requests without matching basic auth.
func (n *Node) RequireAuth(user, pass string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.user, n.pass = user, pass
}

// Handle overrides the builtin behavior for method.
func (n *Node) Handle(method string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

// Calls reports how many times method has been served.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// SetTip sets the node's height and the hash at that height.
func (n *Node) SetTip(height int64, hash string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.height = height
	n.hashes[height] = hash
}

func (n *Node) SetMempool(txids ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mempool = append([]string{}, txids...)
}

func (n *Node) AddMempool(txid string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mempool = append(n.mempool, txid)
}

func (n *Node) SetPeers(peers ...*rpc.Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.peers = append([]*rpc.Peer{}, peers...)
}

// SetPeerVersion marks peer id as handshaked (or not).
func (n *Node) SetPeerVersion(id int64, version int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range n.peers {
		if p.ID == id {
			p.Version = version
		}
	}
}

// KeepPeersOnDisconnect makes disconnectnode directives take no effect, to
// exercise disconnect timeouts.
func (n *Node) KeepPeersOnDisconnect() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removeOnDisconnect = false
}

func (n *Node) SetBalance(addr string, amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[addr] = amount
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	user, pass := n.user, n.pass
	n.mu.Unlock()
	if user != "" || pass != "" {
		gotUser, gotPass, ok := r.BasicAuth()
		if !ok || gotUser != user || gotPass != pass {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var req struct {
		ID     interface{}   `json:"id"`
		Method string        `json:"method"`
		Params []interface{} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, rpcErr := n.dispatch(req.Method, req.Params)
	resp := map[string]interface{}{
		"result": result,
		"error":  rpcErr,
		"id":     req.ID,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *Node) dispatch(method string, params []interface{}) (interface{}, *rpc.Error) {
	n.mu.Lock()
	n.calls[method]++
	override := n.handlers[method]
	n.mu.Unlock()

	if override != nil {
		return override(params)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	switch method {
	case "getblockcount":
		return n.height, nil
	case "getbestblockhash":
		return n.hashes[n.height], nil
	case "waitforblockheight":
		// The stub never blocks; convergence tests advance the tip between
		// polling rounds instead.
		return &rpc.BlockTip{Height: n.height, Hash: n.hashes[n.height]}, nil
	case "getrawmempool":
		return n.mempool, nil
	case "getpeerinfo":
		return n.peers, nil
	case "addnode":
		return nil, nil
	case "disconnectnode":
		if n.removeOnDisconnect && len(params) >= 2 {
			id := int64(params[1].(float64))
			kept := n.peers[:0]
			for _, p := range n.peers {
				if p.ID != id {
					kept = append(kept, p)
				}
			}
			n.peers = kept
		}
		return nil, nil
	case "getnewaddress":
		n.addrSeq++
		return fmt.Sprintf("claddr%d", n.addrSeq), nil
	case "getbalanceof":
		addr, _ := params[0].(string)
		return n.balances[addr], nil
	case "generate":
		count := int(params[0].(float64))
		hashes := make([]string, 0, count)
		for i := 0; i < count; i++ {
			n.height++
			h := fmt.Sprintf("blk%d", n.height)
			n.hashes[n.height] = h
			hashes = append(hashes, h)
		}
		return hashes, nil
	case "publishcontract":
		return &rpc.PublishReply{
			ContractAddress: "2NContractAddr",
			SenderAddress:   "claddrPublisher",
			TxID:            "txidPublish",
		}, nil
	case "callcontract":
		return map[string]interface{}{"txid": "txidCall"}, nil
	default:
		return nil, &rpc.Error{Code: -32601, Message: "Method not found"}
	}
}
