// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/candelachain/regharness/consts"
)

// requester speaks the node's JSON-RPC 1.0 wire format: positional params,
// basic auth, errors carried as {code, message} objects in the response body.
type requester struct {
	url      string
	user     string
	pass     string
	client   *http.Client
	nextID   uint64
	node     string
	metrics  *Metrics
	recorder Recorder
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// SendRequest issues one RPC and decodes the result into reply. A nil reply
// discards the result. Wire errors come back as *Error, untouched.
func (r *requester) SendRequest(ctx context.Context, method string, params []interface{}, reply interface{}) error {
	start := time.Now()
	err := r.send(ctx, method, params, reply)
	if r.metrics != nil {
		r.metrics.observe(err)
	}
	if r.recorder != nil {
		reason := ""
		if err != nil {
			reason = err.Error()
		}
		r.recorder.Record(r.node, method, err == nil, reason, time.Since(start))
	}
	return err
}

func (r *requester) send(ctx context.Context, method string, params []interface{}, reply interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	id := atomic.AddUint64(&r.nextID, 1)
	body, err := json.Marshal(&rpcRequest{
		JSONRPC: "1.0",
		ID:      consts.Name + "-" + strconv.FormatUint(id, 10),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.user != "" || r.pass != "" {
		req.SetBasicAuth(r.user, r.pass)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Nodes answer auth and routing problems with bare HTTP statuses.
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
		}
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if parsed.Error != nil {
		return parsed.Error
	}
	if reply == nil || len(parsed.Result) == 0 {
		return nil
	}
	return json.Unmarshal(parsed.Result, reply)
}
