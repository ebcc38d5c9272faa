// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"errors"
	"fmt"
)

var (
	ErrBadResponse = errors.New("malformed rpc response")
	ErrNoRPCPort   = errors.New("rpc url has no port")
)

// Error is the structured failure a node returns in the response body. It is
// passed through to callers unchanged.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
