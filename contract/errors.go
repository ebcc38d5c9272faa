// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import "errors"

var (
	// ErrNotPublished rejects call resolution on a contract that has not
	// completed Publish.
	ErrNotPublished = errors.New("contract not published, cannot be called")

	// ErrUnknownSymbol rejects symbols that do not follow the call_<fn>
	// pattern; distinct from a miss on a well-formed call name, which the
	// node reports through the call itself.
	ErrUnknownSymbol = errors.New("symbol does not name a contract call")
)
