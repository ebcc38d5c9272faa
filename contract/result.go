// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

// CallResult is the normalized outcome of one contract invocation. Exactly
// one of the payload and the failure reason is set, never both.
type CallResult struct {
	fields map[string]interface{}
	reason string
	failed bool
}

func succeeded(fields map[string]interface{}) *CallResult {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return &CallResult{fields: fields}
}

func failed(reason string) *CallResult {
	return &CallResult{reason: reason, failed: true}
}

func (r *CallResult) Ok() bool {
	return !r.failed
}

// Reason returns the captured failure reason, empty on success.
func (r *CallResult) Reason() string {
	return r.reason
}

// Fields returns the node's response payload, field for field. Nil when the
// invocation failed.
func (r *CallResult) Fields() map[string]interface{} {
	if r.failed {
		return nil
	}
	return r.fields
}

func (r *CallResult) Get(key string) (interface{}, bool) {
	if r.failed {
		return nil, false
	}
	v, ok := r.fields[key]
	return v, ok
}

// TxID returns the broadcast transaction id, empty when absent.
func (r *CallResult) TxID() string {
	v, _ := r.Get("txid")
	s, _ := v.(string)
	return s
}
