// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests  prometheus.Counter
	failures  prometheus.Counter
	rpcErrors prometheus.Counter
}

// NewMetrics registers the harness request counters on r. One Metrics is
// shared across all clients of a run.
func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regharness",
			Name:      "rpc_requests",
			Help:      "number of rpc requests issued",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regharness",
			Name:      "rpc_failures",
			Help:      "number of rpc requests that failed at the transport",
		}),
		rpcErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regharness",
			Name:      "rpc_errors",
			Help:      "number of structured errors returned by nodes",
		}),
	}
	err := errors.Join(
		r.Register(m.requests),
		r.Register(m.failures),
		r.Register(m.rpcErrors),
	)
	return m, err
}

func (m *Metrics) observe(err error) {
	m.requests.Inc()
	if err == nil {
		return
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		m.rpcErrors.Inc()
	} else {
		m.failures.Inc()
	}
}
