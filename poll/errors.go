// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poll

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// BoundAttempts and BoundTimeout name which WaitUntil budget ran out.
	BoundAttempts = "attempts"
	BoundTimeout  = "timeout"
)

// TimeoutError reports an exhausted WaitUntil bound.
type TimeoutError struct {
	Bound    string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"wait exhausted %s bound after %d attempts (%s elapsed)",
		e.Bound, e.Attempts, e.Elapsed.Round(time.Millisecond),
	)
}

// ConvergenceError reports that the endpoints did not reach agreement on an
// observable before the sync timeout. Observed holds every endpoint's last
// reported value to aid diagnosis.
type ConvergenceError struct {
	Observable string
	Target     string
	Observed   map[string]string
}

func (e *ConvergenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s sync timed out", e.Observable)
	if e.Target != "" {
		fmt.Fprintf(&b, " (target %s)", e.Target)
	}
	for _, node := range sortedKeys(e.Observed) {
		fmt.Fprintf(&b, "\n  %s: %s", node, e.Observed[node])
	}
	return b.String()
}

// DivergenceError reports endpoints agreeing on height but not on the hash at
// that height. This signals a real fork and is never retried.
type DivergenceError struct {
	Height int64
	Tips   map[string]string
}

func (e *DivergenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "divergent chain state at height %d", e.Height)
	for _, node := range sortedKeys(e.Tips) {
		fmt.Fprintf(&b, "\n  %s: %s", node, e.Tips[node])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
