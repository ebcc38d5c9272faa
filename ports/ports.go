// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ports derives non-colliding p2p/rpc listen ports for the nodes of
// one harness process. Each concurrently running process must construct its
// Allocator with a distinct seed; distinct seeds map to disjoint windows with
// high probability over the seed space. This is probabilistic collision
// avoidance, not a hard guarantee.
package ports

import "fmt"

const (
	// MaxNodes is the maximum number of nodes a single harness can drive.
	MaxNodes = 8

	// PortMin is the floor below which no p2p or rpc port is assigned.
	PortMin = 11000

	// PortRange is the number of ports reserved per class (p2p and rpc each).
	PortRange = 5000
)

// Allocator derives the port pair for each node index. The seed is fixed at
// construction; P2P and RPC are pure functions of (seed, index).
type Allocator struct {
	seed int
}

func NewAllocator(seed int) *Allocator {
	return &Allocator{seed: seed}
}

func (a *Allocator) Seed() int {
	return a.seed
}

// P2P returns the p2p listen port for node index n.
func (a *Allocator) P2P(n int) int {
	return PortMin + a.index(n) + a.window()
}

// RPC returns the rpc listen port for node index n.
func (a *Allocator) RPC(n int) int {
	return PortMin + PortRange + a.index(n) + a.window()
}

func (a *Allocator) window() int {
	w := (MaxNodes * a.seed) % (PortRange - 1 - MaxNodes)
	if w < 0 {
		w += PortRange - 1 - MaxNodes
	}
	return w
}

// index validates n. An out-of-range index is a programmer error, not a
// runtime condition, so it panics rather than returning an error.
func (a *Allocator) index(n int) int {
	if n < 0 || n >= MaxNodes {
		panic(fmt.Sprintf("node index %d out of range [0,%d)", n, MaxNodes))
	}
	return n
}
