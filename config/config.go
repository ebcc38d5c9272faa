// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/candelachain/regharness/ports"
	"github.com/candelachain/regharness/runlog"
)

const (
	defaultNumNodes        = 4
	defaultSyncTimeoutSec  = 60
	defaultRoundWaitMillis = 1000
)

// Config carries one harness run's settings. Seed must be unique per
// concurrently running harness process; it feeds the port allocator.
type Config struct {
	Seed     int    `json:"seed"`
	NumNodes int    `json:"numNodes"`
	BaseDir  string `json:"baseDir"`
	RPCHost  string `json:"rpcHost"`

	SyncTimeoutSec  int `json:"syncTimeoutSec"`
	RoundWaitMillis int `json:"roundWaitMillis"`

	LogLevel string `json:"logLevel"`

	RunLog runlog.Config `json:"runLog"`
}

func Default() *Config {
	return &Config{
		NumNodes:        defaultNumNodes,
		SyncTimeoutSec:  defaultSyncTimeoutSec,
		RoundWaitMillis: defaultRoundWaitMillis,
		LogLevel:        "info",
	}
}

// New layers configBytes over the defaults.
func New(configBytes []byte) (*Config, error) {
	c := Default()
	if len(configBytes) > 0 {
		if err := json.Unmarshal(configBytes, c); err != nil {
			return nil, err
		}
	}
	if c.NumNodes < 1 || c.NumNodes > ports.MaxNodes {
		return nil, fmt.Errorf("numNodes %d outside [1,%d]", c.NumNodes, ports.MaxNodes)
	}
	return c, nil
}

func (c *Config) SyncTimeout() time.Duration {
	return time.Duration(c.SyncTimeoutSec) * time.Second
}

func (c *Config) RoundWait() time.Duration {
	return time.Duration(c.RoundWaitMillis) * time.Millisecond
}

func (c *Config) Allocator() *ports.Allocator {
	return ports.NewAllocator(c.Seed)
}
