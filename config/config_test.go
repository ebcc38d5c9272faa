// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.Equal(4, c.NumNodes)
	require.Equal(60*time.Second, c.SyncTimeout())
	require.Equal(time.Second, c.RoundWait())
	require.Equal("info", c.LogLevel)
	require.False(c.RunLog.Enabled)
}

func TestOverlay(t *testing.T) {
	require := require.New(t)

	c, err := New([]byte(`{
		"seed": 17,
		"numNodes": 2,
		"syncTimeoutSec": 30,
		"runLog": {"enabled": true, "backend": "sqlite", "dsn": ":memory:"}
	}`))
	require.NoError(err)
	require.Equal(17, c.Seed)
	require.Equal(2, c.NumNodes)
	require.Equal(30*time.Second, c.SyncTimeout())
	require.True(c.RunLog.Enabled)
	require.Equal(17, c.Allocator().Seed())
}

func TestInvalidNumNodes(t *testing.T) {
	for _, raw := range []string{`{"numNodes": 0}`, `{"numNodes": 9}`} {
		_, err := New([]byte(raw))
		require.Error(t, err, raw)
	}
}
