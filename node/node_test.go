// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candelachain/regharness/consts"
	"github.com/candelachain/regharness/ports"
)

func TestInitDataDir(t *testing.T) {
	require := require.New(t)

	baseDir := t.TempDir()
	alloc := ports.NewAllocator(3)

	datadir, err := InitDataDir(baseDir, 2, alloc)
	require.NoError(err)
	require.Equal(DataDir(baseDir, 2), datadir)

	raw, err := os.ReadFile(filepath.Join(datadir, consts.ConfFileName))
	require.NoError(err)
	conf := string(raw)
	require.Contains(conf, "regtest=1")
	require.Contains(conf, fmt.Sprintf("port=%d", alloc.P2P(2)))
	require.Contains(conf, fmt.Sprintf("rpcport=%d", alloc.RPC(2)))
	require.Contains(conf, "uacomment=testnode2")
}

func TestAuthCookieFromConf(t *testing.T) {
	require := require.New(t)

	datadir := t.TempDir()
	conf := "regtest=1\nrpcuser=alice\nrpcpassword=hunter2\n"
	require.NoError(os.WriteFile(filepath.Join(datadir, consts.ConfFileName), []byte(conf), 0o644))

	user, pass, err := AuthCookie(datadir)
	require.NoError(err)
	require.Equal("alice", user)
	require.Equal("hunter2", pass)
}

func TestAuthCookieFileWins(t *testing.T) {
	require := require.New(t)

	datadir := t.TempDir()
	conf := "rpcuser=alice\nrpcpassword=hunter2\n"
	require.NoError(os.WriteFile(filepath.Join(datadir, consts.ConfFileName), []byte(conf), 0o644))

	chainDir := filepath.Join(datadir, consts.ChainDirName)
	require.NoError(os.MkdirAll(chainDir, 0o755))
	require.NoError(os.WriteFile(filepath.Join(chainDir, ".cookie"), []byte("__cookie__:s3cret\n"), 0o644))

	user, pass, err := AuthCookie(datadir)
	require.NoError(err)
	require.Equal("__cookie__", user)
	require.Equal("s3cret", pass)
}

func TestAuthCookieMissing(t *testing.T) {
	_, _, err := AuthCookie(t.TempDir())
	require.ErrorIs(t, err, ErrNoRPCCredentials)
}

func TestRPCURL(t *testing.T) {
	require := require.New(t)

	baseDir := t.TempDir()
	alloc := ports.NewAllocator(1)
	datadir, err := InitDataDir(baseDir, 0, alloc)
	require.NoError(err)

	confPath := filepath.Join(datadir, consts.ConfFileName)
	raw, err := os.ReadFile(confPath)
	require.NoError(err)
	require.NoError(os.WriteFile(confPath, append(raw, []byte("rpcuser=u\nrpcpassword=p\n")...), 0o644))

	url, err := RPCURL(datadir, 0, "", alloc)
	require.NoError(err)
	require.Equal(fmt.Sprintf("http://u:p@127.0.0.1:%d", alloc.RPC(0)), url)

	url, err = RPCURL(datadir, 0, "10.0.0.5", alloc)
	require.NoError(err)
	require.Equal(fmt.Sprintf("http://u:p@10.0.0.5:%d", alloc.RPC(0)), url)

	url, err = RPCURL(datadir, 0, "10.0.0.5:19000", alloc)
	require.NoError(err)
	require.Equal("http://u:p@10.0.0.5:19000", url)
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/run", 1, "debug.log")
	require.Equal(t, filepath.Join("/tmp/run", "node1", consts.ChainDirName, "debug.log"), got)
}
