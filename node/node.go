// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node prepares the on-disk state the node-bootstrap collaborator
// needs: per-node data directories, the configuration file each node binary
// reads, and RPC credential/url resolution. Process lifecycle itself is owned
// by the collaborator, not the harness.
package node

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/candelachain/regharness/consts"
	"github.com/candelachain/regharness/peering"
	"github.com/candelachain/regharness/ports"
)

var ErrNoRPCCredentials = errors.New("no rpc credentials in datadir")

// DataDir returns the datadir path of node index under baseDir.
func DataDir(baseDir string, index int) string {
	return filepath.Join(baseDir, "node"+strconv.Itoa(index))
}

// LogPath returns the path of logName inside node index's chain directory.
func LogPath(baseDir string, index int, logName string) string {
	return filepath.Join(DataDir(baseDir, index), consts.ChainDirName, logName)
}

// InitDataDir creates node index's datadir and writes its configuration file
// with the allocator's ports. The uacomment marker is what peering matches
// when tearing links down.
func InitDataDir(baseDir string, index int, alloc *ports.Allocator) (string, error) {
	datadir := DataDir(baseDir, index)
	if err := os.MkdirAll(datadir, 0o755); err != nil {
		return "", err
	}
	conf := strings.Join([]string{
		"regtest=1",
		"port=" + strconv.Itoa(alloc.P2P(index)),
		"rpcport=" + strconv.Itoa(alloc.RPC(index)),
		"listenonion=0",
		"uacomment=" + peering.Marker(index),
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(datadir, consts.ConfFileName), []byte(conf), 0o644); err != nil {
		return "", err
	}
	return datadir, nil
}

// AuthCookie resolves the node's RPC credentials: rpcuser/rpcpassword from
// the configuration file when present, otherwise the cookie the node drops
// once it is up. The cookie wins when both exist.
func AuthCookie(datadir string) (string, string, error) {
	var user, pass string

	confPath := filepath.Join(datadir, consts.ConfFileName)
	if raw, err := os.ReadFile(confPath); err == nil {
		for _, line := range strings.Split(string(raw), "\n") {
			if v, ok := strings.CutPrefix(line, "rpcuser="); ok {
				user = strings.TrimSpace(v)
			}
			if v, ok := strings.CutPrefix(line, "rpcpassword="); ok {
				pass = strings.TrimSpace(v)
			}
		}
	}

	cookiePath := filepath.Join(datadir, consts.ChainDirName, ".cookie")
	if raw, err := os.ReadFile(cookiePath); err == nil {
		parts := strings.SplitN(strings.TrimSpace(string(raw)), ":", 2)
		if len(parts) == 2 {
			user, pass = parts[0], parts[1]
		}
	}

	if user == "" || pass == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNoRPCCredentials, datadir)
	}
	return user, pass, nil
}

// RPCURL builds the credentialed endpoint url for node index. rpchost may
// override the default host, either as "host" or "host:port".
func RPCURL(datadir string, index int, rpchost string, alloc *ports.Allocator) (string, error) {
	user, pass, err := AuthCookie(datadir)
	if err != nil {
		return "", err
	}

	host := "127.0.0.1"
	port := strconv.Itoa(alloc.RPC(index))
	if rpchost != "" {
		if h, p, ok := strings.Cut(rpchost, ":"); ok {
			host, port = h, p
		} else {
			host = rpchost
		}
	}
	return fmt.Sprintf("http://%s:%s@%s:%s", user, pass, host, port), nil
}
