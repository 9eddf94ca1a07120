// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package catalogcfg loads a CatalogNode's on-disk configuration, the same
// TOML-file-over-defaults pattern go-ethereum uses for its node config.
// Command-line flags do not override the file's fields.
package catalogcfg

import (
	"os"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
)

// Config is the full set of settings a photocatctl node needs to start.
type Config struct {
	// Name is the node's identity, returned verbatim by CatalogNode.ID.
	Name string `toml:"name"`

	// DataDir is where the on-disk Store lives. Empty means in-memory.
	DataDir string `toml:"datadir"`

	// ListenAddr is the address the HTTP transport (transport/httppeer)
	// binds to, e.g. "127.0.0.1:8787".
	ListenAddr string `toml:"listen_addr"`

	// Peers are HTTP base URLs of remote nodes to register at startup,
	// e.g. "http://10.0.0.2:8787".
	Peers []string `toml:"peers"`

	// LogFile, if set, switches logging to a rotating file instead of
	// stderr (see log.SetFile).
	LogFile string `toml:"log_file"`
}

// Default returns the configuration used when no file is supplied: an
// in-memory store, loopback listener, and no peers.
func Default() Config {
	return Config{
		Name:       "photocat-node",
		DataDir:    "",
		ListenAddr: "127.0.0.1:8787",
	}
}

// Load reads and parses a TOML config file at path, starting from Default()
// so a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "catalogcfg: read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "catalogcfg: parse %s", path)
	}
	return cfg, nil
}
