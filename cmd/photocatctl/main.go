// Copyright 2020 The go-ethereum Authors
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

// Command photocatctl runs one catalog node: it opens the local Store,
// starts the HTTP transport, dials any configured peers, and periodically
// drives anti-entropy reconciliation against the roster.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/snorochevskiy/photocat/catalog"
	"github.com/snorochevskiy/photocat/catalogcfg"
	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/log"
	"github.com/snorochevskiy/photocat/transport/httppeer"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML node configuration file",
	}
	syncIntervalFlag = &cli.DurationFlag{
		Name:  "sync-interval",
		Usage: "how often to run anti-entropy reconciliation against the peer roster; 0 disables the loop",
		Value: 30 * time.Second,
	}
)

func main() {
	app := &cli.App{
		Name:  "photocatctl",
		Usage: "run a photocat catalog node",
		Flags: []cli.Flag{configFlag, syncIntervalFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := catalogcfg.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = catalogcfg.Load(path)
		if err != nil {
			return err
		}
	}
	if cfg.LogFile != "" {
		log.SetFile(cfg.LogFile, 100, 5, 28)
	}

	db, err := openStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	node := catalog.NewCatalogNode([]byte(cfg.Name), db)

	srv := httppeer.NewServer(node)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
			log.Crit("http server stopped", "err", err)
		}
	}()

	for _, peerURL := range cfg.Peers {
		peer := httppeer.NewClient(peerURL, node.ID(), "http://"+cfg.ListenAddr)
		if err := node.AddPeer(peer); err != nil {
			log.Error("failed to register peer", "peer", peerURL, "err", err)
			continue
		}
		log.Info("registered peer", "peer", peerURL)
	}

	interval := c.Duration("sync-interval")
	if interval <= 0 {
		select {}
	}
	syncLoop(node, interval)
	return nil
}

func openStore(dataDir string) (*catalogdb.Store, error) {
	if dataDir == "" {
		return catalogdb.OpenMemory()
	}
	return catalogdb.Open(dataDir)
}

// syncLoop periodically drives reconciliation against the peer roster,
// logging but not dying on ErrSyncAlreadyInProgress or a peer failure.
func syncLoop(node *catalog.CatalogNode, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := node.SyncWithPeers(); err != nil {
			log.Warn("sync round failed", "err", err)
		}
	}
}
