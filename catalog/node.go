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

package catalog

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/log"
	"github.com/snorochevskiy/photocat/ymd"
)

// CatalogNode owns a local Store exclusively and keeps an append-only
// roster of remote peers. It drives pairwise anti-entropy reconciliation
// against that roster and, because it also implements RemotePeer itself,
// can be wired directly to another in-process CatalogNode for tests or a
// star topology.
type CatalogNode struct {
	name []byte
	db   *catalogdb.Store
	log  *log.Logger

	rosterMu sync.RWMutex // multiple-reader / single-writer over peers
	peers    []RemotePeer

	syncLock *semaphore.Weighted // try-lock: guards entry to SyncWithPeers
}

// NewCatalogNode wraps db with an empty peer roster. name is returned
// verbatim by ID.
func NewCatalogNode(name []byte, db *catalogdb.Store) *CatalogNode {
	return &CatalogNode{
		name:     name,
		db:       db,
		log:      log.With("node", string(name)),
		syncLock: semaphore.NewWeighted(1),
	}
}

// ID returns the node's name.
func (n *CatalogNode) ID() []byte { return n.name }

// AddPeer appends peer to the roster (no deduplication) and then invokes
// peer.NotifyAddedBy so the partner can reciprocally register this node,
// per the design notes' recommended resolution of the cross-registration
// ambiguity. New peers added mid-sync are only picked up by the next call
// to SyncWithPeers, since SyncWithPeers snapshots the roster once up front.
func (n *CatalogNode) AddPeer(peer RemotePeer) error {
	n.appendPeer(peer)
	if err := peer.NotifyAddedBy(n); err != nil {
		return peerErr(peer.ID(), "notify of new peer", err)
	}
	return nil
}

// NotifyAddedBy reciprocally registers peer in this node's own roster. It
// deliberately does not call peer.AddPeer back, or this node's own AddPeer
// (which would in turn call NotifyAddedBy on the original caller) — doing
// so would recurse between the two nodes forever.
func (n *CatalogNode) NotifyAddedBy(peer RemotePeer) error {
	n.appendPeer(peer)
	return nil
}

func (n *CatalogNode) appendPeer(peer RemotePeer) {
	n.rosterMu.Lock()
	n.peers = append(n.peers, peer)
	n.rosterMu.Unlock()
}

// peerSnapshot takes a consistent copy of the roster under the reader
// lease and releases it before any I/O begins, so a writer (AddPeer) is
// never blocked behind a long-running sync.
func (n *CatalogNode) peerSnapshot() []RemotePeer {
	n.rosterMu.RLock()
	defer n.rosterMu.RUnlock()
	return append([]RemotePeer(nil), n.peers...)
}

// The tier-query and data methods below make CatalogNode satisfy
// RemotePeer by delegating straight to its Store.

func (n *CatalogNode) GetYearsChecksums() ([]catalogdb.YearChecksum, error) {
	return n.db.GetYearsChecksums()
}

func (n *CatalogNode) GetMonthsChecksum(y ymd.Year) ([]catalogdb.MonthChecksum, error) {
	return n.db.GetMonthsChecksum(y)
}

func (n *CatalogNode) GetDaysChecksum(ym ymd.YearMonth) ([]catalogdb.DayChecksum, error) {
	return n.db.GetDaysChecksum(ym)
}

func (n *CatalogNode) GetExistingDaysInRange(lo, hi ymd.YearMonthDay) ([]ymd.YearMonthDay, error) {
	return n.db.GetExistingDaysInRange(lo, hi)
}

func (n *CatalogNode) GetData(d ymd.YearMonthDay) (catalogdb.DayEntry, bool, error) {
	return n.db.GetPhotos(d)
}

// Propose is the destination-side write primitive: it merges entries into
// day d by peer-set union via the Store's mutator and returns the resulting
// CHK_YMD[d]. It is exposed directly for callers (tests, a transport
// server) that want to feed a day without going through SyncWithPeers.
func (n *CatalogNode) Propose(d ymd.YearMonthDay, entries catalogdb.DayEntry) (catalogdb.Checksum, error) {
	objs := make([]catalogdb.DayObject, len(entries))
	copy(objs, entries)
	chk, err := n.db.AddPhotosToDay(d, objs)
	if err != nil {
		return catalogdb.Checksum{}, err
	}
	return chk, nil
}
