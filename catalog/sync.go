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
	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/ymd"
)

// SyncWithPeers reconciles this node against every peer in its roster, in
// roster order. Within the exchange against a single peer, tiers are
// visited year before month before day, and keys within a tier ascending —
// the ordering §5 requires for the Merkle pruning to behave predictably.
//
// A try-lock guards entry: a concurrent call fails immediately with
// ErrSyncAlreadyInProgress and makes no writes (property P7). The lock
// covers the whole reconciliation against every peer, so at any instant the
// node either is syncing or is not; it is never held across a blocking
// acquire, so contention never stalls a caller.
//
// A failure from any RemotePeer method aborts the rest of the round for the
// peer that produced it (and all following peers), but day updates already
// committed locally before that point stay committed, since every Propose
// is its own transaction.
func (n *CatalogNode) SyncWithPeers() error {
	if !n.syncLock.TryAcquire(1) {
		return ErrSyncAlreadyInProgress
	}
	defer n.syncLock.Release(1)

	for _, peer := range n.peerSnapshot() {
		if err := n.syncWithPeer(peer); err != nil {
			return err
		}
	}
	return nil
}

func (n *CatalogNode) syncWithPeer(peer RemotePeer) error {
	localYears, err := n.GetYearsChecksums()
	if err != nil {
		return err
	}
	remoteYears, err := peer.GetYearsChecksums()
	if err != nil {
		return peerErr(peer.ID(), "get years checksums", err)
	}

	onlyInRemote, onlyInLocal, differing := calcDiff(yearEntries(localYears), yearEntries(remoteYears))

	for _, y := range onlyInRemote {
		lo, hi := ymd.DayRangeForYear(y)
		if err := transferRange(peer, n, lo, hi); err != nil {
			return err
		}
	}
	for _, y := range onlyInLocal {
		lo, hi := ymd.DayRangeForYear(y)
		if err := transferRange(n, peer, lo, hi); err != nil {
			return err
		}
	}
	for _, y := range differing {
		if err := n.syncYear(peer, y); err != nil {
			return err
		}
	}

	n.log.Debug("synced with peer", "peer", string(peer.ID()),
		"years_pulled", len(onlyInRemote), "years_pushed", len(onlyInLocal), "years_diffed", len(differing))
	return nil
}

func (n *CatalogNode) syncYear(peer RemotePeer, y ymd.Year) error {
	localMonths, err := n.GetMonthsChecksum(y)
	if err != nil {
		return err
	}
	remoteMonths, err := peer.GetMonthsChecksum(y)
	if err != nil {
		return peerErr(peer.ID(), "get months checksum", err)
	}

	onlyInRemote, onlyInLocal, differing := calcDiff(monthEntries(localMonths), monthEntries(remoteMonths))

	for _, ym := range onlyInRemote {
		lo, hi := ymd.DayRangeForMonth(ym)
		if err := transferRange(peer, n, lo, hi); err != nil {
			return err
		}
	}
	for _, ym := range onlyInLocal {
		lo, hi := ymd.DayRangeForMonth(ym)
		if err := transferRange(n, peer, lo, hi); err != nil {
			return err
		}
	}
	for _, ym := range differing {
		if err := n.syncMonth(peer, ym); err != nil {
			return err
		}
	}
	return nil
}

func (n *CatalogNode) syncMonth(peer RemotePeer, ym ymd.YearMonth) error {
	localDays, err := n.GetDaysChecksum(ym)
	if err != nil {
		return err
	}
	remoteDays, err := peer.GetDaysChecksum(ym)
	if err != nil {
		return peerErr(peer.ID(), "get days checksum", err)
	}

	onlyInRemote, onlyInLocal, differing := calcDiff(dayEntries(localDays), dayEntries(remoteDays))

	for _, d := range onlyInRemote {
		if err := transferDay(peer, n, d); err != nil {
			return err
		}
	}
	for _, d := range onlyInLocal {
		if err := transferDay(n, peer, d); err != nil {
			return err
		}
	}
	for _, d := range differing {
		// A digest mismatch at the day tier does not mean one side is
		// ahead: both sides may hold objects, or peers for a shared
		// object, that the other lacks. Exchange in both directions.
		if err := transferDay(peer, n, d); err != nil {
			return err
		}
		if err := transferDay(n, peer, d); err != nil {
			return err
		}
	}
	return nil
}

// transferRange is the push/pull primitive of §4.3.2: every day that exists
// at src within [lo, hi] is read and proposed at dst.
func transferRange(src, dst RemotePeer, lo, hi ymd.YearMonthDay) error {
	days, err := src.GetExistingDaysInRange(lo, hi)
	if err != nil {
		return peerErr(src.ID(), "get existing days in range", err)
	}
	for _, d := range days {
		if err := transferDay(src, dst, d); err != nil {
			return err
		}
	}
	return nil
}

// transferDay moves one day's DayEntry from src to dst, if src actually has
// it. Presence can be momentarily false even for a day the checksum scan
// just reported, if the tables were not read inside one consistent
// snapshot; that is not an error, just nothing to transfer this round.
func transferDay(src, dst RemotePeer, d ymd.YearMonthDay) error {
	entries, ok, err := src.GetData(d)
	if err != nil {
		return peerErr(src.ID(), "get data", err)
	}
	if !ok {
		return nil
	}
	if _, err := dst.Propose(d, entries); err != nil {
		return peerErr(dst.ID(), "propose", err)
	}
	return nil
}

func yearEntries(rows []catalogdb.YearChecksum) []keyedChecksum[ymd.Year] {
	out := make([]keyedChecksum[ymd.Year], len(rows))
	for i, r := range rows {
		out[i] = keyedChecksum[ymd.Year]{Key: r.Year, Checksum: r.Checksum}
	}
	return out
}

func monthEntries(rows []catalogdb.MonthChecksum) []keyedChecksum[ymd.YearMonth] {
	out := make([]keyedChecksum[ymd.YearMonth], len(rows))
	for i, r := range rows {
		out[i] = keyedChecksum[ymd.YearMonth]{Key: r.YearMonth, Checksum: r.Checksum}
	}
	return out
}

func dayEntries(rows []catalogdb.DayChecksum) []keyedChecksum[ymd.YearMonthDay] {
	out := make([]keyedChecksum[ymd.YearMonthDay], len(rows))
	for i, r := range rows {
		out[i] = keyedChecksum[ymd.YearMonthDay]{Key: r.YearMonthDay, Checksum: r.Checksum}
	}
	return out
}
