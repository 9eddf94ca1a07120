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

// Package catalog composes a catalogdb.Store with a roster of remote peers
// and drives pairwise anti-entropy reconciliation between them.
package catalog

import (
	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/ymd"
)

// RemotePeer is the capability set a reconciliation partner exposes: tier
// queries for Merkle-pruned diffing, day-range enumeration, and the
// pull/propose primitives that carry the actual data across. A CatalogNode
// implements this interface itself, so two nodes can be wired together
// in-process without a transport.
//
// Contract: every tier-query method returns its rows ordered ascending by
// key; the anti-entropy driver's merge-walk diff (calcDiff) relies on it.
// Propose is idempotent: re-proposing the same entries for the same day
// yields the same stored state and the same returned checksum (invariants
// I1, I5).
type RemotePeer interface {
	// ID returns a stable identifier for this peer.
	ID() []byte

	// NotifyAddedBy is called when another node adds this peer to its
	// roster. It is not invoked by the anti-entropy driver itself.
	NotifyAddedBy(peer RemotePeer) error

	GetYearsChecksums() ([]catalogdb.YearChecksum, error)
	GetMonthsChecksum(y ymd.Year) ([]catalogdb.MonthChecksum, error)
	GetDaysChecksum(ym ymd.YearMonth) ([]catalogdb.DayChecksum, error)
	GetExistingDaysInRange(lo, hi ymd.YearMonthDay) ([]ymd.YearMonthDay, error)

	// GetData returns the DayEntry for d, and false if the day has never
	// been written.
	GetData(d ymd.YearMonthDay) (catalogdb.DayEntry, bool, error)

	// Propose is the destination-side write during reconciliation: it
	// merges entries into day d by peer-set union and returns the
	// resulting CHK_YMD[d].
	Propose(d ymd.YearMonthDay, entries catalogdb.DayEntry) (catalogdb.Checksum, error)
}
