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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/ymd"
)

func newTestNode(t *testing.T, name string) *CatalogNode {
	t.Helper()
	db, err := catalogdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogNode([]byte(name), db)
}

func mustPropose(t *testing.T, n *CatalogNode, d ymd.YearMonthDay, oid byte, peer byte) {
	t.Helper()
	_, err := n.Propose(d, catalogdb.DayEntry{{ObjectID: catalogdb.ObjectID{oid}, Peers: []catalogdb.PeerLabel{{peer}}}})
	require.NoError(t, err)
}

// S6: two in-process nodes mutually registered converge after one sync,
// and a follow-up propose on the other side converges after the next sync.
func TestSyncWithPeersLoopbackConvergence(t *testing.T) {
	p1 := newTestNode(t, "p1")
	p2 := newTestNode(t, "p2")
	require.NoError(t, p1.AddPeer(p2))
	require.NoError(t, p2.AddPeer(p1))

	mustPropose(t, p1, 20210711, 0x00, 0x00)

	years, err := p2.GetYearsChecksums()
	require.NoError(t, err)
	require.Empty(t, years)

	require.NoError(t, p1.SyncWithPeers())

	years, err = p2.GetYearsChecksums()
	require.NoError(t, err)
	require.Len(t, years, 1)

	data, ok, err := p2.GetData(20210711)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, catalogdb.DayEntry{{ObjectID: catalogdb.ObjectID{0x00}, Peers: []catalogdb.PeerLabel{{0x00}}}}, data)

	mustPropose(t, p2, 20210711, 0x01, 0x00)

	require.NoError(t, p1.SyncWithPeers())

	data, ok, err = p1.GetData(20210711)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, catalogdb.DayEntry{
		{ObjectID: catalogdb.ObjectID{0x00}, Peers: []catalogdb.PeerLabel{{0x00}}},
		{ObjectID: catalogdb.ObjectID{0x01}, Peers: []catalogdb.PeerLabel{{0x00}}},
	}, data)
}

// P6: a full pairwise sync converges every tier's digest, not just DATA.
func TestSyncWithPeersConvergesAllTiers(t *testing.T) {
	a := newTestNode(t, "a")
	b := newTestNode(t, "b")
	require.NoError(t, a.AddPeer(b))

	mustPropose(t, a, 20220101, 0x00, 0x00)
	mustPropose(t, a, 20220102, 0x01, 0x00)
	mustPropose(t, a, 20220201, 0x02, 0x00)
	mustPropose(t, b, 20220101, 0x03, 0x01)

	require.NoError(t, a.SyncWithPeers())

	aYears, _ := a.GetYearsChecksums()
	bYears, _ := b.GetYearsChecksums()
	require.Equal(t, aYears, bYears)

	aMonths, _ := a.GetMonthsChecksum(2022)
	bMonths, _ := b.GetMonthsChecksum(2022)
	require.Equal(t, aMonths, bMonths)

	aDays, _ := a.GetDaysChecksum(202201)
	bDays, _ := b.GetDaysChecksum(202201)
	require.Equal(t, aDays, bDays)

	aData, _, _ := a.GetData(20220101)
	bData, _, _ := b.GetData(20220101)
	require.Equal(t, aData, bData)
}

// P7: a second concurrent sync call fails fast without making any writes.
func TestSyncWithPeersExclusion(t *testing.T) {
	a := newTestNode(t, "a")
	b := newTestNode(t, "b")
	require.NoError(t, a.AddPeer(b))
	mustPropose(t, b, 20220101, 0x00, 0x00)

	require.True(t, a.syncLock.TryAcquire(1)) // simulate a sync already in flight
	defer a.syncLock.Release(1)

	err := a.SyncWithPeers()
	require.ErrorIs(t, err, ErrSyncAlreadyInProgress)

	years, err := a.GetYearsChecksums()
	require.NoError(t, err)
	require.Empty(t, years, "a failed sync must not have pulled anything")
}

// AddPeer's reciprocal notification does not recurse between the two
// nodes; both rosters end up with exactly one entry.
func TestAddPeerReciprocalRegistrationDoesNotRecurse(t *testing.T) {
	a := newTestNode(t, "a")
	b := newTestNode(t, "b")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, a.AddPeer(b))
	}()
	wg.Wait()

	require.Len(t, a.peerSnapshot(), 1)
	require.Len(t, b.peerSnapshot(), 1)
}
