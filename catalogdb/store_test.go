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

package catalogdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snorochevskiy/photocat/ymd"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// S1: a fresh node's first add populates all three tiers and the day row.
func TestAddPhotosToDayFreshDay(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x00}, Peers: []PeerLabel{{0x00}}}})
	require.NoError(t, err)

	years, err := s.GetYearsChecksums()
	require.NoError(t, err)
	require.Len(t, years, 1)
	require.Equal(t, ymd.Year(2022), years[0].Year)

	months, err := s.GetMonthsChecksum(2022)
	require.NoError(t, err)
	require.Len(t, months, 1)
	require.Equal(t, ymd.YearMonth(202201), months[0].YearMonth)

	photos, ok, err := s.GetPhotos(20220101)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, photos, 1)
	require.Equal(t, ObjectID{0x00}, photos[0].ObjectID)
	require.Equal(t, []PeerLabel{{0x00}}, photos[0].Peers)
}

// S2 / P1: repeating an identical add is a no-op on every tier.
func TestAddPhotosToDayIdempotent(t *testing.T) {
	s := newTestStore(t)
	add := []DayObject{{ObjectID: []byte{0x00}, Peers: []PeerLabel{{0x00}}}}

	chk1, err := s.AddPhotosToDay(20220101, add)
	require.NoError(t, err)

	years1, _ := s.GetYearsChecksums()
	months1, _ := s.GetMonthsChecksum(2022)

	chk2, err := s.AddPhotosToDay(20220101, add)
	require.NoError(t, err)
	require.Equal(t, chk1, chk2)

	years2, _ := s.GetYearsChecksums()
	months2, _ := s.GetMonthsChecksum(2022)
	require.Equal(t, years1, years2)
	require.Equal(t, months1, months2)
}

// S3 / P2: adding a second peer for the same object unions the peer set and
// leaves every digest unchanged, because peers are excluded from digests.
func TestAddPhotosToDayPeerUnion(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x00}, Peers: []PeerLabel{{0x00}}}})
	require.NoError(t, err)

	dayChk1, _ := s.GetDaysChecksum(202201)

	_, err = s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x00}, Peers: []PeerLabel{{0x01}}}})
	require.NoError(t, err)

	photos, ok, err := s.GetPhotos(20220101)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, photos, 1)
	require.ElementsMatch(t, []PeerLabel{{0x00}, {0x01}}, photos[0].Peers)

	dayChk2, _ := s.GetDaysChecksum(202201)
	require.Equal(t, dayChk1, dayChk2)
}

// S4: a genuinely new object changes every tier's digest.
func TestAddPhotosToDayNewObjectChangesDigests(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x00}, Peers: []PeerLabel{{0x00}}}})
	require.NoError(t, err)

	years1, _ := s.GetYearsChecksums()
	months1, _ := s.GetMonthsChecksum(2022)
	days1, _ := s.GetDaysChecksum(202201)

	_, err = s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x01}, Peers: []PeerLabel{{0x00}}}})
	require.NoError(t, err)

	photos, ok, err := s.GetPhotos(20220101)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, photos, 2)

	years2, _ := s.GetYearsChecksums()
	months2, _ := s.GetMonthsChecksum(2022)
	days2, _ := s.GetDaysChecksum(202201)
	require.NotEqual(t, years1[0].Checksum, years2[0].Checksum)
	require.NotEqual(t, months1[0].Checksum, months2[0].Checksum)
	require.NotEqual(t, days1[0].Checksum, days2[0].Checksum)
}

// P4: a sibling day's checksum is untouched, but its parents' are not.
func TestSiblingIsolation(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddPhotosToDay(20220101, []DayObject{{ObjectID: []byte{0x00}, Peers: nil}})
	require.NoError(t, err)

	days1, _ := s.GetDaysChecksum(202201)
	var day2Before Checksum
	for _, d := range days1 {
		if d.YearMonthDay == 20220101 {
			day2Before = d.Checksum
		}
	}
	years1, _ := s.GetYearsChecksums()
	months1, _ := s.GetMonthsChecksum(2022)

	_, err = s.AddPhotosToDay(20220102, []DayObject{{ObjectID: []byte{0x01}, Peers: nil}})
	require.NoError(t, err)

	days2, _ := s.GetDaysChecksum(202201)
	for _, d := range days2 {
		if d.YearMonthDay == 20220101 {
			require.Equal(t, day2Before, d.Checksum, "sibling day checksum must not change")
		}
	}

	years2, _ := s.GetYearsChecksums()
	months2, _ := s.GetMonthsChecksum(2022)
	require.NotEqual(t, years1[0].Checksum, years2[0].Checksum)
	require.NotEqual(t, months1[0].Checksum, months2[0].Checksum)
}

// I6: reading any table before it has ever been written returns empty, not
// an error.
func TestAbsentTablesAreEmptyNotErrors(t *testing.T) {
	s := newTestStore(t)

	years, err := s.GetYearsChecksums()
	require.NoError(t, err)
	require.Empty(t, years)

	months, err := s.GetMonthsChecksum(1999)
	require.NoError(t, err)
	require.Empty(t, months)

	days, err := s.GetDaysChecksum(199912)
	require.NoError(t, err)
	require.Empty(t, days)

	photos, ok, err := s.GetPhotos(19991231)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, photos)
}

// S5 / P3: insertion order never affects the final digests.
func TestDigestsIndependentOfInsertionOrder(t *testing.T) {
	type add struct {
		day ymd.YearMonthDay
		oid byte
	}
	forward := []add{{20220101, 0}, {20220101, 1}, {20220102, 0}, {20220201, 0}}
	backward := []add{{20220201, 0}, {20220102, 0}, {20220101, 1}, {20220101, 0}}

	a := newTestStore(t)
	for _, e := range forward {
		_, err := a.AddPhotosToDay(e.day, []DayObject{{ObjectID: []byte{e.oid}, Peers: []PeerLabel{{0x00}}}})
		require.NoError(t, err)
	}

	b := newTestStore(t)
	for _, e := range backward {
		_, err := b.AddPhotosToDay(e.day, []DayObject{{ObjectID: []byte{e.oid}, Peers: []PeerLabel{{0x00}}}})
		require.NoError(t, err)
	}

	yearsA, _ := a.GetYearsChecksums()
	yearsB, _ := b.GetYearsChecksums()
	require.Equal(t, yearsA, yearsB)

	monthsA, _ := a.GetMonthsChecksum(2022)
	monthsB, _ := b.GetMonthsChecksum(2022)
	require.Equal(t, monthsA, monthsB)

	daysA, _ := a.GetDaysChecksum(202201)
	daysB, _ := b.GetDaysChecksum(202201)
	require.Equal(t, daysA, daysB)
}

func TestGetExistingDaysInRange(t *testing.T) {
	s := newTestStore(t)
	for _, d := range []ymd.YearMonthDay{20220101, 20220115, 20220301} {
		_, err := s.AddPhotosToDay(d, []DayObject{{ObjectID: []byte{0x00}, Peers: nil}})
		require.NoError(t, err)
	}

	days, err := s.GetExistingDaysInRange(20220101, 20220131)
	require.NoError(t, err)
	require.Equal(t, []ymd.YearMonthDay{20220101, 20220115}, days)
}
