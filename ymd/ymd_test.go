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

package ymd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToYearMonth(t *testing.T) {
	require.Equal(t, YearMonth(201505), YearMonthDay(20150503).ToYearMonth())
}

func TestToYear(t *testing.T) {
	require.Equal(t, Year(2015), YearMonth(201505).ToYear())
}

func TestDayRangeForMonth(t *testing.T) {
	lo, hi := DayRangeForMonth(201505)
	require.Equal(t, YearMonthDay(20150501), lo)
	require.Equal(t, YearMonthDay(20150531), hi)
}

func TestMonthRangeForYear(t *testing.T) {
	lo, hi := MonthRangeForYear(2015)
	require.Equal(t, YearMonth(201501), lo)
	require.Equal(t, YearMonth(201512), hi)
}

func TestDayRangeForYear(t *testing.T) {
	lo, hi := DayRangeForYear(2015)
	require.Equal(t, YearMonthDay(20150101), lo)
	require.Equal(t, YearMonthDay(20151231), hi)
}

func TestRangesRoundTripThroughToYear(t *testing.T) {
	for y := Year(1); y < 3000; y += 37 {
		loM, hiM := MonthRangeForYear(y)
		require.Equalf(t, y, loM.ToYear(), "month range for year %d escapes its own year: [%d, %d]", y, loM, hiM)
		require.Equalf(t, y, hiM.ToYear(), "month range for year %d escapes its own year: [%d, %d]", y, loM, hiM)
	}
}
