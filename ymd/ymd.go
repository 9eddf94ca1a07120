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

// Package ymd packs calendar years, year-months and year-month-days into flat
// unsigned 32-bit keys and provides the pure arithmetic needed to derive
// parent keys and child ranges from them.
//
// The encoding is intentionally flat rather than a struct: an ordered
// key-value table's native range scan then gives "all months in year Y" or
// "all days in month YM" for free, without a secondary index.
package ymd

// Year is a literal calendar year, e.g. 2015.
type Year uint32

// YearMonth is Y*100+M, e.g. 201505 for May 2015.
type YearMonth uint32

// YearMonthDay is Y*10000+M*100+D, e.g. 20150503 for 3 May 2015.
type YearMonthDay uint32

// ToYearMonth strips the day component: ymd/100.
func (d YearMonthDay) ToYearMonth() YearMonth {
	return YearMonth(uint32(d) / 100)
}

// ToYear strips the month component: ym/100.
func (ym YearMonth) ToYear() Year {
	return Year(uint32(ym) / 100)
}

// DayRangeForMonth returns the inclusive YearMonthDay range that covers every
// possible day of the given month: [ym*100+1, ym*100+31].
//
// The range intentionally over-approximates calendar validity (every month
// gets a day 31, short months get days 29-31 that never occur). Absence of a
// key in the day-checksum table, not the range itself, is what determines
// whether a day actually exists.
func DayRangeForMonth(ym YearMonth) (lo, hi YearMonthDay) {
	base := uint32(ym) * 100
	return YearMonthDay(base + 1), YearMonthDay(base + 31)
}

// MonthRangeForYear returns the inclusive YearMonth range for a year:
// [y*100+1, y*100+12].
func MonthRangeForYear(y Year) (lo, hi YearMonth) {
	base := uint32(y) * 100
	return YearMonth(base + 1), YearMonth(base + 12)
}

// DayRangeForYear returns the inclusive YearMonthDay range that covers every
// possible day of the given year: [y*10000+101, y*10000+1231].
func DayRangeForYear(y Year) (lo, hi YearMonthDay) {
	base := uint32(y) * 10000
	return YearMonthDay(base + 101), YearMonthDay(base + 1231)
}
