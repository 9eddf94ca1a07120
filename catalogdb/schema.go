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
	"encoding/binary"

	"github.com/snorochevskiy/photocat/ymd"
)

// Table prefixes. The four logical tables of the spec (CHK_Y, CHK_YM,
// CHK_YMD, DATA) all live in the engine's single flat keyspace, namespaced
// by a one-byte prefix so range scans over one tier never cross into
// another. Big-endian key suffixes keep lexicographic and numeric order
// identical, which is what makes a prefix range scan equivalent to a
// bounded numeric range scan.
var (
	yearChecksumPrefix  = []byte{'y'}
	monthChecksumPrefix = []byte{'m'}
	dayChecksumPrefix   = []byte{'d'}
	dayDataPrefix       = []byte{'p'}
)

func yearKey(y ymd.Year) []byte {
	return appendUint32(yearChecksumPrefix, uint32(y))
}

func monthKey(ym ymd.YearMonth) []byte {
	return appendUint32(monthChecksumPrefix, uint32(ym))
}

func dayChecksumKey(d ymd.YearMonthDay) []byte {
	return appendUint32(dayChecksumPrefix, uint32(d))
}

func dayDataKey(d ymd.YearMonthDay) []byte {
	return appendUint32(dayDataPrefix, uint32(d))
}

func appendUint32(prefix []byte, v uint32) []byte {
	key := make([]byte, len(prefix)+4)
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], v)
	return key
}

func decodeUint32Suffix(key []byte, prefixLen int) uint32 {
	return binary.BigEndian.Uint32(key[prefixLen:])
}

// rangeBounds turns an inclusive [lo, hi] numeric range into the half-open
// byte-key range a goleveldb iterator expects (Limit is exclusive, so it is
// the key one past hi).
func rangeBounds(prefix []byte, lo, hi uint32) (start, limit []byte) {
	start = appendUint32(prefix, lo)
	limit = appendUint32(prefix, hi+1)
	return start, limit
}
