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

import "github.com/snorochevskiy/photocat/catalogdb"

// ordinalKey is satisfied by every flat key type the three checksum tiers
// use (ymd.Year, ymd.YearMonth, ymd.YearMonthDay); they are all, in the end,
// a uint32.
type ordinalKey interface {
	~uint32
}

// keyedChecksum pairs a tier key with its digest, the common shape that
// GetYearsChecksums, GetMonthsChecksum and GetDaysChecksum all return in
// their own types.
type keyedChecksum[K ordinalKey] struct {
	Key      K
	Checksum catalogdb.Checksum
}

// calcDiff is the three-way set diff of §4.3.1: given two sequences sorted
// ascending by key, it returns the keys only present on the right, only
// present on the left, and present on both with differing digests. It is a
// single linear merge walk, so the whole anti-entropy protocol runs in time
// proportional to the symmetric difference, not the full catalog.
func calcDiff[K ordinalKey](left, right []keyedChecksum[K]) (onlyInRight, onlyInLeft, differing []K) {
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i].Key < right[j].Key:
			onlyInLeft = append(onlyInLeft, left[i].Key)
			i++
		case left[i].Key > right[j].Key:
			onlyInRight = append(onlyInRight, right[j].Key)
			j++
		default:
			if left[i].Checksum != right[j].Checksum {
				differing = append(differing, left[i].Key)
			}
			i++
			j++
		}
	}
	for ; i < len(left); i++ {
		onlyInLeft = append(onlyInLeft, left[i].Key)
	}
	for ; j < len(right); j++ {
		onlyInRight = append(onlyInRight, right[j].Key)
	}
	return onlyInRight, onlyInLeft, differing
}
