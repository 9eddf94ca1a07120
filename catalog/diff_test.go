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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snorochevskiy/photocat/catalogdb"
)

func chk(b byte) catalogdb.Checksum {
	var c catalogdb.Checksum
	c[0] = b
	return c
}

func TestCalcDiffPartitionsKeys(t *testing.T) {
	left := []keyedChecksum[uint32]{
		{Key: 1, Checksum: chk(1)},
		{Key: 2, Checksum: chk(2)},
		{Key: 4, Checksum: chk(4)},
	}
	right := []keyedChecksum[uint32]{
		{Key: 2, Checksum: chk(9)}, // differs
		{Key: 3, Checksum: chk(3)}, // only in right
		{Key: 4, Checksum: chk(4)}, // same
	}

	onlyInRight, onlyInLeft, differing := calcDiff(left, right)

	require.Equal(t, []uint32{1}, onlyInLeft)
	require.Equal(t, []uint32{3}, onlyInRight)
	require.Equal(t, []uint32{2}, differing)
}

func TestCalcDiffEmptyInputs(t *testing.T) {
	onlyInRight, onlyInLeft, differing := calcDiff[uint32](nil, nil)
	require.Empty(t, onlyInRight)
	require.Empty(t, onlyInLeft)
	require.Empty(t, differing)
}

func TestCalcDiffDisjointTails(t *testing.T) {
	left := []keyedChecksum[uint32]{{Key: 1, Checksum: chk(1)}, {Key: 2, Checksum: chk(2)}}
	right := []keyedChecksum[uint32]{{Key: 10, Checksum: chk(10)}}

	onlyInRight, onlyInLeft, differing := calcDiff(left, right)
	require.Equal(t, []uint32{1, 2}, onlyInLeft)
	require.Equal(t, []uint32{10}, onlyInRight)
	require.Empty(t, differing)
}

func TestCalcDiffIdenticalIsEmpty(t *testing.T) {
	rows := []keyedChecksum[uint32]{{Key: 1, Checksum: chk(1)}, {Key: 2, Checksum: chk(2)}}
	onlyInRight, onlyInLeft, differing := calcDiff(rows, rows)
	require.Empty(t, onlyInRight)
	require.Empty(t, onlyInLeft)
	require.Empty(t, differing)
}
